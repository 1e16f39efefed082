package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/nelliei/albumsearcher-db/internal/metrics"
	"github.com/nelliei/albumsearcher-db/internal/models"
)

var (
	// ErrUpstreamUnavailable wraps network, status and decoding failures of the catalog API.
	ErrUpstreamUnavailable = errors.New("album catalog unavailable")

	ErrArtistNotFound = errors.New("artist not found")
	ErrAlbumNotFound  = errors.New("album not found")
)

type CatalogService interface {
	SearchAlbumsAndArtist(ctx context.Context, artistName string) (*ArtistSearchResult, error)
	GetAlbumDetails(ctx context.Context, albumID int64) (*CatalogAlbum, error)
	GetAlbumTracks(ctx context.Context, albumID int64) ([]CatalogTrack, error)
}

type ArtistSearchResult struct {
	ArtistName string
	Albums     []CatalogAlbum
	Artist     *CatalogArtist
}

type CatalogAlbum struct {
	ID           flexString `json:"idAlbum"`
	Name         flexString `json:"strAlbum"`
	Artist       flexString `json:"strArtist"`
	YearReleased flexString `json:"intYearReleased"`
	Score        flexString `json:"intScore"`
	Thumb        flexString `json:"strAlbumThumb"`
	Genre        flexString `json:"strGenre"`
	Label        flexString `json:"strLabel"`
	Description  flexString `json:"strDescriptionEN"`
}

// Year is nil when the catalog has no release year.
func (a CatalogAlbum) Year() *int {
	year, err := strconv.Atoi(strings.TrimSpace(string(a.YearReleased)))
	if err != nil || year <= 0 {
		return nil
	}
	return &year
}

// Rate is nil when the album has not been scored.
func (a CatalogAlbum) Rate() *float64 {
	score, err := strconv.ParseFloat(strings.TrimSpace(string(a.Score)), 64)
	if err != nil {
		return nil
	}
	return &score
}

func (a CatalogAlbum) ImagePath() *string {
	if a.Thumb == "" {
		return nil
	}
	thumb := string(a.Thumb)
	return &thumb
}

// ToModel converts catalog metadata into the local album cache row.
func (a CatalogAlbum) ToModel(albumID int64) *models.Album {
	return &models.Album{
		AlbumID:   albumID,
		AlbumName: string(a.Name),
		Artist:    string(a.Artist),
		Year:      a.Year(),
		Rate:      a.Rate(),
		ImagePath: a.ImagePath(),
	}
}

type CatalogArtist struct {
	ID         flexString `json:"idArtist"`
	Name       flexString `json:"strArtist"`
	Genre      flexString `json:"strGenre"`
	Country    flexString `json:"strCountry"`
	FormedYear flexString `json:"intFormedYear"`
	Website    flexString `json:"strWebsite"`
	Biography  flexString `json:"strBiographyEN"`
	Thumb      flexString `json:"strArtistThumb"`
}

type CatalogTrack struct {
	ID       flexString `json:"idTrack"`
	Name     flexString `json:"strTrack"`
	Number   flexString `json:"intTrackNumber"`
	Duration flexString `json:"intDuration"`
}

// Length formats the track duration (milliseconds in the catalog) as m:ss.
func (t CatalogTrack) Length() string {
	ms, err := strconv.Atoi(string(t.Duration))
	if err != nil || ms <= 0 {
		return ""
	}
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// flexString accepts JSON strings, numbers and null; the catalog is not consistent.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	switch {
	case string(b) == "null":
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		*f = flexString(b)
	}
	return nil
}

type audioDBService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

type AudioDBConfig struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64
}

// NewAudioDBService returns a CatalogService backed by TheAudioDB's JSON API.
func NewAudioDBService(cfg AudioDBConfig, m *metrics.Metrics, log *zap.Logger) CatalogService {
	burst := int(cfg.RateLimit)
	if burst < 1 {
		burst = 1
	}
	return &audioDBService{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
		metrics:    m,
		logger:     log,
	}
}

func (s *audioDBService) SearchAlbumsAndArtist(ctx context.Context, artistName string) (*ArtistSearchResult, error) {
	name := cases.Title(language.English).String(strings.TrimSpace(artistName))
	if name == "" {
		return nil, ErrArtistNotFound
	}

	var albumsResp struct {
		Album []CatalogAlbum `json:"album"`
	}
	var artistResp struct {
		Artists []CatalogArtist `json:"artists"`
	}

	query := url.Values{"s": {name}}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.getJSON(gctx, "searchalbum", "searchalbum.php", query, &albumsResp)
	})
	g.Go(func() error {
		return s.getJSON(gctx, "search", "search.php", query, &artistResp)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(albumsResp.Album) == 0 {
		return nil, ErrArtistNotFound
	}

	albums := albumsResp.Album
	sort.SliceStable(albums, func(i, j int) bool {
		return yearOrZero(albums[i]) > yearOrZero(albums[j])
	})

	result := &ArtistSearchResult{ArtistName: name, Albums: albums}
	if len(artistResp.Artists) > 0 {
		result.Artist = &artistResp.Artists[0]
	}

	s.logger.Debug("Artist search",
		zap.String("artist", name),
		zap.Int("albums", len(albums)),
	)
	return result, nil
}

func (s *audioDBService) GetAlbumDetails(ctx context.Context, albumID int64) (*CatalogAlbum, error) {
	var resp struct {
		Album []CatalogAlbum `json:"album"`
	}
	query := url.Values{"m": {strconv.FormatInt(albumID, 10)}}
	if err := s.getJSON(ctx, "album", "album.php", query, &resp); err != nil {
		return nil, err
	}
	if len(resp.Album) == 0 {
		return nil, ErrAlbumNotFound
	}
	return &resp.Album[0], nil
}

func (s *audioDBService) GetAlbumTracks(ctx context.Context, albumID int64) ([]CatalogTrack, error) {
	var resp struct {
		Track []CatalogTrack `json:"track"`
	}
	query := url.Values{"m": {strconv.FormatInt(albumID, 10)}}
	if err := s.getJSON(ctx, "track", "track.php", query, &resp); err != nil {
		return nil, err
	}
	if resp.Track == nil {
		return []CatalogTrack{}, nil
	}
	return resp.Track, nil
}

func (s *audioDBService) getJSON(ctx context.Context, endpoint, path string, query url.Values, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			s.logger.Warn("Catalog request failed",
				zap.String("endpoint", endpoint),
				zap.Error(err),
			)
		}
		s.metrics.CatalogRequests.WithLabelValues(endpoint, outcome).Inc()
		s.metrics.CatalogDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, endpoint, err)
	}

	fullURL := fmt.Sprintf("%s/%s/%s?%s", s.baseURL, s.apiKey, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, endpoint, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: status %d: %s", ErrUpstreamUnavailable, endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: decode: %v", ErrUpstreamUnavailable, endpoint, err)
	}
	return nil
}

func yearOrZero(a CatalogAlbum) int {
	if y := a.Year(); y != nil {
		return *y
	}
	return 0
}
