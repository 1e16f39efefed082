package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nelliei/albumsearcher-db/internal/middleware"
	"github.com/nelliei/albumsearcher-db/internal/repository"
	"github.com/nelliei/albumsearcher-db/internal/services"
)

type AlbumHandler struct {
	albumRepo   repository.AlbumRepository
	likeRepo    repository.LikeRepository
	likeService services.LikeService
	catalog     services.CatalogService
	logger      *zap.Logger
}

func NewAlbumHandler(
	albumRepo repository.AlbumRepository,
	likeRepo repository.LikeRepository,
	likeService services.LikeService,
	catalog services.CatalogService,
	log *zap.Logger,
) *AlbumHandler {
	return &AlbumHandler{
		albumRepo:   albumRepo,
		likeRepo:    likeRepo,
		likeService: likeService,
		catalog:     catalog,
		logger:      log,
	}
}

// Index is the home page leaderboard.
func (h *AlbumHandler) Index(c *gin.Context) {
	top, err := h.albumRepo.TopLikedAlbums()
	if err != nil {
		h.logger.Error("Failed to load top albums", zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Failed to load top albums")
		return
	}

	render(c, http.StatusOK, "index.html", gin.H{
		"Title":          "Top albums",
		"IsValidArtist":  flag(c, "valid_artist", true),
		"TopRatedAlbums": top,
	})
}

func (h *AlbumHandler) SearchAlbums(c *gin.Context) {
	result, err := h.catalog.SearchAlbumsAndArtist(c.Request.Context(), c.Query("artist"))
	if err != nil {
		if errors.Is(err, services.ErrArtistNotFound) {
			c.Redirect(http.StatusFound, "/?valid_artist=false")
			return
		}
		h.catalogError(c, err)
		return
	}

	render(c, http.StatusOK, "results.html", gin.H{
		"Title":      result.ArtistName,
		"ArtistName": result.ArtistName,
		"Albums":     result.Albums,
		"Artist":     result.Artist,
	})
}

func (h *AlbumHandler) GetAlbum(c *gin.Context) {
	albumID, err := parseAlbumID(c.Param("album_id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	ctx := c.Request.Context()

	album, err := h.catalog.GetAlbumDetails(ctx, albumID)
	if err != nil {
		if errors.Is(err, services.ErrAlbumNotFound) {
			c.Redirect(http.StatusFound, "/")
			return
		}
		h.catalogError(c, err)
		return
	}

	tracks, err := h.catalog.GetAlbumTracks(ctx, albumID)
	if err != nil {
		h.catalogError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	like, err := h.likeRepo.GetLike(user.UserID, albumID)
	if err != nil {
		h.logger.Error("Failed to load like", zap.Int64("album_id", albumID), zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Failed to load album")
		return
	}
	totalLikes, err := h.likeRepo.LikesForAlbum(albumID)
	if err != nil {
		h.logger.Error("Failed to count likes", zap.Int64("album_id", albumID), zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Failed to load album")
		return
	}

	render(c, http.StatusOK, "album.html", gin.H{
		"Title":      string(album.Name),
		"AlbumID":    albumID,
		"Album":      album,
		"Tracks":     tracks,
		"Liked":      like != nil,
		"LikeFlag":   c.Query("like"),
		"TotalLikes": totalLikes,
	})
}

func (h *AlbumHandler) Like(c *gin.Context) {
	albumID, err := parseAlbumID(c.PostForm("idalbum"))
	if err != nil {
		renderError(c, http.StatusBadRequest, "Invalid album id")
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.likeService.Like(c.Request.Context(), user.UserID, albumID); err != nil {
		if errors.Is(err, services.ErrAlbumNotFound) {
			c.Redirect(http.StatusFound, "/")
			return
		}
		h.catalogError(c, err)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/albums/%d?like=true", albumID))
}

func (h *AlbumHandler) Unlike(c *gin.Context) {
	albumID, err := parseAlbumID(c.PostForm("idalbum"))
	if err != nil {
		renderError(c, http.StatusBadRequest, "Invalid album id")
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.likeService.Unlike(user.UserID, albumID); err != nil {
		h.logger.Error("Failed to unlike", zap.Int64("album_id", albumID), zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Failed to unlike album")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/albums/%d?like=false", albumID))
}

func (h *AlbumHandler) Favorites(c *gin.Context) {
	user := middleware.CurrentUser(c)
	favorites, err := h.likeRepo.LikedAlbumsByUser(user.UserID)
	if err != nil {
		h.logger.Error("Failed to load favorites", zap.Uint("user_id", user.UserID), zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Failed to load favorites")
		return
	}

	render(c, http.StatusOK, "favorites.html", gin.H{
		"Title":     "Favorites",
		"Favorites": favorites,
	})
}

// catalogError renders 502 for catalog outages and 500 for everything else.
func (h *AlbumHandler) catalogError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrUpstreamUnavailable) {
		h.logger.Warn("Album catalog unavailable", zap.String("path", c.Request.URL.Path), zap.Error(err))
		renderError(c, http.StatusBadGateway, "The album catalog is unavailable right now, please try again later.")
		return
	}
	h.logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	renderError(c, http.StatusInternalServerError, "Something went wrong")
}

func parseAlbumID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid album id %q", raw)
	}
	return id, nil
}
