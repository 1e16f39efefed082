package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nelliei/albumsearcher-db/internal/database"
	"github.com/nelliei/albumsearcher-db/internal/metrics"
	"github.com/nelliei/albumsearcher-db/internal/models"
	"github.com/nelliei/albumsearcher-db/internal/repository"
)

type stubCatalog struct {
	albums       map[int64]CatalogAlbum
	detailsCalls int
	err          error
}

func (c *stubCatalog) SearchAlbumsAndArtist(ctx context.Context, artistName string) (*ArtistSearchResult, error) {
	return nil, ErrArtistNotFound
}

func (c *stubCatalog) GetAlbumDetails(ctx context.Context, albumID int64) (*CatalogAlbum, error) {
	c.detailsCalls++
	if c.err != nil {
		return nil, c.err
	}
	album, ok := c.albums[albumID]
	if !ok {
		return nil, ErrAlbumNotFound
	}
	return &album, nil
}

func (c *stubCatalog) GetAlbumTracks(ctx context.Context, albumID int64) ([]CatalogTrack, error) {
	return []CatalogTrack{}, nil
}

type failingLikes struct {
	repository.LikeRepository
}

func (f failingLikes) WithTx(tx *gorm.DB) repository.LikeRepository { return f }

func (f failingLikes) AddLike(userID uint, albumID int64) error {
	return errors.New("insert failed")
}

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), logger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestLikeService(t *testing.T) {
	setup := func(t *testing.T) (*gorm.DB, *stubCatalog, repository.AlbumRepository, repository.LikeRepository, *models.User) {
		db := newServiceDB(t)
		user := &models.User{Username: "alice", Password: "x", Age: 30, Country: "US"}
		require.NoError(t, db.Create(user).Error)
		catalog := &stubCatalog{albums: map[int64]CatalogAlbum{
			112079: {ID: "112079", Name: "Thriller", Artist: "Michael Jackson", YearReleased: "1982", Score: "5"},
		}}
		return db, catalog, repository.NewAlbumRepository(db), repository.NewLikeRepository(db), user
	}

	t.Run("like caches the album and records one like", func(t *testing.T) {
		db, catalog, albums, likes, user := setup(t)
		svc := NewLikeService(db, albums, likes, catalog, metrics.New(), zap.NewNop())

		require.NoError(t, svc.Like(context.Background(), user.UserID, 112079))

		catalog.albums[112079] = CatalogAlbum{ID: "112079", Name: "Thriller 25", Artist: "Michael Jackson"}
		require.NoError(t, svc.Like(context.Background(), user.UserID, 112079))
		assert.Equal(t, 2, catalog.detailsCalls, "metadata is refreshed on every like")

		album, err := albums.GetAlbumByAlbumID(112079)
		require.NoError(t, err)
		require.NotNil(t, album)
		assert.Equal(t, "Thriller 25", album.AlbumName)

		count, err := likes.LikesForAlbum(112079)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("unknown album is not liked", func(t *testing.T) {
		db, catalog, albums, likes, user := setup(t)
		svc := NewLikeService(db, albums, likes, catalog, metrics.New(), zap.NewNop())

		err := svc.Like(context.Background(), user.UserID, 1)
		assert.ErrorIs(t, err, ErrAlbumNotFound)

		count, err := likes.LikesForAlbum(1)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("upstream failure propagates", func(t *testing.T) {
		db, catalog, albums, likes, user := setup(t)
		catalog.err = fmt.Errorf("%w: timeout", ErrUpstreamUnavailable)
		svc := NewLikeService(db, albums, likes, catalog, metrics.New(), zap.NewNop())

		err := svc.Like(context.Background(), user.UserID, 112079)
		assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	})

	t.Run("failed like insert rolls back the album upsert", func(t *testing.T) {
		db, catalog, albums, likes, user := setup(t)
		svc := NewLikeService(db, albums, failingLikes{likes}, catalog, metrics.New(), zap.NewNop())

		err := svc.Like(context.Background(), user.UserID, 112079)
		require.Error(t, err)

		album, err := albums.GetAlbumByAlbumID(112079)
		require.NoError(t, err)
		assert.Nil(t, album)
	})

	t.Run("unlike without a prior like", func(t *testing.T) {
		db, catalog, albums, likes, user := setup(t)
		svc := NewLikeService(db, albums, likes, catalog, metrics.New(), zap.NewNop())

		assert.NoError(t, svc.Unlike(user.UserID, 112079))

		require.NoError(t, svc.Like(context.Background(), user.UserID, 112079))
		require.NoError(t, svc.Unlike(user.UserID, 112079))
		like, err := likes.GetLike(user.UserID, 112079)
		require.NoError(t, err)
		assert.Nil(t, like)
	})
}
