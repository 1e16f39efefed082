package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nelliei/albumsearcher-db/internal/metrics"
	"github.com/nelliei/albumsearcher-db/internal/repository"
)

type LikeService interface {
	Like(ctx context.Context, userID uint, albumID int64) error
	Unlike(userID uint, albumID int64) error
}

type likeService struct {
	db        *gorm.DB
	albumRepo repository.AlbumRepository
	likeRepo  repository.LikeRepository
	catalog   CatalogService
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewLikeService(
	db *gorm.DB,
	albumRepo repository.AlbumRepository,
	likeRepo repository.LikeRepository,
	catalog CatalogService,
	m *metrics.Metrics,
	log *zap.Logger,
) LikeService {
	return &likeService{
		db:        db,
		albumRepo: albumRepo,
		likeRepo:  likeRepo,
		catalog:   catalog,
		metrics:   m,
		logger:    log,
	}
}

// Like refreshes the cached album metadata from the catalog, even when the album
// is already known, then records the like. Both writes commit or neither does.
func (s *likeService) Like(ctx context.Context, userID uint, albumID int64) error {
	details, err := s.catalog.GetAlbumDetails(ctx, albumID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.albumRepo.WithTx(tx).UpsertAlbum(details.ToModel(albumID)); err != nil {
			return err
		}
		return s.likeRepo.WithTx(tx).AddLike(userID, albumID)
	})
	if err != nil {
		return fmt.Errorf("like album %d: %w", albumID, err)
	}

	s.metrics.Likes.WithLabelValues("like").Inc()
	s.logger.Info("Album liked", zap.Uint("user_id", userID), zap.Int64("album_id", albumID))
	return nil
}

// Unlike removes the like; unliking an album that is not liked succeeds.
func (s *likeService) Unlike(userID uint, albumID int64) error {
	if err := s.likeRepo.DeleteLike(userID, albumID); err != nil {
		return fmt.Errorf("unlike album %d: %w", albumID, err)
	}

	s.metrics.Likes.WithLabelValues("unlike").Inc()
	s.logger.Info("Album unliked", zap.Uint("user_id", userID), zap.Int64("album_id", albumID))
	return nil
}
