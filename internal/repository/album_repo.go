package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nelliei/albumsearcher-db/internal/models"
)

// TopAlbumsLimit is the leaderboard size shown on the home page.
const TopAlbumsLimit = 11

var ErrMissingAlbumID = errors.New("album id is required")

type AlbumRepository interface {
	WithTx(tx *gorm.DB) AlbumRepository
	GetAlbumByAlbumID(albumID int64) (*models.Album, error)
	UpsertAlbum(album *models.Album) error
	TopLikedAlbums() ([]models.AlbumLikes, error)
}

type albumRepo struct {
	db *gorm.DB
}

func NewAlbumRepository(db *gorm.DB) AlbumRepository {
	return &albumRepo{db: db}
}

func (r *albumRepo) WithTx(tx *gorm.DB) AlbumRepository {
	return &albumRepo{db: tx}
}

func (r *albumRepo) GetAlbumByAlbumID(albumID int64) (*models.Album, error) {
	var album models.Album
	err := r.db.First(&album, "album_id = ?", albumID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &album, nil
}

// UpsertAlbum inserts album or overwrites every mutable column of the existing row
// in a single statement.
func (r *albumRepo) UpsertAlbum(album *models.Album) error {
	if album.AlbumID == 0 {
		return ErrMissingAlbumID
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "album_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"album_name", "artist", "year", "rate", "image_path"}),
	}).Create(album).Error
	if err != nil {
		return fmt.Errorf("upsert album %d: %w", album.AlbumID, err)
	}
	return nil
}

// TopLikedAlbums returns at most TopAlbumsLimit albums with their like counts,
// most liked first. Albums without likes are not listed.
func (r *albumRepo) TopLikedAlbums() ([]models.AlbumLikes, error) {
	var rows []models.AlbumLikes
	err := r.db.Model(&models.Album{}).
		Select("albums.*, COUNT(likes.user_id) AS like_count").
		Joins("JOIN likes ON likes.album_id = albums.album_id").
		Group("albums.album_id").
		Order("like_count DESC").
		Order("albums.album_id ASC").
		Limit(TopAlbumsLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.AlbumLikes{}
	}
	return rows, nil
}
