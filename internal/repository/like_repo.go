package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nelliei/albumsearcher-db/internal/models"
)

type LikeRepository interface {
	WithTx(tx *gorm.DB) LikeRepository
	AddLike(userID uint, albumID int64) error
	GetLike(userID uint, albumID int64) (*models.Like, error)
	DeleteLike(userID uint, albumID int64) error
	LikesForAlbum(albumID int64) (int64, error)
	LikedAlbumsByUser(userID uint) ([]models.Album, error)
}

type likeRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepo{db: db, now: time.Now}
}

func (r *likeRepo) WithTx(tx *gorm.DB) LikeRepository {
	return &likeRepo{db: tx, now: r.now}
}

// AddLike records that userID likes albumID. Liking an already liked album keeps
// the existing row and its like_time.
func (r *likeRepo) AddLike(userID uint, albumID int64) error {
	like := models.Like{
		UserID:   userID,
		AlbumID:  albumID,
		LikeTime: r.now(),
	}
	return r.db.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error
}

func (r *likeRepo) GetLike(userID uint, albumID int64) (*models.Like, error) {
	var like models.Like
	err := r.db.Where("user_id = ? AND album_id = ?", userID, albumID).First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &like, nil
}

// DeleteLike removes the like if present; deleting a missing like is a no-op.
func (r *likeRepo) DeleteLike(userID uint, albumID int64) error {
	return r.db.Where("user_id = ? AND album_id = ?", userID, albumID).
		Delete(&models.Like{}).Error
}

func (r *likeRepo) LikesForAlbum(albumID int64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("album_id = ?", albumID).
		Count(&count).Error
	return count, err
}

// LikedAlbumsByUser lists the albums userID likes, most recently liked first.
func (r *likeRepo) LikedAlbumsByUser(userID uint) ([]models.Album, error) {
	var albums []models.Album
	err := r.db.Model(&models.Album{}).
		Joins("JOIN likes ON likes.album_id = albums.album_id").
		Where("likes.user_id = ?", userID).
		Order("likes.like_time DESC").
		Find(&albums).Error
	if err != nil {
		return nil, err
	}
	if albums == nil {
		albums = []models.Album{}
	}
	return albums, nil
}
