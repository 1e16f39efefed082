package models

import (
	"time"
)

// Like joins a user to an album they endorse. (user_id, album_id) is the primary key,
// so a pair can be liked at most once.
type Like struct {
	UserID   uint      `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	AlbumID  int64     `gorm:"column:album_id;primaryKey;autoIncrement:false;index" json:"album_id"`
	LikeTime time.Time `gorm:"not null;index" json:"like_time"`

	// Relationships
	User  User  `gorm:"foreignKey:UserID;references:UserID" json:"-"`
	Album Album `gorm:"foreignKey:AlbumID;references:AlbumID" json:"-"`
}

func (Like) TableName() string { return "likes" }
