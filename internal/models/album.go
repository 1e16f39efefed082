package models

// Album is the local copy of catalog metadata for albums that have been liked.
// AlbumID is the catalog's identifier, never generated locally.
type Album struct {
	AlbumID   int64    `gorm:"column:album_id;primaryKey;autoIncrement:false" json:"album_id"`
	AlbumName string   `gorm:"not null" json:"album_name"`
	Artist    string   `gorm:"not null" json:"artist"`
	Year      *int     `json:"year"`
	Rate      *float64 `json:"rate"`
	ImagePath *string  `json:"image_path"`
}

func (Album) TableName() string { return "albums" }

// AlbumLikes is one leaderboard row.
type AlbumLikes struct {
	Album     `gorm:"embedded"`
	LikeCount int64 `gorm:"column:like_count" json:"like_count"`
}
