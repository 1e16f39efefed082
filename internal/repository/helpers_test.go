package repository

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nelliei/albumsearcher-db/internal/database"
	"github.com/nelliei/albumsearcher-db/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
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

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "x", Age: 30, Country: "US"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedAlbum(t *testing.T, db *gorm.DB, albumID int64, name string) *models.Album {
	t.Helper()
	album := &models.Album{AlbumID: albumID, AlbumName: name, Artist: "Artist"}
	require.NoError(t, db.Create(album).Error)
	return album
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func stringPtr(v string) *string  { return &v }
