package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelliei/albumsearcher-db/internal/models"
)

func TestLikeRepository_AddLike(t *testing.T) {
	db := newTestDB(t)
	repo := NewLikeRepository(db)
	user := seedUser(t, db, "alice")
	seedAlbum(t, db, 112079, "Thriller")

	require.NoError(t, repo.AddLike(user.UserID, 112079))
	require.NoError(t, repo.AddLike(user.UserID, 112079))

	count, err := repo.LikesForAlbum(112079)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	like, err := repo.GetLike(user.UserID, 112079)
	require.NoError(t, err)
	require.NotNil(t, like)
	assert.False(t, like.LikeTime.IsZero())

	missing, err := repo.GetLike(user.UserID, 1)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLikeRepository_DeleteLike(t *testing.T) {
	db := newTestDB(t)
	repo := NewLikeRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedAlbum(t, db, 1, "one")
	require.NoError(t, repo.AddLike(bob.UserID, 1))

	t.Run("deleting a like that never existed is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.DeleteLike(alice.UserID, 1))

		var count int64
		require.NoError(t, db.Model(&models.Like{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("deletes only the given pair", func(t *testing.T) {
		require.NoError(t, repo.AddLike(alice.UserID, 1))
		require.NoError(t, repo.DeleteLike(alice.UserID, 1))

		like, err := repo.GetLike(alice.UserID, 1)
		require.NoError(t, err)
		assert.Nil(t, like)

		count, err := repo.LikesForAlbum(1)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})
}

func TestLikeRepository_LikedAlbumsByUser(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	other := seedUser(t, db, "bob")
	seedAlbum(t, db, 1, "A")
	seedAlbum(t, db, 2, "B")
	seedAlbum(t, db, 3, "C")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	repo := &likeRepo{db: db, now: func() time.Time { return clock }}

	for i, albumID := range []int64{1, 2, 3} {
		clock = base.Add(time.Duration(i+1) * time.Second)
		require.NoError(t, repo.AddLike(user.UserID, albumID))
	}
	require.NoError(t, repo.AddLike(other.UserID, 1))

	albums, err := repo.LikedAlbumsByUser(user.UserID)
	require.NoError(t, err)

	names := make([]string, len(albums))
	for i, a := range albums {
		names[i] = a.AlbumName
	}
	assert.Equal(t, []string{"C", "B", "A"}, names)

	none, err := repo.LikedAlbumsByUser(999)
	require.NoError(t, err)
	assert.Empty(t, none)
}
