package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelliei/albumsearcher-db/internal/models"
)

func TestUserRepository(t *testing.T) {
	t.Run("adds a user with a hashed password", func(t *testing.T) {
		repo := NewUserRepository(newTestDB(t))

		user, err := repo.AddUser("alice", "pw", 30, "US")
		require.NoError(t, err)
		assert.NotZero(t, user.UserID)
		assert.NotEqual(t, "pw", user.Password)
		assert.NoError(t, repo.VerifyPassword(user.Password, "pw"))
		assert.Error(t, repo.VerifyPassword(user.Password, "wrong"))

		found, err := repo.GetUserByUsername("alice")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.UserID, found.UserID)
		assert.Equal(t, 30, found.Age)
		assert.Equal(t, "US", found.Country)
	})

	t.Run("rejects a duplicate username", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewUserRepository(db)

		_, err := repo.AddUser("alice", "pw", 30, "US")
		require.NoError(t, err)
		_, err = repo.AddUser("alice", "other", 40, "FR")
		assert.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("lookups of missing users return nil", func(t *testing.T) {
		repo := NewUserRepository(newTestDB(t))

		user, err := repo.GetUserByUsername("nobody")
		assert.NoError(t, err)
		assert.Nil(t, user)

		user, err = repo.GetUserByID(42)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("update overwrites every field", func(t *testing.T) {
		repo := NewUserRepository(newTestDB(t))

		user, err := repo.AddUser("alice", "pw", 30, "US")
		require.NoError(t, err)

		updated, err := repo.UpdateUser(user.UserID, "alicia", "newpw", 31, "IL")
		require.NoError(t, err)
		assert.Equal(t, user.UserID, updated.UserID)

		found, err := repo.GetUserByID(user.UserID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "alicia", found.Username)
		assert.Equal(t, 31, found.Age)
		assert.Equal(t, "IL", found.Country)
		assert.NoError(t, repo.VerifyPassword(found.Password, "newpw"))

		old, err := repo.GetUserByUsername("alice")
		require.NoError(t, err)
		assert.Nil(t, old)
	})

	t.Run("update of a missing user", func(t *testing.T) {
		repo := NewUserRepository(newTestDB(t))

		_, err := repo.UpdateUser(7, "ghost", "pw", 1, "US")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
