package database

import (
	"context"
	"testing"

	"shareit/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_CRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Bob", "bob@example.com")
	require.NotZero(t, user.ID)

	got, err := db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)

	got.Name = "Robert"
	require.NoError(t, db.UpdateUser(ctx, got))

	got, err = db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Robert", got.Name)

	users, err := db.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, db.DeleteUser(ctx, user.ID))

	_, err = db.GetUserByID(ctx, user.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestUsers_Exists(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Bob", "bob@example.com")

	exists, err := db.UserExists(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.UserExists(ctx, user.ID+100)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUsers_EmailTaken(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Bob", "bob@example.com")

	taken, err := db.EmailTaken(ctx, "bob@example.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	// The owner of the email is excluded when updating their own profile.
	taken, err = db.EmailTaken(ctx, "bob@example.com", user.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = db.EmailTaken(ctx, "other@example.com", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}
