package database

import (
	"context"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRequest(t *testing.T, db *DB, requestorID int64, description string, created time.Time) *models.ItemRequest {
	request := &models.ItemRequest{Description: description, RequestorID: requestorID, Created: created}
	require.NoError(t, db.CreateRequest(context.Background(), request))
	return request
}

func TestRequests_CRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Bob", "bob@example.com")
	request := createTestRequest(t, db, user.ID, "Need a ladder", time.Now())

	got, err := db.GetRequestByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, "Need a ladder", got.Description)

	got.Description = "Need a tall ladder"
	require.NoError(t, db.UpdateRequest(ctx, got))

	got, err = db.GetRequestByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, "Need a tall ladder", got.Description)

	require.NoError(t, db.DeleteRequest(ctx, request.ID))

	_, err = db.GetRequestByID(ctx, request.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestRequests_Listings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "Alice", "alice@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	now := time.Now().Truncate(time.Second)
	old := createTestRequest(t, db, alice.ID, "Old ask", now.Add(-time.Hour))
	fresh := createTestRequest(t, db, alice.ID, "Fresh ask", now)
	other := createTestRequest(t, db, bob.ID, "Bob's ask", now.Add(-30*time.Minute))

	t.Run("OwnRequestsNewestFirst", func(t *testing.T) {
		requests, err := db.GetUserRequests(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, requests, 2)
		assert.Equal(t, fresh.ID, requests[0].ID)
		assert.Equal(t, old.ID, requests[1].ID)
	})

	t.Run("OtherUsersRequestsExcludeCaller", func(t *testing.T) {
		requests, err := db.GetOtherUsersRequests(ctx, alice.ID, 0, 10)
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, other.ID, requests[0].ID)
	})

	t.Run("Pagination", func(t *testing.T) {
		requests, err := db.GetOtherUsersRequests(ctx, bob.ID, 1, 1)
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, old.ID, requests[0].ID)
	})
}
