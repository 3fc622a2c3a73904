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

func TestBookings_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Now().Add(time.Hour).Truncate(time.Second)
	end := start.Add(time.Hour)
	booking := createTestBooking(t, db, item.ID, booker.ID, start, end, models.StatusWaiting)
	require.NotZero(t, booking.ID)

	got, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, got.Status)
	assert.Equal(t, item.ID, got.ItemID)
	assert.True(t, got.Start.Equal(start))

	_, err = db.GetBooking(ctx, booking.ID+100)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestBookings_DecideBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Now().Add(time.Hour)
	booking := createTestBooking(t, db, item.ID, booker.ID, start, start.Add(time.Hour), models.StatusWaiting)

	t.Run("ApproveWaiting", func(t *testing.T) {
		require.NoError(t, db.DecideBooking(ctx, booking.ID, models.StatusApproved))

		got, err := db.GetBooking(ctx, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, got.Status)
	})

	t.Run("SecondDecisionFails", func(t *testing.T) {
		err := db.DecideBooking(ctx, booking.ID, models.StatusRejected)
		assert.Equal(t, domain.KindAlreadyDecided, domain.KindOf(err))

		got, err := db.GetBooking(ctx, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, got.Status)
	})

	t.Run("UnknownBooking", func(t *testing.T) {
		err := db.DecideBooking(ctx, booking.ID+100, models.StatusApproved)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}

func TestBookings_StateFilters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	now := time.Now().Truncate(time.Second)
	past := createTestBooking(t, db, item.ID, booker.ID, now.Add(-3*time.Hour), now.Add(-2*time.Hour), models.StatusApproved)
	current := createTestBooking(t, db, item.ID, booker.ID, now.Add(-time.Hour), now.Add(time.Hour), models.StatusApproved)
	future := createTestBooking(t, db, item.ID, booker.ID, now.Add(2*time.Hour), now.Add(3*time.Hour), models.StatusWaiting)
	rejected := createTestBooking(t, db, item.ID, booker.ID, now.Add(4*time.Hour), now.Add(5*time.Hour), models.StatusRejected)

	cases := []struct {
		state string
		ids   []int64
	}{
		{models.StateAll, []int64{rejected.ID, future.ID, current.ID, past.ID}},
		{models.StateCurrent, []int64{current.ID}},
		{models.StatePast, []int64{past.ID}},
		{models.StateFuture, []int64{rejected.ID, future.ID}},
		{models.StateWaiting, []int64{future.ID}},
		{models.StateRejected, []int64{rejected.ID}},
	}

	for _, tc := range cases {
		t.Run(tc.state, func(t *testing.T) {
			bookings, err := db.GetUserBookings(ctx, booker.ID, tc.state, now, 0, 10)
			require.NoError(t, err)

			ids := make([]int64, 0, len(bookings))
			for _, b := range bookings {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tc.ids, ids)
		})
	}
}

func TestBookings_OwnerListing(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	other := createTestUser(t, db, "Other", "other@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")

	drill := createTestItem(t, db, owner.ID, "Drill", true)
	saw := createTestItem(t, db, owner.ID, "Saw", true)
	foreign := createTestItem(t, db, other.ID, "Ladder", true)

	now := time.Now().Truncate(time.Second)
	onDrill := createTestBooking(t, db, drill.ID, booker.ID, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusRejected)
	createTestBooking(t, db, saw.ID, booker.ID, now.Add(3*time.Hour), now.Add(4*time.Hour), models.StatusWaiting)
	createTestBooking(t, db, foreign.ID, booker.ID, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusRejected)

	t.Run("FiltersByItemSetAndState", func(t *testing.T) {
		bookings, err := db.GetOwnerBookings(ctx, []int64{drill.ID, saw.ID}, models.StateRejected, now, 0, 10)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, onDrill.ID, bookings[0].ID)
	})

	t.Run("NoItemsMeansNoBookings", func(t *testing.T) {
		bookings, err := db.GetOwnerBookings(ctx, nil, models.StateAll, now, 0, 10)
		require.NoError(t, err)
		assert.Empty(t, bookings)
	})
}

func TestBookings_CountElapsedBookings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	now := time.Now().Truncate(time.Second)

	count, err := db.CountElapsedBookings(ctx, item.ID, booker.ID, now)
	require.NoError(t, err)
	assert.Zero(t, count)

	createTestBooking(t, db, item.ID, booker.ID, now.Add(-2*time.Hour), now.Add(-time.Hour), models.StatusApproved)
	createTestBooking(t, db, item.ID, booker.ID, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusApproved)

	count, err = db.CountElapsedBookings(ctx, item.ID, booker.ID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestBookings_GetApprovedBookingsForItems(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	now := time.Now().Truncate(time.Second)
	approved := createTestBooking(t, db, item.ID, booker.ID, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusApproved)
	createTestBooking(t, db, item.ID, booker.ID, now.Add(3*time.Hour), now.Add(4*time.Hour), models.StatusWaiting)

	bookings, err := db.GetApprovedBookingsForItems(ctx, []int64{item.ID})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, approved.ID, bookings[0].ID)
}
