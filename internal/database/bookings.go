package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const bookingColumns = `id, item_id, booker_id, start_time, end_time, status`

func scanBooking(row interface{ Scan(dest ...any) error }) (*models.Booking, error) {
	var booking models.Booking
	err := row.Scan(&booking.ID, &booking.ItemID, &booking.BookerID, &booking.Start, &booking.End, &booking.Status)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO booking (item_id, booker_id, start_time, end_time, status) VALUES (?, ?, ?, ?, ?)`

	result, err := db.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		booking.Start,
		booking.End,
		booking.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM booking WHERE id = ?`

	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.E(domain.KindNotFound, "booking %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (db *DB) BookingExists(ctx context.Context, id int64) (bool, error) {
	return db.existsQuery(ctx, `SELECT COUNT(*) FROM booking WHERE id = ?`, id)
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE booking SET status = ? WHERE id = ?`
	_, err := db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return nil
}

// DecideBooking sets the final status for a WAITING booking. The read and the
// write run in one transaction; a booking that is already APPROVED rejects
// any further decision.
func (db *DB) DecideBooking(ctx context.Context, id int64, status string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM booking WHERE id = ?`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.E(domain.KindNotFound, "booking %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("failed to read booking status: %w", err)
	}

	if current == models.StatusApproved {
		return domain.E(domain.KindAlreadyDecided, "decision for booking %d is already made", id)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE booking SET status = ? WHERE id = ?`, status, id); err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	query := `DELETE FROM booking WHERE id = ?`
	_, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}

// stateClause translates a listing state filter into a WHERE fragment.
func stateClause(state string, now time.Time) (string, []any) {
	switch state {
	case models.StateCurrent:
		return ` AND start_time < ? AND end_time > ?`, []any{now, now}
	case models.StatePast:
		return ` AND end_time <= ?`, []any{now}
	case models.StateFuture:
		return ` AND start_time >= ?`, []any{now}
	case models.StateWaiting:
		return ` AND status = ?`, []any{models.StatusWaiting}
	case models.StateRejected:
		return ` AND status = ?`, []any{models.StatusRejected}
	default:
		return ``, nil
	}
}

func (db *DB) GetUserBookings(ctx context.Context, bookerID int64, state string, now time.Time, from, size int) ([]models.Booking, error) {
	clause, clauseArgs := stateClause(state, now)
	query := `SELECT ` + bookingColumns + ` FROM booking WHERE booker_id = ?` + clause +
		` ORDER BY start_time DESC LIMIT ? OFFSET ?`

	args := append([]any{bookerID}, clauseArgs...)
	args = append(args, size, from)
	return db.queryBookings(ctx, query, args...)
}

func (db *DB) GetOwnerBookings(ctx context.Context, itemIDs []int64, state string, now time.Time, from, size int) ([]models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	placeholders, args := inPlaceholders(itemIDs)
	clause, clauseArgs := stateClause(state, now)
	query := `SELECT ` + bookingColumns + ` FROM booking WHERE item_id IN (` + placeholders + `)` + clause +
		` ORDER BY start_time DESC LIMIT ? OFFSET ?`

	args = append(args, clauseArgs...)
	args = append(args, size, from)
	return db.queryBookings(ctx, query, args...)
}

// CountElapsedBookings counts the user's bookings on the item whose rental
// has started. Gates comment creation.
func (db *DB) CountElapsedBookings(ctx context.Context, itemID, userID int64, now time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM booking WHERE item_id = ? AND booker_id = ? AND start_time <= ?`

	var count int64
	err := db.QueryRowContext(ctx, query, itemID, userID, now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count elapsed bookings: %w", err)
	}
	return count, nil
}

func (db *DB) GetApprovedBookingsForItems(ctx context.Context, itemIDs []int64) ([]models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	placeholders, args := inPlaceholders(itemIDs)
	query := `SELECT ` + bookingColumns + ` FROM booking WHERE item_id IN (` + placeholders + `)
        AND status = ? ORDER BY id`

	args = append(args, models.StatusApproved)
	return db.queryBookings(ctx, query, args...)
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}
