package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const itemColumns = `id, name, description, available, owner_id, request_id`

func scanItem(row interface{ Scan(dest ...any) error }) (*models.Item, error) {
	var item models.Item
	var requestID sql.NullInt64
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Available, &item.OwnerID, &requestID)
	if err != nil {
		return nil, err
	}
	if requestID.Valid {
		item.RequestID = &requestID.Int64
	}
	return &item, nil
}

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := `INSERT INTO items (name, description, available, owner_id, request_id) VALUES (?, ?, ?, ?, ?)`

	var requestID sql.NullInt64
	if item.RequestID != nil {
		requestID = sql.NullInt64{Int64: *item.RequestID, Valid: true}
	}

	result, err := db.ExecContext(ctx, query, item.Name, item.Description, item.Available, item.OwnerID, requestID)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	return nil
}

func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	query := `UPDATE items SET name = ?, description = ?, available = ? WHERE id = ?`
	_, err := db.ExecContext(ctx, query, item.Name, item.Description, item.Available, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

func (db *DB) DeleteItem(ctx context.Context, id int64) error {
	query := `DELETE FROM items WHERE id = ?`
	_, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (db *DB) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`

	item, err := scanItem(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.E(domain.KindNotFound, "item %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (db *DB) ItemExists(ctx context.Context, id int64) (bool, error) {
	return db.existsQuery(ctx, `SELECT COUNT(*) FROM items WHERE id = ?`, id)
}

func (db *DB) GetUserItems(ctx context.Context, ownerID int64, from, size int) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = ? ORDER BY id LIMIT ? OFFSET ?`
	return db.queryItems(ctx, query, ownerID, size, from)
}

func (db *DB) GetOwnerItemIDs(ctx context.Context, ownerID int64) ([]int64, error) {
	query := `SELECT id FROM items WHERE owner_id = ? ORDER BY id`

	rows, err := db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner item ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan item id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item ids: %w", err)
	}
	return ids, nil
}

// SearchItems matches a case-insensitive substring on name or description.
// Only available items are returned.
func (db *DB) SearchItems(ctx context.Context, text string, from, size int) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
        WHERE available = 1
        AND (LOWER(name) LIKE '%' || LOWER(?) || '%' OR LOWER(description) LIKE '%' || LOWER(?) || '%')
        ORDER BY id LIMIT ? OFFSET ?`
	return db.queryItems(ctx, query, text, text, size, from)
}

func (db *DB) GetItemsByRequestID(ctx context.Context, requestID int64) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE request_id = ? ORDER BY id`
	return db.queryItems(ctx, query, requestID)
}

func (db *DB) queryItems(ctx context.Context, query string, args ...any) ([]models.Item, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}
