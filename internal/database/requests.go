package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const requestColumns = `id, description, requestor_id, created`

func scanRequest(row interface{ Scan(dest ...any) error }) (*models.ItemRequest, error) {
	var request models.ItemRequest
	err := row.Scan(&request.ID, &request.Description, &request.RequestorID, &request.Created)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	query := `INSERT INTO requests (description, requestor_id, created) VALUES (?, ?, ?)`
	result, err := db.ExecContext(ctx, query, request.Description, request.RequestorID, request.Created)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	request.ID = id
	return nil
}

func (db *DB) UpdateRequest(ctx context.Context, request *models.ItemRequest) error {
	query := `UPDATE requests SET description = ? WHERE id = ?`
	_, err := db.ExecContext(ctx, query, request.Description, request.ID)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	return nil
}

func (db *DB) DeleteRequest(ctx context.Context, id int64) error {
	query := `DELETE FROM requests WHERE id = ?`
	_, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	return nil
}

func (db *DB) GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = ?`

	request, err := scanRequest(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.E(domain.KindNotFound, "request %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return request, nil
}

func (db *DB) RequestExists(ctx context.Context, id int64) (bool, error) {
	return db.existsQuery(ctx, `SELECT COUNT(*) FROM requests WHERE id = ?`, id)
}

func (db *DB) GetUserRequests(ctx context.Context, requestorID int64) ([]models.ItemRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE requestor_id = ? ORDER BY created DESC`
	return db.queryRequests(ctx, query, requestorID)
}

func (db *DB) GetOtherUsersRequests(ctx context.Context, requestorID int64, from, size int) ([]models.ItemRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE requestor_id != ?
        ORDER BY created DESC LIMIT ? OFFSET ?`
	return db.queryRequests(ctx, query, requestorID, size, from)
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...any) ([]models.ItemRequest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []models.ItemRequest
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, *request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requests: %w", err)
	}
	return requests, nil
}
