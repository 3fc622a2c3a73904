package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/domain"
	"shareit/internal/models"
)

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (name, email) VALUES (?, ?)`
	result, err := db.ExecContext(ctx, query, user.Name, user.Email)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = id
	return nil
}

func (db *DB) UpdateUser(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET name = ?, email = ? WHERE id = ?`
	_, err := db.ExecContext(ctx, query, user.Name, user.Email, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = ?`
	_, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, name, email FROM users WHERE id = ?`

	var user models.User
	err := db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Name, &user.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.E(domain.KindNotFound, "user %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (db *DB) GetAllUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT id, name, email FROM users ORDER BY id`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

func (db *DB) UserExists(ctx context.Context, id int64) (bool, error) {
	return db.existsQuery(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, id)
}

// EmailTaken reports whether another user already registered the email.
// Pass excludeUserID = 0 when creating a new user.
func (db *DB) EmailTaken(ctx context.Context, email string, excludeUserID int64) (bool, error) {
	return db.existsQuery(ctx, `SELECT COUNT(*) FROM users WHERE email = ? AND id != ?`, email, excludeUserID)
}
