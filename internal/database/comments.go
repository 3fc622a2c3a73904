package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const commentColumns = `id, text, item_id, author_id, created`

func scanComment(row interface{ Scan(dest ...any) error }) (*models.Comment, error) {
	var comment models.Comment
	err := row.Scan(&comment.ID, &comment.Text, &comment.ItemID, &comment.AuthorID, &comment.Created)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query, comment.Text, comment.ItemID, comment.AuthorID, comment.Created)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	return nil
}

func (db *DB) UpdateComment(ctx context.Context, comment *models.Comment) error {
	query := `UPDATE comments SET text = ? WHERE id = ?`
	_, err := db.ExecContext(ctx, query, comment.Text, comment.ID)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

func (db *DB) DeleteComment(ctx context.Context, id int64) error {
	query := `DELETE FROM comments WHERE id = ?`
	_, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (db *DB) GetCommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = ?`

	comment, err := scanComment(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.E(domain.KindNotFound, "comment %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

func (db *DB) GetCommentsForItems(ctx context.Context, itemIDs []int64) ([]models.Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	placeholders, args := inPlaceholders(itemIDs)
	query := `SELECT ` + commentColumns + ` FROM comments WHERE item_id IN (` + placeholders + `)
        ORDER BY created`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return comments, nil
}
