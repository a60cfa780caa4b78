package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/page-comments-api/internal/database"
	"github.com/page-comments-api/internal/models"
)

// ErrNoRows is returned by Delete when nothing was deleted
var ErrNoRows = sql.ErrNoRows

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create inserts a new comment and returns the full persisted row. The id,
// created_at and status are assigned by the database.
func (r *commentRepo) Create(ctx context.Context, pageURL, authorName, content string) (*models.Comment, error) {
	query := `
		INSERT INTO comments (page_url, author_name, comment_content, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, page_url, author_name, comment_content, status, created_at
	`
	var comment models.Comment
	err := r.db.QueryRowContext(ctx, query, pageURL, authorName, content, models.StatusApproved).Scan(
		&comment.ID, &comment.PageURL, &comment.AuthorName,
		&comment.CommentContent, &comment.Status, &comment.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	return &comment, nil
}

// ListByPage returns approved comments for a page in ascending created_at
// order, ties broken by id
func (r *commentRepo) ListByPage(ctx context.Context, pageURL string) ([]*models.Comment, error) {
	query := `
		SELECT id, page_url, author_name, comment_content, status, created_at
		FROM comments
		WHERE page_url = $1 AND status = $2
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, pageURL, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	return scanComments(rows)
}

// ListAll returns every comment regardless of status, newest first
func (r *commentRepo) ListAll(ctx context.Context) ([]*models.Comment, error) {
	query := `
		SELECT id, page_url, author_name, comment_content, status, created_at
		FROM comments
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	return scanComments(rows)
}

// Exists checks if a comment with the given ID exists
func (r *commentRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

// Delete hard-deletes a comment. ErrNoRows is returned when no row matched,
// so a delete racing another delete still surfaces as not-found.
func (r *commentRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNoRows
	}

	return nil
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments").Scan(&count)
	return count, err
}

func scanComments(rows *sql.Rows) ([]*models.Comment, error) {
	comments := make([]*models.Comment, 0)
	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.ID, &comment.PageURL, &comment.AuthorName,
			&comment.CommentContent, &comment.Status, &comment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &comment)
	}
	return comments, rows.Err()
}
