package models

import (
	"time"
)

// Comment statuses. Every comment is created as approved today; the field
// exists so a moderation queue can be added without a schema change.
const (
	StatusApproved = "approved"
)

// Field length limits, measured on trimmed, unescaped input
const (
	MaxAuthorNameLen     = 100
	MaxCommentContentLen = 1000
)

// Comment represents a single remark attached to a page URL
type Comment struct {
	ID             int64     `json:"id" db:"id"`
	PageURL        string    `json:"page_url" db:"page_url"`
	AuthorName     string    `json:"author_name" db:"author_name"`
	CommentContent string    `json:"comment_content" db:"comment_content"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// PublicComment is the reader-facing view of a Comment, without the
// moderation-only status field
type PublicComment struct {
	ID             int64     `json:"id"`
	PageURL        string    `json:"page_url"`
	AuthorName     string    `json:"author_name"`
	CommentContent string    `json:"comment_content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Public converts a Comment to its reader-facing view
func (c *Comment) Public() *PublicComment {
	return &PublicComment{
		ID:             c.ID,
		PageURL:        c.PageURL,
		AuthorName:     c.AuthorName,
		CommentContent: c.CommentContent,
		CreatedAt:      c.CreatedAt,
	}
}

// CommentSubmission is the request body for POST /api/comments
type CommentSubmission struct {
	PageURL        string `json:"page_url"`
	AuthorName     string `json:"author_name"`
	CommentContent string `json:"comment_content"`
}
