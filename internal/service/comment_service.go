package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/page-comments-api/internal/models"
	"github.com/page-comments-api/internal/repository"
	"github.com/page-comments-api/internal/sanitize"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	comments repository.CommentRepository
	log      zerolog.Logger
}

// newCommentService creates a new CommentService
func newCommentService(comments repository.CommentRepository, log zerolog.Logger) *commentService {
	return &commentService{
		comments: comments,
		log:      log.With().Str("service", "comment").Logger(),
	}
}

// Create sanitizes an already-validated submission and persists it. The
// caller validates first; sanitization happens here so nothing reaches the
// store unescaped.
func (s *commentService) Create(ctx context.Context, sub *models.CommentSubmission) (*models.Comment, error) {
	comment, err := s.comments.Create(ctx,
		sanitize.Clean(sub.PageURL),
		sanitize.Clean(sub.AuthorName),
		sanitize.Clean(sub.CommentContent),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.log.Info().
		Int64("comment_id", comment.ID).
		Str("page_url", comment.PageURL).
		Msg("Comment created")

	return comment, nil
}

// ListByPage returns approved comments for a page in ascending created_at order
func (s *commentService) ListByPage(ctx context.Context, pageURL string) ([]*models.Comment, error) {
	return s.comments.ListByPage(ctx, sanitize.Clean(pageURL))
}

// ListAll returns every comment regardless of status for the moderation view
func (s *commentService) ListAll(ctx context.Context) ([]*models.Comment, error) {
	return s.comments.ListAll(ctx)
}

// Delete hard-deletes a comment. ErrCommentNotFound disambiguates a missing
// row from a storage failure: the existence check runs first, and a delete
// that removed nothing is also reported as not found.
func (s *commentService) Delete(ctx context.Context, id int64) error {
	exists, err := s.comments.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check comment existence: %w", err)
	}
	if !exists {
		return ErrCommentNotFound
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	s.log.Info().Int64("comment_id", id).Msg("Comment deleted")
	return nil
}

// Count returns the total number of comments
func (s *commentService) Count(ctx context.Context) (int, error) {
	return s.comments.Count(ctx)
}
