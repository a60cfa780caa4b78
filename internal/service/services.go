package service

import (
	"context"
	"errors"

	"github.com/page-comments-api/internal/config"
	"github.com/page-comments-api/internal/models"
	"github.com/page-comments-api/internal/repository"
	"github.com/rs/zerolog"
)

// Service-level error taxonomy. Handlers map these to HTTP statuses;
// everything else is a storage failure and becomes a generic 500.
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrWrongSecret     = errors.New("current secret does not match")
	ErrSecretTooShort  = errors.New("new secret must be at least 8 characters")
)

// CommentService defines the interface for comment operations
type CommentService interface {
	Create(ctx context.Context, sub *models.CommentSubmission) (*models.Comment, error)
	ListByPage(ctx context.Context, pageURL string) ([]*models.Comment, error)
	ListAll(ctx context.Context) ([]*models.Comment, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// SecretService defines the interface for admin-secret resolution and
// rotation. All components must go through Resolve/Update; nothing caches
// the secret, so a rotation takes effect on the next request.
type SecretService interface {
	Resolve(ctx context.Context) string
	IsAuthorized(ctx context.Context, supplied string) bool
	Update(ctx context.Context, currentSecret, newSecret string) error
}

// Services holds all service interfaces
type Services struct {
	Comment CommentService
	Secret  SecretService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Comment: newCommentService(repos.Comment, log),
		Secret:  newSecretService(repos.Secret, cfg.Admin.FallbackSecret, log),
	}
}
