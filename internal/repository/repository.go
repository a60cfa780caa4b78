package repository

import (
	"context"

	"github.com/page-comments-api/internal/database"
	"github.com/page-comments-api/internal/models"
	"github.com/redis/go-redis/v9"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, pageURL, authorName, content string) (*models.Comment, error)
	ListByPage(ctx context.Context, pageURL string) ([]*models.Comment, error)
	ListAll(ctx context.Context) ([]*models.Comment, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// SecretRepository defines the interface for the durable admin-secret store.
// The store holds a single well-known key; Get reporting found=false means
// no secret has been stored yet.
type SecretRepository interface {
	Get(ctx context.Context) (value string, found bool, err error)
	Set(ctx context.Context, value string) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Comment CommentRepository
	Secret  SecretRepository
}

// New creates all repositories with the given backing stores
func New(db *database.DB, rdb *redis.Client) *Repositories {
	return &Repositories{
		Comment: NewCommentRepo(db),
		Secret:  NewSecretRepo(rdb),
	}
}
