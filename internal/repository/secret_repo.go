package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// secretKey is the single well-known key holding the admin secret
const secretKey = "admin:secret"

// secretRepo is the redis-backed implementation of SecretRepository
type secretRepo struct {
	rdb *redis.Client
}

// NewSecretRepo creates a new secret repository
func NewSecretRepo(rdb *redis.Client) SecretRepository {
	return &secretRepo{rdb: rdb}
}

// Get reads the admin secret. found is false when no secret has been stored.
func (r *secretRepo) Get(ctx context.Context) (string, bool, error) {
	value, err := r.rdb.Get(ctx, secretKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read admin secret: %w", err)
	}
	return value, true, nil
}

// Set overwrites the admin secret. The write is a single key overwrite, so
// concurrent rotations resolve as last write wins.
func (r *secretRepo) Set(ctx context.Context, value string) error {
	if err := r.rdb.Set(ctx, secretKey, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to store admin secret: %w", err)
	}
	return nil
}
