package service

import (
	"context"

	"github.com/page-comments-api/internal/models"
	"github.com/page-comments-api/internal/repository"
	"github.com/rs/zerolog"
)

// DefaultSecret is the fixed development fallback. It is deliberately not a
// plausible production secret: resolving to it means no secret has been
// configured anywhere, which is what the bootstrap check keys off.
const DefaultSecret = "admin-secret-unset-dev-only"

// secretService is the concrete implementation of SecretService
type secretService struct {
	secrets  repository.SecretRepository
	fallback string
	log      zerolog.Logger
}

// newSecretService creates a new SecretService
func newSecretService(secrets repository.SecretRepository, fallback string, log zerolog.Logger) *secretService {
	return &secretService{
		secrets:  secrets,
		fallback: fallback,
		log:      log.With().Str("service", "secret").Logger(),
	}
}

// Resolve returns the current admin secret using the three-tier chain:
// durable store, then configured fallback, then the development default.
// It never fails; a store error is logged and the chain falls through.
func (s *secretService) Resolve(ctx context.Context) string {
	value, found, err := s.secrets.Get(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read secret from durable store, falling back")
	} else if found {
		return value
	}

	if s.fallback != "" {
		return s.fallback
	}

	return DefaultSecret
}

// IsAuthorized reports whether a supplied secret grants admin access
func (s *secretService) IsAuthorized(ctx context.Context, supplied string) bool {
	return supplied != "" && supplied == s.Resolve(ctx)
}

// Update rotates the admin secret. When a non-default secret is already
// configured the supplied current secret must match it; the bootstrap case
// (nothing configured anywhere) skips that check. The overwrite is a single
// key write, so concurrent rotations resolve as last write wins.
func (s *secretService) Update(ctx context.Context, currentSecret, newSecret string) error {
	if len(newSecret) < models.MinSecretLen {
		return ErrSecretTooShort
	}

	resolved := s.Resolve(ctx)
	if resolved != DefaultSecret && currentSecret != resolved {
		s.log.Warn().Msg("Secret rotation rejected: current secret mismatch")
		return ErrWrongSecret
	}

	if err := s.secrets.Set(ctx, newSecret); err != nil {
		return err
	}

	s.log.Info().Msg("Admin secret updated")
	return nil
}
