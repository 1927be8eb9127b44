package services

import (
	"context"
	"fmt"
	"time"

	"github.com/minisocial/minisocial/pkg/cache"
)

const revokedSessionPrefix = "session:revoked:"

// SessionService tracks session tokens revoked by logout until they would have expired anyway.
type SessionService struct {
	cache *cache.RedisClient
}

func NewSessionService(cache *cache.RedisClient) *SessionService {
	return &SessionService{cache: cache}
}

func (s *SessionService) Revoke(ctx context.Context, tokenID string, remaining time.Duration) error {
	if remaining <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, revokedSessionPrefix+tokenID, "1", remaining); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *SessionService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.cache.Exists(ctx, revokedSessionPrefix+tokenID)
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return n > 0, nil
}
