// Package tenant stores per-tenant matching configuration overrides.
//
// Overrides live in Redis as raw JSON under a per-org key and are merged onto
// the built-in defaults on read. A missing or malformed override degrades to
// the defaults, never to an error visible to matching.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Angeloac12/siigo-cotizador/internal/logger"
	"github.com/Angeloac12/siigo-cotizador/internal/matcher"
)

// DefaultTTL bounds how long an override lives without being rewritten.
const DefaultTTL = 24 * time.Hour

// Store reads and writes tenant match-config overrides.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// NewStore creates a tenant config store. A zero ttl falls back to
// DefaultTTL.
func NewStore(client *redis.Client, ttl time.Duration, log logger.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{client: client, ttl: ttl, log: log}
}

func key(orgID string) string {
	return fmt.Sprintf("matchcfg:%s", orgID)
}

// Config returns the effective matching configuration for an org: defaults
// merged with the stored override, or plain defaults when none is stored or
// Redis is unreachable.
func (s *Store) Config(ctx context.Context, orgID string) *matcher.Config {
	base := matcher.Default()
	if s.client == nil || orgID == "" {
		return base
	}

	raw, err := s.client.Get(ctx, key(orgID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("tenant config read failed, using defaults",
				logger.String("org_id", orgID),
				logger.Error(err))
		}
		return base
	}
	return base.WithOverride(raw)
}

// SetOverride validates and stores an org's override JSON.
func (s *Store) SetOverride(ctx context.Context, orgID string, raw []byte) error {
	if orgID == "" {
		return errors.New("org id required")
	}
	// Reject payloads the merge would silently ignore.
	merged := matcher.Default().WithOverride(raw)
	if merged.Raw == nil {
		return errors.New("override is not valid JSON")
	}

	if err := s.client.Set(ctx, key(orgID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store tenant config: %w", err)
	}
	return nil
}

// ClearOverride removes an org's override, reverting it to defaults.
func (s *Store) ClearOverride(ctx context.Context, orgID string) error {
	if err := s.client.Del(ctx, key(orgID)).Err(); err != nil {
		return fmt.Errorf("failed to clear tenant config: %w", err)
	}
	return nil
}
