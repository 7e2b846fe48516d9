// Package revocation keeps the ids of session tokens invalidated before
// their expiry. Entries only need to live as long as the token would have.
package revocation

import (
	"context"
	"fmt"
	"time"
)

// Store records revoked token ids.
type Store interface {
	// Revoke marks id as revoked for ttl.
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	// IsRevoked reports whether id is currently revoked.
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// Type names a Store implementation.
type Type string

const (
	TypeMemory Type = "memory"
	TypeRedis  Type = "redis"
)

// RedisOptions configures the redis-backed store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewStore creates the store named by storeType.
func NewStore(ctx context.Context, storeType Type, opts RedisOptions) (Store, error) {
	switch storeType {
	case TypeMemory, "":
		return NewMemoryStore(), nil
	case TypeRedis:
		return NewRedisStore(ctx, opts)
	default:
		return nil, fmt.Errorf("unsupported revocation store type %q", storeType)
	}
}
