package services

import (
	"context"
	"time"
)

// Cache is the JSON cache used for read-heavy aggregates. A nil Cache disables caching.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Locker hands out short-lived distributed locks. A nil Locker skips locking.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (func(), error)
}
