package repository

import (
	"context"
	"time"
)

// CacheRepository stores short-lived string values. A miss is reported with
// ok == false and a nil error.
type CacheRepository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
