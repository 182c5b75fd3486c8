package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/openmark/goapi/base/ctx"
)

// Forever is passed as expire when the key should not expire
const Forever = time.Duration(-1)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = redis.ErrNil

	// ErrExpireNotExistOrTimeout is returned by Expire when the key does not
	// exist or the timeout could not be set
	ErrExpireNotExistOrTimeout = redis.Error("key not exist or timeout not set")
)

// Service abstracts the redis layer
type Service interface {
	// Get returns the value of key, ErrNotFound if the key does not exist
	Get(context ctx.Ctx, key string) ([]byte, error)

	// Set sets key to val with the given expire
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error

	// SetNX sets key only if it does not exist yet. Returns false without
	// error when the key already exists.
	SetNX(context ctx.Ctx, key string, val []byte, expire time.Duration) (bool, error)

	// Del removes keys, returning the number of keys removed
	Del(context ctx.Ctx, keys ...string) (int, error)

	// Expire resets the ttl of key
	Expire(context ctx.Ctx, key string, ttl time.Duration) error

	// PTTL returns the remaining time to live of key.
	// ErrNotFound if the key does not exist, Forever if it has no expire.
	PTTL(context ctx.Ctx, key string) (time.Duration, error)

	// Incr increments the number stored at key by one, setting it to 0 first
	// when the key does not exist
	Incr(context ctx.Ctx, key string) (int64, error)
}
