package ratelimiter

import (
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// GetterSetter is the bucket store. The in-memory implementation is the
// default; a shared cache can be plugged in when the API runs behind a
// load balancer.
type GetterSetter interface {
	Get(key string) (int, error)
	Set(key string, value int) error
	SetWithExpiration(key string, value int, expiration time.Duration) error
	Close() error
}
