package ratelimiter

import (
	"math"
	"net/http"
	"sync"
	"time"
)

// Token-bucket limiter in front of the HTTP surface. Room creation is the
// call worth protecting: a client hammering POST /api/rooms would otherwise
// fill the registry with empty sessions.

const (
	tokensKeyPrefix  = "rooms:rl:tokens:"
	refillKeyPrefix  = "rooms:rl:refill:"
	defaultSourceKey = "X-RateLimit-Key"
)

type Limiter interface {
	Allow(sourceKey string) bool
	GetSourceKey(r *http.Request) string
	Remaining(sourceKey string) int
	GetMaxBurst() int
}

type tokenBucketLimiter struct {
	tokensPerMilli  float64
	maxBurst        int
	cache           GetterSetter
	cacheTTL        time.Duration
	sourceHeaderKey string

	// One lock per source so refill+spend stays atomic per client.
	locks sync.Map // map[string]*sync.Mutex
}

func (rl *tokenBucketLimiter) lockFor(sourceKey string) *sync.Mutex {
	lock, _ := rl.locks.LoadOrStore(sourceKey, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

type bucket struct {
	tokens     int
	refilledAt int64 // Unix milliseconds
}

func (rl *tokenBucketLimiter) load(sourceKey string) bucket {
	tokens, tokensErr := rl.cache.Get(tokensKeyPrefix + sourceKey)
	refilledAt, refillErr := rl.cache.Get(refillKeyPrefix + sourceKey)

	// Unknown source, or the cache is unhealthy: fail open with a full
	// bucket rather than locking players out of creating rooms.
	if tokensErr != nil || refillErr != nil {
		return bucket{tokens: rl.maxBurst, refilledAt: time.Now().UnixMilli()}
	}

	return bucket{tokens: tokens, refilledAt: int64(refilledAt)}
}

func (rl *tokenBucketLimiter) store(sourceKey string, b bucket) {
	_ = rl.cache.SetWithExpiration(tokensKeyPrefix+sourceKey, b.tokens, rl.cacheTTL)
	_ = rl.cache.SetWithExpiration(refillKeyPrefix+sourceKey, int(b.refilledAt), rl.cacheTTL)
}

func (rl *tokenBucketLimiter) refill(b bucket, now int64) bucket {
	elapsed := now - b.refilledAt
	if elapsed <= 0 {
		return b
	}

	refilled := float64(b.tokens) + float64(elapsed)*rl.tokensPerMilli
	if refilled > float64(rl.maxBurst) {
		return bucket{tokens: rl.maxBurst, refilledAt: now}
	}

	// Whole tokens only; the fraction is carried by the timestamp reset.
	return bucket{tokens: int(math.Floor(refilled)), refilledAt: now}
}

func (rl *tokenBucketLimiter) Remaining(sourceKey string) int {
	lock := rl.lockFor(sourceKey)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now().UnixMilli()
	b := rl.load(sourceKey)
	refilled := rl.refill(b, now)

	if refilled != b {
		rl.store(sourceKey, refilled)
	}

	return refilled.tokens
}

func (rl *tokenBucketLimiter) GetMaxBurst() int {
	return rl.maxBurst
}

func (rl *tokenBucketLimiter) Allow(sourceKey string) bool {
	lock := rl.lockFor(sourceKey)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now().UnixMilli()
	b := rl.load(sourceKey)
	refilled := rl.refill(b, now)

	if refilled.tokens > 0 {
		refilled.tokens--
		rl.store(sourceKey, refilled)
		return true
	}

	if refilled != b {
		rl.store(sourceKey, refilled)
	}

	return false
}

// GetSourceKey identifies the caller: a proxy-set header when configured,
// the remote address otherwise.
func (rl *tokenBucketLimiter) GetSourceKey(r *http.Request) string {
	if key := r.Header.Get(rl.sourceHeaderKey); key != "" {
		return key
	}

	return r.RemoteAddr
}

type Options struct {
	MaxRatePerSecond int
	MaxBurst         int
	Cache            GetterSetter
	CacheTTL         time.Duration
	SourceHeaderKey  string
}

func New(options Options) Limiter {
	if options.Cache == nil {
		options.Cache = NewInMemory()
	}

	if options.CacheTTL == 0 {
		options.CacheTTL = 10 * time.Second
	}

	if options.MaxBurst <= 0 {
		options.MaxBurst = options.MaxRatePerSecond
	}

	if options.SourceHeaderKey == "" {
		options.SourceHeaderKey = defaultSourceKey
	}

	return &tokenBucketLimiter{
		tokensPerMilli:  float64(options.MaxRatePerSecond) / 1000.0,
		maxBurst:        options.MaxBurst,
		cache:           options.Cache,
		cacheTTL:        options.CacheTTL,
		sourceHeaderKey: options.SourceHeaderKey,
	}
}
