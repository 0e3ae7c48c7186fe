package ratelimiter

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowDeniesAfterBurst(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 2})

	assert.True(t, rl.Allow("client-a"))
	assert.True(t, rl.Allow("client-a"))
	assert.False(t, rl.Allow("client-a"))

	// Another source has its own bucket.
	assert.True(t, rl.Allow("client-b"))
}

func TestRemaining(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 3})

	assert.Equal(t, 3, rl.Remaining("client-a"))
	rl.Allow("client-a")
	assert.Equal(t, 2, rl.Remaining("client-a"))
}

func TestGetSourceKeyPrefersHeader(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, SourceHeaderKey: "X-Forwarded-For"})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	assert.Equal(t, "10.0.0.1", rl.GetSourceKey(req))

	bare := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, bare.RemoteAddr, rl.GetSourceKey(bare))
}

func TestGetMaxBurst(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 7})
	assert.Equal(t, 7, rl.GetMaxBurst())
}
