package ratelimit

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"bookmate/internal/shared/config"
)

func testConfig() config.RateLimitConfig {
	return config.RateLimitConfig{Enabled: true, Max: 10, Window: time.Second}
}

func TestNewLimiter_FloorsSubSecondWindow(t *testing.T) {
	cfg := testConfig()
	cfg.Window = 100 * time.Millisecond

	limiter := NewLimiter(nil, cfg)

	assert.Equal(t, time.Second, limiter.RetryAfter())
}

func TestAllow_DisabledLimiterSkipsStore(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	// nil client: a disabled limiter must answer without touching Redis.
	limiter := NewLimiter(nil, cfg)

	allowed, err := limiter.Allow(context.Background(), "203.0.113.9")

	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestMatchesPrefix(t *testing.T) {
	prefixes := []string{"/api/v1/events", "/api/v1/banners"}

	assert.True(t, matchesPrefix("/api/v1/events", prefixes))
	assert.True(t, matchesPrefix("/api/v1/events/3/seats", prefixes))
	assert.True(t, matchesPrefix("/api/v1/banners", prefixes))
	assert.False(t, matchesPrefix("/api/v1/bookings/lock", prefixes))
	assert.False(t, matchesPrefix("/health", prefixes))
}

func clientContext(remoteAddr string, headers map[string]string) *gin.Context {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.RemoteAddr = remoteAddr
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	return &gin.Context{Request: req}
}

func TestGetClientIP_ForwardedForFirstHop(t *testing.T) {
	c := clientContext("10.0.0.1:4567", map[string]string{
		"X-Forwarded-For": "203.0.113.9, 10.0.0.2",
	})

	assert.Equal(t, "203.0.113.9", getClientIP(c))
}

func TestGetClientIP_MalformedForwardedForFallsThrough(t *testing.T) {
	c := clientContext("10.0.0.1:4567", map[string]string{
		"X-Forwarded-For": "not-an-ip",
		"X-Real-IP":       "198.51.100.7",
	})

	assert.Equal(t, "198.51.100.7", getClientIP(c))
}

func TestGetClientIP_RemoteAddrFallback(t *testing.T) {
	c := clientContext("192.0.2.4:33999", nil)

	assert.Equal(t, "192.0.2.4", getClientIP(c))
}
