package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"bookmate/internal/shared/utils/response"
	"bookmate/pkg/logger"
)

// Middleware throttles requests whose path starts with one of the given
// prefixes. Everything else passes through untouched, so the hot booking
// and queue endpoints never pay for the public read throttle.
func Middleware(limiter *Limiter, prefixes ...string) gin.HandlerFunc {
	log := logger.GetDefault()
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !matchesPrefix(path, prefixes) {
			c.Next()
			return
		}

		ip := getClientIP(c)
		allowed, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			// Fail open. The request proceeds and the outage is visible
			// in the logs instead of as a refused read path.
			log.WarnContext(c.Request.Context(), "rate limiter unavailable, allowing request",
				"error", err,
				"ip", ip,
			)
			c.Next()
			return
		}

		if !allowed {
			log.LogRateLimitExceeded(c.Request.Context(), ip, path)
			retry := int(limiter.RetryAfter().Seconds())
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Too many requests", nil, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func matchesPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// getClientIP extracts the real client IP, preferring proxy headers over
// the socket address.
func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		// First hop is the original client.
		ip := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		if net.ParseIP(realIP) != nil {
			return realIP
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}
