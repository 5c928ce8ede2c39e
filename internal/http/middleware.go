package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/auth"
)

const claimsKey = "session"

// SessionMiddleware requires a Bearer token issued for role.
func SessionMiddleware(m *auth.Manager, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			fail(c, http.StatusUnauthorized, "Unauthorized: session token required", nil)
			return
		}

		claims, err := m.Parse(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if errors.Is(err, auth.ErrExpiredToken) {
			fail(c, http.StatusUnauthorized, "Session expired, please log in again", nil)
			return
		}
		if err != nil {
			fail(c, http.StatusUnauthorized, "Unauthorized: invalid session token", nil)
			return
		}
		if claims.Role != role {
			fail(c, http.StatusForbidden, "Forbidden: "+role+" session required", nil)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// AdminAuthMiddleware guards the admin dashboard API.
func AdminAuthMiddleware(m *auth.Manager) gin.HandlerFunc {
	return SessionMiddleware(m, auth.RoleAdmin)
}

// StudentAuthMiddleware guards the ballot.
func StudentAuthMiddleware(m *auth.Manager) gin.HandlerFunc {
	return SessionMiddleware(m, auth.RoleStudent)
}

func sessionFrom(c *gin.Context) *auth.Claims {
	v, _ := c.Get(claimsKey)
	claims, _ := v.(*auth.Claims)
	return claims
}

// SecurityHeadersMiddleware adds basic security headers for a JSON API.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Next()
	}
}

// --- Rate Limiter ---

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per key, usually the client IP.
type IPRateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      r,
		burst:    b,
	}
}

func (rl *IPRateLimiter) GetLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup forgets visitors not seen for idle.
func (rl *IPRateLimiter) Cleanup(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, v := range rl.visitors {
		if time.Since(v.lastSeen) > idle {
			delete(rl.visitors, key)
		}
	}
}

// Len is the number of keys currently tracked.
func (rl *IPRateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// janitor runs Cleanup every tick until ctx is done.
func (rl *IPRateLimiter) janitor(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Cleanup(idle)
		}
	}
}

// RateLimitMiddleware limits requests per client IP.
func RateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return KeyedRateLimitMiddleware(limiter, func(c *gin.Context) string { return c.ClientIP() })
}

// KeyedRateLimitMiddleware limits requests per key(c). It must run after
// whatever middleware key depends on.
func KeyedRateLimitMiddleware(limiter *IPRateLimiter, key func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.GetLimiter(key(c)).Allow() {
			fail(c, http.StatusTooManyRequests, "Too many requests. Please wait.", nil)
			return
		}
		c.Next()
	}
}
