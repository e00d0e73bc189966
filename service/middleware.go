package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"supercollab/logutils"
	"supercollab/model"
	"supercollab/response"
	"supercollab/util"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "x-request-id"
	userKey         = "x-user"
)

type requestIDCtxKey struct{}

// RequestIDMiddleware tags every request with an id, echoed in X-Request-Id,
// and logs the outcome.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), requestIDCtxKey{}, rid))
		c.Writer.Header().Set(requestIDHeader, rid)

		start := time.Now()
		c.Next()

		logutils.Log.WithFields(logutils.Fields{
			"request_id": rid,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
		}).Info("request")
	}
}

// GetRequestID extracts the request id from a request context.
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDCtxKey{}).(string); ok {
		return rid
	}
	return ""
}

// AuthMiddleware verifies the bearer token and stores the caller for handlers.
func AuthMiddleware(tm *util.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.HTTPError(c, http.StatusUnauthorized, "missing bearer token", response.TokenMissing)
			c.Abort()
			return
		}
		msg, err := tm.CheckToken(token)
		if err != nil {
			code := response.InvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				code = response.TokenExpired
			}
			response.HTTPError(c, http.StatusUnauthorized, err.Error(), code)
			c.Abort()
			return
		}
		c.Set(userKey, msg.User())
		c.Next()
	}
}

// CurrentUser returns the caller AuthMiddleware verified.
func CurrentUser(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return model.User{}, false
	}
	user, ok := v.(model.User)
	return user, ok
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin() {
			response.HTTPError(c, http.StatusForbidden, "admin role required", response.InvalidRole)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimitMiddleware applies a token bucket per client IP. A non-positive
// limit disables it.
func RateLimitMiddleware(limit float64, burst int) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		limiter, ok := limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(limit), burst)
			limiters[ip] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			response.HTTPError(c, http.StatusTooManyRequests, "rate limit exceeded", response.TooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
