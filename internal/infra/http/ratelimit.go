package http

import (
	"net"
	"strconv"
	"strings"
	"time"

	"widgetgate/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// enforceLimit runs one fixed-window tier. A limiter backend error fails
// OPEN: rate limiting is an abuse guard, not an authorization control,
// and a counter-store outage must not take legitimate embedders down
// with it.
func (s *Server) enforceLimit(c *gin.Context, namespace, identifier string, limit int, window time.Duration, script bool) bool {
	if s.limiter == nil || limit <= 0 {
		return true
	}
	key := namespace + ":" + identifier
	decision, err := s.limiter.Allow(c.Request.Context(), key, limit, window)
	if err != nil {
		s.log.Warn("rate limiter unavailable, allowing request",
			zap.String("key", key),
			zap.String("request_id", requestIDFrom(c)),
			zap.Error(err),
		)
		return true
	}
	writeRateLimitHeaders(c, decision)
	if decision.Allowed {
		return true
	}
	c.Header("Retry-After", strconv.Itoa(decision.RetryAfter(s.now())))
	s.log.Warn("rate limit exceeded",
		zap.String("key", key),
		zap.Int("limit", decision.Limit),
		zap.Time("reset_at", decision.ResetAt),
		zap.String("request_id", requestIDFrom(c)),
	)
	if script {
		writeErrorScript(c, domain.ReasonRateLimited)
	} else {
		writeErrorJSON(c, domain.ReasonRateLimited, "rate limit exceeded")
	}
	c.Abort()
	return false
}

func writeRateLimitHeaders(c *gin.Context, decision domain.RateLimitDecision) {
	if decision.Remaining >= 0 {
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	if !decision.ResetAt.IsZero() {
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
	}
}

// clientIP prefers the first X-Forwarded-For hop when the deployment
// fronts the gateway with a trusted proxy, otherwise the socket peer.
func (s *Server) clientIP(c *gin.Context) string {
	if s.cfg.TrustProxyHeaders {
		if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
			if first != "" {
				return first
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(c.Request.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if c.Request.RemoteAddr != "" {
		return c.Request.RemoteAddr
	}
	return "unknown"
}
