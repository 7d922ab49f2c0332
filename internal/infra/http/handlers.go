package http

import (
	"errors"
	"net/http"

	"widgetgate/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// resolveOrigin extracts the embedding page's domain from the browser
// supplied headers, Referer first, then Origin. Script loads must prove
// intent with one of the two; no signal at all fails closed.
func resolveOrigin(r *http.Request) (string, bool) {
	if host, ok := domain.NormalizeReferer(r.Header.Get("Referer")); ok {
		return host, true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || origin == "null" {
		return "", false
	}
	return domain.NormalizeReferer(origin)
}

// lookup resolves key to a widget. A store miss returns (nil, nil); the
// caller turns that into IDENTITY_INVALID. Only infrastructure failures
// come back as errors.
func (s *Server) lookup(c *gin.Context, key string) (*domain.Widget, error) {
	widget, err := s.identities.GetByKey(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return widget, nil
}

// GET /widget/:key/script
//
// Pipeline order is fixed: origin resolution, IP tier, identity lookup,
// widget tier, entitlement + domain evaluation, bundle stamp. Identity
// existence is checked before the widget tier so unknown keys cannot
// consume per-widget windows.
func (s *Server) handleScript(c *gin.Context) {
	key := c.Param("key")
	ip := s.clientIP(c)

	pageDomain, ok := resolveOrigin(c.Request)
	if !ok {
		s.denyScript(c, key, "", ip, domain.ReasonRefererMissing)
		return
	}
	if !s.enforceLimit(c, "ip", ip, s.cfg.IPLimitRequests, s.cfg.IPLimitWindow(), true) {
		return
	}

	widget, err := s.lookup(c, key)
	if err != nil {
		s.internalScript(c, key, pageDomain, ip, err)
		return
	}
	if widget != nil {
		if !s.enforceLimit(c, "widget", widget.ID, s.cfg.WidgetLimitRequests, s.cfg.WidgetLimitWindow(), true) {
			return
		}
	}

	script, reason, err := s.serveUC.Execute(c.Request.Context(), widget, pageDomain)
	if err != nil {
		s.internalScript(c, key, pageDomain, ip, err)
		return
	}
	if reason != "" {
		s.denyScript(c, key, pageDomain, ip, reason)
		return
	}

	c.Header("Cache-Control", scriptCacheControl)
	c.Data(http.StatusOK, contentTypeJS, script)
}

// GET /widget/:key/config
func (s *Server) handleConfig(c *gin.Context) {
	key := c.Param("key")
	if !domain.ValidWidgetKey(key) {
		writeBadRequest(c, "INVALID_WIDGET_KEY", "widget key must be 32 alphanumeric characters")
		return
	}
	ip := s.clientIP(c)
	if !s.enforceLimit(c, "ip", ip, s.cfg.IPLimitRequests, s.cfg.IPLimitWindow(), false) {
		return
	}

	widget, err := s.lookup(c, key)
	if err != nil {
		s.internalJSON(c, key, ip, err)
		return
	}
	result, reason, err := s.configUC.Execute(c.Request.Context(), widget)
	if err != nil {
		s.internalJSON(c, key, ip, err)
		return
	}
	if reason != "" {
		s.logDenial(c, key, "", ip, reason)
		writeErrorJSON(c, reason, "widget unavailable")
		return
	}

	c.Header("Cache-Control", configCacheControl)
	c.JSON(http.StatusOK, result)
}

type validateRequest struct {
	Domain string `json:"domain"`
}

// POST /widget/:key/validate
//
// Validation outcomes are never HTTP errors; the caller always gets 200
// with {valid, reason?, widget?} so client-side handling stays uniform.
func (s *Server) handleValidate(c *gin.Context) {
	key := c.Param("key")
	ip := s.clientIP(c)
	if !s.enforceLimit(c, "ip", ip, s.cfg.IPLimitRequests, s.cfg.IPLimitWindow(), false) {
		return
	}

	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "reason": domain.ReasonRefererMissing})
		return
	}
	pageDomain, ok := domain.NormalizeReferer(req.Domain)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"valid": false, "reason": domain.ReasonRefererMissing})
		return
	}

	widget, err := s.lookup(c, key)
	if err != nil {
		s.internalJSON(c, key, ip, err)
		return
	}
	result, err := s.validateUC.Execute(c.Request.Context(), widget, pageDomain)
	if err != nil {
		s.internalJSON(c, key, ip, err)
		return
	}
	if !result.Valid {
		s.logDenial(c, key, pageDomain, ip, result.Reason)
	}
	c.JSON(http.StatusOK, result)
}

// OPTIONS /widget/:key/validate
func (s *Server) handlePreflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Header("Access-Control-Max-Age", "86400")
	c.Status(http.StatusNoContent)
}

// Every denial is logged with full context server-side; the client only
// ever sees the reason code.
func (s *Server) logDenial(c *gin.Context, key, pageDomain, ip string, reason domain.DenyReason) {
	s.log.Info("embed request denied",
		zap.String("widget_key", key),
		zap.String("domain", pageDomain),
		zap.String("reason", string(reason)),
		zap.String("client_ip", ip),
		zap.String("request_id", requestIDFrom(c)),
	)
}

func (s *Server) denyScript(c *gin.Context, key, pageDomain, ip string, reason domain.DenyReason) {
	s.logDenial(c, key, pageDomain, ip, reason)
	writeErrorScript(c, reason)
}

func (s *Server) internalScript(c *gin.Context, key, pageDomain, ip string, err error) {
	s.log.Error("script request failed",
		zap.String("widget_key", key),
		zap.String("domain", pageDomain),
		zap.String("client_ip", ip),
		zap.String("request_id", requestIDFrom(c)),
		zap.Error(err),
	)
	writeErrorScript(c, domain.ReasonInternal)
}

func (s *Server) internalJSON(c *gin.Context, key, ip string, err error) {
	s.log.Error("widget request failed",
		zap.String("widget_key", key),
		zap.String("client_ip", ip),
		zap.String("request_id", requestIDFrom(c)),
		zap.Error(err),
	)
	writeErrorJSON(c, domain.ReasonInternal, "internal error")
}
