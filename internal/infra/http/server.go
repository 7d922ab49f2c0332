// Package http is the gateway's externally exposed surface: the widget
// script, config and validate endpoints, served cross-origin to
// arbitrary third-party pages.
package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"widgetgate/internal/config"
	"widgetgate/internal/domain"
	"widgetgate/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Server struct {
	cfg config.Config
	log *zap.Logger
	r   *gin.Engine

	identities usecase.IdentityStore
	serveUC    *usecase.ServeWidget
	validateUC *usecase.ValidateDomain
	configUC   *usecase.WidgetConfig

	limiter domain.RateLimiter
	now     func() time.Time
}

type ServerDeps struct {
	Identities usecase.IdentityStore
	Bundles    usecase.BundleProvider
	Limiter    domain.RateLimiter
	Logger     *zap.Logger
	Now        func() time.Time
}

func NewServer(cfg config.Config, deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	r := gin.New()
	s := &Server{
		cfg:        cfg,
		log:        deps.Logger,
		r:          r,
		identities: deps.Identities,
		limiter:    deps.Limiter,
		now:        deps.Now,
	}
	s.serveUC = &usecase.ServeWidget{
		Identities: deps.Identities,
		Bundles:    deps.Bundles,
		BaseURL:    strings.TrimRight(cfg.PublicBaseURL, "/"),
		Now:        deps.Now,
	}
	s.validateUC = &usecase.ValidateDomain{Identities: deps.Identities, Now: deps.Now}
	s.configUC = &usecase.WidgetConfig{Identities: deps.Identities, Now: deps.Now}

	r.Use(s.requestID())
	r.Use(s.recovery())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := s.r.Group("/widget")
	w.Use(openCORS())
	{
		w.GET("/:key/script", s.handleScript)
		w.GET("/:key/config", s.handleConfig)
		w.POST("/:key/validate", s.handleValidate)
		w.OPTIONS("/:key/validate", s.handlePreflight)
	}
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler { return s.r }

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("gateway listening", zap.String("addr", s.cfg.HTTPAddr))
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// The endpoints exist to be loaded cross-origin; every widget response
// carries the open allow-origin header.
func openCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Next()
	}
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(ctxRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

const ctxRequestID = "request_id"

func requestIDFrom(c *gin.Context) string {
	if v, ok := c.Get(ctxRequestID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// recovery converts panics into INTERNAL_ERROR responses: an error
// script on the script path so the embedding page keeps rendering, JSON
// elsewhere. Stack traces stay in the log.
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		s.log.Error("panic in request handler",
			zap.Any("panic", rec),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestIDFrom(c)),
		)
		if strings.HasSuffix(c.FullPath(), "/script") {
			writeErrorScript(c, domain.ReasonInternal)
		} else {
			writeErrorJSON(c, domain.ReasonInternal, "internal error")
		}
		c.Abort()
	})
}
