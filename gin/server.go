// Package gin exposes the question-answering pipeline over HTTP using the
// gin web framework.
package gin

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/siteask"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Defaults for the HTTP server.
const (
	DefaultAddr            = ":3000"
	DefaultShutdownTimeout = 10 * time.Second
	MaxRequestBytes        = 64 << 10
)

// Server serves the HTTP API.
type Server struct {
	ln     net.Listener
	server *http.Server
	router *gin.Engine

	// Addr is the bind address. Empty means DefaultAddr.
	Addr string

	// AllowOrigins restricts CORS. Empty allows every origin.
	AllowOrigins []string

	Config   siteask.Config
	Pipeline siteask.Pipeline

	// Cache backs the cache endpoints; nil reports empty stats.
	Cache siteask.Cache

	Logger *slog.Logger
	Now    func() time.Time
}

// NewServer returns a Server for pipeline. Routes are registered on the
// first call to Handler or Open.
func NewServer(cfg siteask.Config, pipeline siteask.Pipeline, cache siteask.Cache) *Server {
	return &Server{
		Config:   cfg,
		Pipeline: pipeline,
		Cache:    cache,
	}
}

// Handler returns the routed gin engine.
func (s *Server) Handler() http.Handler {
	if s.router == nil {
		s.router = s.routes()
	}
	return s.router
}

// Open binds the listener. Call Serve to start handling requests.
func (s *Server) Open() (err error) {
	addr := s.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	if s.ln, err = net.Listen("tcp", addr); err != nil {
		return err
	}

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger().Info("listening", "addr", s.ln.Addr().String(), "domain", s.Config.Domain.Host())
	return nil
}

// Serve handles requests on the opened listener until Close is called.
func (s *Server) Serve() error {
	if s.server == nil {
		return siteask.Errorf(siteask.EINVALID, "server not open")
	}
	if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server, waiting for in-flight requests
// until ctx is done.
func (s *Server) Close(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests(), cors.New(s.corsConfig()))

	r.POST("/ask", s.handleAsk)
	r.GET("/health", s.handleHealth)
	r.POST("/cache/clear", s.handleCacheClear)
	r.GET("/cache/stats", s.handleCacheStats)
	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(s.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.AllowOrigins
	}
	return cfg
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAsk(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxRequestBytes)

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, &siteask.Response{
			Answer: s.Config.InvalidQuestionMessage(),
			Error:  "invalid request body",
		})
		return
	}

	resp, err := s.Pipeline.Ask(c.Request.Context(), req.Question)
	if err != nil {
		if resp == nil {
			resp = &siteask.Response{Answer: s.Config.FailureMessage(), Error: siteask.ErrorMessage(err)}
		}
		c.JSON(errorStatus(err), resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type healthResponse struct {
	Status       string             `json:"status"`
	Timestamp    time.Time          `json:"timestamp"`
	TargetDomain string             `json:"targetDomain"`
	CacheStats   siteask.CacheStats `json:"cacheStats"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:       "healthy",
		Timestamp:    s.now().UTC(),
		TargetDomain: s.Config.Domain.Host(),
		CacheStats:   s.cacheStats(),
	})
}

func (s *Server) handleCacheClear(c *gin.Context) {
	if s.Cache != nil {
		s.Cache.Flush()
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cache cleared successfully"})
}

func (s *Server) handleCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.cacheStats())
}

func (s *Server) cacheStats() siteask.CacheStats {
	if s.Cache == nil {
		return siteask.CacheStats{}
	}
	return s.Cache.Stats()
}

// logRequests logs one line per request in place of gin's default logger.
func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()
		s.logger().Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(begin),
		)
	}
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Server) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// errorStatus maps an application error code to an HTTP status.
func errorStatus(err error) int {
	switch siteask.ErrorCode(err) {
	case siteask.EINVALID:
		return http.StatusBadRequest
	case siteask.ENOTFOUND:
		return http.StatusNotFound
	case siteask.ETOOLARGE:
		return http.StatusRequestEntityTooLarge
	case siteask.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
