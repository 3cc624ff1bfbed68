package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/signadot/xton-format/go-xton/store"
)

type Server struct {
	cfg     Config
	router  *gin.Engine
	store   *store.Store
	log     zerolog.Logger
	started time.Time
}

type Option func(*Server)

// WithStore enables the /v1/docs routes.
func WithStore(s *store.Store) Option {
	return func(srv *Server) {
		srv.store = s
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(srv *Server) {
		srv.log = l
	}
}

func New(cfg Config, opts ...Option) *Server {
	RegisterMetrics()
	s := &Server{
		cfg:     cfg,
		log:     log.Logger,
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(s.log))
	r.Use(RequestMetrics())
	origins := normalizeOrigins(cfg.CorsOrigins)
	r.Use(cors.New(cors.Config{
		AllowOrigins:    origins,
		AllowAllOrigins: len(origins) == 0,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		ExposeHeaders:   []string{versionHeader},
		MaxAge:          12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	s.router = r
	s.routes()
	return s
}

func normalizeOrigins(origins []string) []string {
	var res []string
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			res = append(res, o)
		}
	}
	return res
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": s.cfg.Name,
			"uptime":  time.Since(s.started).String(),
			"store":   s.store != nil,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	v1.POST("/decode", s.decode)
	v1.POST("/encode", s.encode)
	v1.POST("/validate", s.validate)
	v1.POST("/convert", s.convert)
	if s.store != nil {
		v1.GET("/docs", s.listDocs)
		v1.PUT("/docs/:key", s.putDoc)
		v1.GET("/docs/:key", s.getDoc)
		v1.DELETE("/docs/:key", s.deleteDoc)
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	hs := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Bool("store", s.store != nil).Msg("listening")
		errc <- hs.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
