package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	servertiming "github.com/mitchellh/go-server-timing"
	"go.uber.org/zap"

	"github.com/ironsheep/linetrace/internal/config"
	"github.com/ironsheep/linetrace/internal/logging"
	"github.com/ironsheep/linetrace/internal/pipeline"
)

// BuildInfo identifies the running binary. It is reported by /health and
// /version.
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
}

// Server serves the vectorization endpoints over HTTP.
type Server struct {
	cfg     *config.Config
	presets *pipeline.Presets
	build   BuildInfo
	engine  *gin.Engine
	http    *http.Server
}

// New builds the router and HTTP server from cfg. It fails only if the
// configured presets are invalid.
func New(cfg *config.Config, build BuildInfo) (*Server, error) {
	presets, err := cfg.BuildPresets()
	if err != nil {
		return nil, err
	}

	gin.SetMode(cfg.Server.Mode)

	s := &Server{
		cfg:     cfg,
		presets: presets,
		build:   build,
	}
	s.engine = s.routes()
	s.http = &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(Logger())
	r.Use(CORS())
	r.Use(BodyLimit(s.cfg.Server.MaxBodyBytes))

	r.GET("/health", s.handleHealth)
	r.GET("/version", s.handleVersion)
	r.GET("/presets", s.handlePresets)

	r.POST("/", s.handleVectorize)
	r.POST("/vectorize/:preset", s.handleVectorize)

	return r
}

// Handler returns the router wrapped so every request carries a Server-Timing
// header in its context.
func (s *Server) Handler() http.Handler {
	return servertiming.Middleware(s.engine, nil)
}

// ListenAndServe blocks until the server stops. A clean Shutdown returns nil.
func (s *Server) ListenAndServe() error {
	name, _ := s.presets.Default()
	logging.Logger.Info("server starting",
		zap.String("port", s.cfg.Server.Port),
		zap.String("mode", s.cfg.Server.Mode),
		zap.String("default_preset", name))

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests until
// ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Logger.Info("server shutting down")
	return s.http.Shutdown(ctx)
}
