package server

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	_ "embed"

	"github.com/atikulmunna/accesstail/internal/config"
	"github.com/atikulmunna/accesstail/internal/hub"
	"github.com/atikulmunna/accesstail/internal/parser"
	"github.com/atikulmunna/accesstail/internal/tailer"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

//go:embed web/index.html
var indexHTML string

const shutdownTimeout = 5 * time.Second

// Server holds the Gin engine and dependencies for the web dashboard.
type Server struct {
	cfg    config.Config
	parser parser.Parser
	hub    *hub.Hub
	engine *gin.Engine
	page   *template.Template
	bulk   http.Handler
}

// New creates a dashboard server for cfg.LogFile. Every request reads the
// file afresh; the server keeps no record history between requests.
func New(cfg config.Config, p parser.Parser) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	// Paths are matched by substring, never redirected.
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		cfg:    cfg,
		parser: p,
		hub:    hub.New(cfg.LogFile, p, tailer.Options{PollInterval: cfg.PollInterval}),
		engine: engine,
		page:   template.Must(template.New("index").Parse(indexHTML)),
	}
	s.bulk = gzhttp.GzipHandler(http.HandlerFunc(s.serveBulk))

	engine.Use(limitConcurrency(semaphore.NewWeighted(int64(cfg.MaxClients))))
	engine.Any("/*path", s.dispatch)
	return s
}

// Handler exposes the routed engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves the dashboard (and the debug listener when configured) until
// ctx is cancelled, then shuts down. Open streams end with ctx.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	servers := []*http.Server{{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		BaseContext:       func(net.Listener) context.Context { return gctx },
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if s.cfg.DebugAddr != "" {
		servers = append(servers, &http.Server{
			Addr:              s.cfg.DebugAddr,
			Handler:           debugEngine(),
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	for _, srv := range servers {
		g.Go(func() error {
			slog.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Warn("shutdown", "addr", srv.Addr, "err", err)
			}
		}
		return nil
	})

	return g.Wait()
}
