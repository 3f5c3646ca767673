// Package server implements foliod, the portfolio publish daemon. It serves
// the active rendered release, accepts bundle uploads from folioctl, and
// records visit beacons in sqlite.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	dbpkg "github.com/foliokit/folioctl/internal/db"
	"github.com/foliokit/folioctl/internal/release"
	"github.com/foliokit/folioctl/internal/visits"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg        Config
	logger     *slog.Logger
	version    string
	dataPaths  DataPaths
	db         *sql.DB
	listener   net.Listener
	httpServer *http.Server
	errCh      chan error

	visitLogger *visits.AsyncLogger

	publishMu sync.Mutex

	activeMu sync.RWMutex
	active   *activeRelease
}

func New(cfg Config, logger *slog.Logger, version string) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if version == "" {
		version = "dev"
	}

	srv := &Server{
		cfg:     cfg,
		logger:  logger,
		version: version,
		errCh:   make(chan error, 1),
	}

	mux := http.NewServeMux()
	registerAPIRoutes(mux, srv)
	mux.HandleFunc("/", srv.handleSite)
	srv.httpServer = &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      mux,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv, nil
}

func (s *Server) Start() error {
	paths, err := InitDataDir(s.cfg.DataDir)
	if err != nil {
		return err
	}
	s.dataPaths = paths

	dbPath := s.cfg.DBPath
	if dbPath == "" {
		dbPath = paths.DBPath
	}
	sqlDB, err := dbpkg.Open(dbpkg.Options{
		Path:          dbPath,
		EnableWAL:     s.cfg.DBWAL,
		BusyTimeoutMS: 5000,
		MaxOpenConns:  5,
		MaxIdleConns:  5,
	})
	if err != nil {
		return err
	}
	if err := dbpkg.RunMigrations(context.Background(), sqlDB); err != nil {
		_ = sqlDB.Close()
		return err
	}
	s.db = sqlDB

	baseVisitLogger, err := visits.NewSQLiteLogger(sqlDB)
	if err != nil {
		_ = s.db.Close()
		s.db = nil
		return fmt.Errorf("initialize visit logger: %w", err)
	}
	s.visitLogger = visits.NewAsyncLogger(baseVisitLogger, 512, func(err error) {
		s.logger.Error("asynchronous visit write failed", "error", err)
	})

	if err := s.loadActiveRelease(); err != nil {
		s.logger.Warn("no active release loaded", "error", err)
	}

	ln, err := net.Listen("tcp", s.cfg.ListenAddr())
	if err != nil {
		_ = s.db.Close()
		s.db = nil
		return fmt.Errorf("listen on %s: %w", s.cfg.ListenAddr(), err)
	}
	s.listener = ln

	if !isLoopbackHost(s.cfg.BindAddr) {
		s.logger.Warn("binding to non-loopback address", "bind", s.cfg.BindAddr)
	}

	s.logger.Info("foliod starting",
		"listen_addr", ln.Addr().String(),
		"data_dir", s.cfg.DataDir,
		"db_path", dbPath,
		"version", s.version,
	)

	go func() {
		err := s.httpServer.Serve(ln)
		if err != nil && err != http.ErrServerClosed {
			s.errCh <- err
		}
		close(s.errCh)
	}()

	return nil
}

func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	select {
	case err := <-s.errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.listener == nil && s.db == nil {
		return nil
	}

	s.logger.Info("foliod shutting down")
	if s.listener != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}

		if err, ok := <-s.errCh; ok && err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		s.listener = nil
	}
	if s.visitLogger != nil {
		if err := s.visitLogger.Close(ctx); err != nil {
			return fmt.Errorf("close visit logger: %w", err)
		}
		s.visitLogger = nil
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("close sqlite db: %w", err)
		}
		s.db = nil
	}
	return nil
}

func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// loadActiveRelease resolves the current symlink and indexes its route
// manifest so the site handler can answer deep links.
func (s *Server) loadActiveRelease() error {
	target, ok, err := release.ReadCurrentSymlinkTarget(s.cfg.DataDir)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no release published yet")
	}

	releaseID := filepath.Base(target)
	releaseDir := filepath.Join(s.cfg.DataDir, filepath.FromSlash(target))
	active, err := newActiveRelease(releaseID, releaseDir)
	if err != nil {
		return err
	}

	s.activeMu.Lock()
	s.active = active
	s.activeMu.Unlock()
	return nil
}

func (s *Server) activeRelease() *activeRelease {
	s.activeMu.RLock()
	defer s.activeMu.RUnlock()
	return s.active
}

func isLoopbackHost(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback()
}

func parseLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (expected debug|info|warn|error)", level)
	}
}

func NewLogger(level string) (*slog.Logger, error) {
	parsed, err := parseLogLevel(level)
	if err != nil {
		return nil, err
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parsed})
	return slog.New(h), nil
}
