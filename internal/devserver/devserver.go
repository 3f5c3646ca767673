// Package devserver runs the local preview loop for folioctl serve: render
// the site to a scratch directory, serve it, watch the sources, and push a
// reload to connected browsers after every rebuild.
package devserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/foliokit/folioctl/internal/release"
	"github.com/foliokit/folioctl/pkg/loader"
	"github.com/foliokit/folioctl/pkg/renderer"
)

const (
	DefaultBindAddr = "127.0.0.1"
	DefaultPort     = 8700

	livereloadPath       = "/__folio/livereload"
	livereloadScriptPath = "/__folio/livereload.js"
)

type Options struct {
	SiteDir  string
	BindAddr string
	Port     int
	Logger   *slog.Logger
}

type Server struct {
	siteDir  string
	bindAddr string
	port     int
	logger   *slog.Logger

	outputDir string
	hub       *reloadHub

	mu         sync.RWMutex
	routeFiles map[string]string
	basePath   string

	listener net.Listener
}

func New(opts Options) (*Server, error) {
	siteDir := strings.TrimSpace(opts.SiteDir)
	if siteDir == "" {
		return nil, fmt.Errorf("site directory is required")
	}
	info, err := os.Stat(siteDir)
	if err != nil {
		return nil, fmt.Errorf("site directory %s: %w", siteDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("site directory %s is not a directory", siteDir)
	}

	bindAddr := strings.TrimSpace(opts.BindAddr)
	if bindAddr == "" {
		bindAddr = DefaultBindAddr
	}
	port := opts.Port
	if port == 0 {
		port = DefaultPort
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	outputDir, err := os.MkdirTemp("", "folioctl-serve-*")
	if err != nil {
		return nil, fmt.Errorf("create preview output directory: %w", err)
	}

	return &Server{
		siteDir:   siteDir,
		bindAddr:  bindAddr,
		port:      port,
		logger:    logger,
		outputDir: outputDir,
		hub:       newReloadHub(logger),
	}, nil
}

// Run serves until the context is cancelled. The first build must succeed;
// later build failures keep the previous output and log the error.
func (s *Server) Run(ctx context.Context) error {
	defer os.RemoveAll(s.outputDir)

	if err := s.rebuild(); err != nil {
		return err
	}

	watcher, err := newSiteWatcher(s.siteDir)
	if err != nil {
		return err
	}
	defer watcher.Close()

	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.bindAddr, s.port))
	if err != nil {
		return fmt.Errorf("listen on %s:%d: %w", s.bindAddr, s.port, err)
	}
	s.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc(livereloadPath, s.hub.handleWebsocket)
	mux.HandleFunc(livereloadScriptPath, serveLivereloadScript)
	mux.HandleFunc("/", s.handlePreview)

	httpServer := &http.Server{Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		err := httpServer.Serve(ln)
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.Info("preview server running",
		"addr", "http://"+ln.Addr().String(),
		"site_dir", s.siteDir,
	)

	go s.watchLoop(ctx, watcher)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("preview server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.closeAll()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown preview server: %w", err)
		}
		if err, ok := <-errCh; ok && err != nil {
			return fmt.Errorf("preview server failed: %w", err)
		}
		return nil
	}
}

func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) watchLoop(ctx context.Context, watcher *siteWatcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-watcher.Changes():
			if !ok {
				return
			}
			start := time.Now()
			if err := s.rebuild(); err != nil {
				s.logger.Error("rebuild failed, keeping previous output", "error", err)
				continue
			}
			s.logger.Info("site rebuilt", "elapsed", time.Since(start).Round(time.Millisecond))
			s.hub.broadcastReload()
		}
	}
}

func (s *Server) rebuild() error {
	site, err := loader.LoadSite(s.siteDir)
	if err != nil {
		return fmt.Errorf("load site: %w", err)
	}
	if err := renderer.Render(site, s.outputDir); err != nil {
		return fmt.Errorf("render site: %w", err)
	}

	manifest, err := release.ReadManifest(s.outputDir)
	if err != nil {
		return err
	}
	routeFiles := make(map[string]string, len(manifest.Routes))
	for _, route := range manifest.Routes {
		routeFiles[route.Path] = route.File
	}

	s.mu.Lock()
	s.routeFiles = routeFiles
	s.basePath = manifest.BasePath
	s.mu.Unlock()
	return nil
}

// handlePreview mirrors the production daemon's serving rules, with the
// livereload script injected into every entry page.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	routeFiles := s.routeFiles
	basePath := s.basePath
	s.mu.RUnlock()

	reqPath := path.Clean("/" + r.URL.Path)
	if reqPath != "/" {
		reqPath = strings.TrimSuffix(reqPath, "/")
	}

	// Route paths in the manifest are canonical; strip the base prefix
	// before the lookup so prefixed deep links hit their entry page.
	routePath := reqPath
	if basePath != "" && basePath != "/" {
		switch {
		case strings.HasPrefix(routePath, basePath+"/"):
			routePath = routePath[len(basePath):]
		case routePath == basePath:
			routePath = "/"
		}
	}
	if file, ok := routeFiles[routePath]; ok {
		s.servePage(w, r, file)
		return
	}

	rel := reqPath
	if basePath != "" && basePath != "/" {
		rel = strings.TrimPrefix(rel, basePath)
	}
	rel = strings.TrimPrefix(rel, "/")
	if rel != "" {
		target := filepath.Join(s.outputDir, filepath.FromSlash(rel))
		if info, err := os.Stat(target); err == nil && !info.IsDir() {
			http.ServeFile(w, r, target)
			return
		}
	}

	s.servePage(w, r, "404.html")
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request, file string) {
	body, err := os.ReadFile(filepath.Join(s.outputDir, filepath.FromSlash(file)))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	status := http.StatusOK
	if file == "404.html" {
		status = http.StatusNotFound
	}

	page := injectLivereloadTag(string(body))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte(page))
	}
}

func injectLivereloadTag(page string) string {
	tag := `<script src="` + livereloadScriptPath + `" defer></script>`
	if idx := strings.LastIndex(page, "</body>"); idx >= 0 {
		return page[:idx] + tag + page[idx:]
	}
	return page + tag
}
