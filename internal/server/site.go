package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/foliokit/folioctl/internal/release"
	"github.com/foliokit/folioctl/pkg/renderer"
)

// activeRelease is an immutable snapshot of the release the site handler
// serves. A publish builds a new snapshot and swaps the pointer.
type activeRelease struct {
	id       string
	dir      string
	manifest renderer.Manifest
	// route path -> pre-rendered entry file, relative to dir
	routeFiles map[string]string
}

func newActiveRelease(id, dir string) (*activeRelease, error) {
	manifest, err := release.ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	routeFiles := make(map[string]string, len(manifest.Routes))
	for _, route := range manifest.Routes {
		routeFiles[route.Path] = route.File
	}
	return &activeRelease{
		id:         id,
		dir:        dir,
		manifest:   manifest,
		routeFiles: routeFiles,
	}, nil
}

// handleSite serves the active release. Route paths get their pre-rendered
// entry page, hashed static files get immutable cache headers, and unknown
// paths fall through to the 404 deep-link handoff page.
func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeAPIError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	active := s.activeRelease()
	if active == nil {
		writeAPIError(w, http.StatusServiceUnavailable, "no release published", nil)
		return
	}

	reqPath := normalizeRequestPath(r.URL.Path)

	if file, ok := active.routeFiles[routeLookupPath(active.manifest.BasePath, reqPath)]; ok {
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, filepath.Join(active.dir, filepath.FromSlash(file)))
		return
	}

	if rel, ok := releaseFilePath(active, reqPath); ok {
		if isHashedAssetPath(rel) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		}
		http.ServeFile(w, r, filepath.Join(active.dir, filepath.FromSlash(rel)))
		return
	}

	serveNotFound(w, r, active)
}

func normalizeRequestPath(p string) string {
	clean := path.Clean("/" + p)
	if clean != "/" {
		clean = strings.TrimSuffix(clean, "/")
	}
	return clean
}

// routeLookupPath strips the configured base path so prefixed requests
// resolve against the canonical route paths in the manifest. Unprefixed
// paths pass through unchanged.
func routeLookupPath(basePath, reqPath string) string {
	if basePath == "" || basePath == "/" {
		return reqPath
	}
	switch {
	case strings.HasPrefix(reqPath, basePath+"/"):
		return reqPath[len(basePath):]
	case reqPath == basePath:
		return "/"
	}
	return reqPath
}

// releaseFilePath maps a request path to a file inside the release tree,
// stripping the configured base path prefix when present.
func releaseFilePath(active *activeRelease, reqPath string) (string, bool) {
	rel := reqPath
	if base := active.manifest.BasePath; base != "" && base != "/" {
		if !strings.HasPrefix(rel, base) {
			return "", false
		}
		rel = strings.TrimPrefix(rel, base)
	}
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return "", false
	}

	info, err := os.Stat(filepath.Join(active.dir, filepath.FromSlash(rel)))
	if err != nil || info.IsDir() {
		return "", false
	}
	return rel, true
}

func isHashedAssetPath(rel string) bool {
	switch {
	case strings.HasPrefix(rel, "styles/"),
		strings.HasPrefix(rel, "scripts/"),
		strings.HasPrefix(rel, "assets/"):
		return true
	}
	return false
}

func serveNotFound(w http.ResponseWriter, r *http.Request, active *activeRelease) {
	notFoundPath := filepath.Join(active.dir, "404.html")
	body, err := os.ReadFile(notFoundPath)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusNotFound)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}
