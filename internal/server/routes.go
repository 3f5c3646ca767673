package server

import (
	"net/http"
	"strings"
)

func registerAPIRoutes(mux *http.ServeMux, srv *Server) {
	auth := authMiddleware(srv.cfg.APIToken, srv.logger)

	mux.HandleFunc("/api/v1/health", srv.handleHealth)
	// Visit beacons come from browsers, so they stay unauthenticated.
	mux.HandleFunc("/api/v1/visits", srv.handleVisitCreate)

	mux.Handle("/api/v1/status", auth(http.HandlerFunc(srv.handleStatus)))
	mux.Handle("/api/v1/releases", auth(http.HandlerFunc(srv.handleReleases)))
	mux.Handle("/api/v1/releases/current/files", auth(http.HandlerFunc(srv.handleReleaseFiles)))
	mux.Handle("/api/v1/publish", auth(http.HandlerFunc(srv.handlePublish)))
	mux.Handle("/api/v1/visits/summary", auth(http.HandlerFunc(srv.handleVisitsSummary)))
}

func actorFromRequest(r *http.Request) string {
	if state, ok := authStateFromContext(r.Context()); !ok || !state.actorTrusted {
		return "local"
	}
	actor := strings.TrimSpace(r.Header.Get("X-Actor"))
	if actor == "" {
		return "local"
	}
	return actor
}
