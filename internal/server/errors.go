package server

import "net/http"

// writeAPIError emits the {"error": ..., "details": [...]} envelope every
// API handler uses for failures.
func writeAPIError(w http.ResponseWriter, status int, message string, details []string) {
	resp := map[string]any{"error": message}
	if len(details) > 0 {
		resp["details"] = details
	}
	writeJSON(w, status, resp)
}

// writeInternalAPIError logs the cause and returns an opaque 500; internal
// detail stays out of responses.
func (s *Server) writeInternalAPIError(w http.ResponseWriter, r *http.Request, message string, err error, attrs ...any) {
	logAttrs := make([]any, 0, len(attrs)+4)
	logAttrs = append(logAttrs, "error", err, "path", r.URL.Path)
	logAttrs = append(logAttrs, attrs...)
	s.logger.ErrorContext(r.Context(), message, logAttrs...)
	writeAPIError(w, http.StatusInternalServerError, message, nil)
}
