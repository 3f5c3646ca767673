package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/foliokit/folioctl/internal/visits"
)

const maxVisitBodyBytes = 16 << 10

type visitPayload struct {
	Path      string `json:"path"`
	SectionID string `json:"sectionId"`
	Referrer  string `json:"referrer"`
}

// handleVisitCreate ingests a navigation beacon from the client router.
// Writes are asynchronous; a full queue drops the beacon rather than slowing
// the page.
func (s *Server) handleVisitCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	var payload visitPayload
	body := io.LimitReader(r.Body, maxVisitBodyBytes)
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid visit payload", nil)
		return
	}
	if strings.TrimSpace(payload.SectionID) == "" {
		writeAPIError(w, http.StatusBadRequest, "sectionId is required", nil)
		return
	}

	err := s.visitLogger.Log(r.Context(), visits.Visit{
		Path:      payload.Path,
		SectionID: payload.SectionID,
		Referrer:  payload.Referrer,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		s.logger.Warn("visit beacon dropped", "error", err)
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleVisitsSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	recentLimit := 0
	if v := strings.TrimSpace(r.URL.Query().Get("recent")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeAPIError(w, http.StatusBadRequest, "invalid recent limit", nil)
			return
		}
		recentLimit = parsed
	}

	summary, err := s.visitLogger.Summarize(r.Context(), recentLimit)
	if err != nil {
		s.writeInternalAPIError(w, r, "summarize visits", err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
