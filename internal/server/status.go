package server

import (
	"encoding/json"
	"net/http"

	"github.com/desertthunder/waitroom/internal/tasks"
)

// StateSource provides the view served on /state. [tasks.Engine] implements it.
type StateSource interface {
	View() tasks.View
}

// StatusHandler serves liveness and the current display state.
type StatusHandler struct {
	source StateSource
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(source StateSource) *StatusHandler {
	return &StatusHandler{source: source}
}

// Routes implements [Handler].
func (h *StatusHandler) Routes() []string {
	return []string{"GET /healthz", "GET /state"}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/healthz":
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case "/state":
		writeJSON(w, http.StatusOK, h.source.View())
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
