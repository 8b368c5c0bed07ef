package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/amaumene/browsefilms/internal/catalog"
	"github.com/sirupsen/logrus"
)

// SessionCounter reports how many sessions are held
type SessionCounter interface {
	Count() int
}

// StatusHandler handles status requests
type StatusHandler struct {
	sessions SessionCounter
	catalog  *catalog.Catalog
	logger   *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(sessions SessionCounter, cat *catalog.Catalog, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		sessions: sessions,
		catalog:  cat,
		logger:   logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	ActiveSessions int              `json:"active_sessions"`
	Categories     []CategoryStatus `json:"categories"`
}

// CategoryStatus describes one configured category
type CategoryStatus struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GenreID int    `json:"genre_id"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := StatusResponse{
		ActiveSessions: h.sessions.Count(),
		Categories:     make([]CategoryStatus, 0, h.catalog.Len()),
	}
	for _, c := range h.catalog.All() {
		response.Categories = append(response.Categories, CategoryStatus{
			ID:      c.ID,
			Name:    c.Name,
			GenreID: c.GenreID,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("Failed to encode status")
	}
}
