package feed

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler serves the live activity feed
type Handler struct {
	feed *Feed
}

// NewHandler creates a new feed handler
func NewHandler(feed *Feed) *Handler {
	return &Handler{feed: feed}
}

// Routes registers the feed routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListRecent)
	return r
}

// ListRecent returns the retained events, newest first
func (h *Handler) ListRecent(w http.ResponseWriter, r *http.Request) {
	recent := h.feed.Recent()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"data":  recent,
		"total": len(recent),
	})
}
