package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/homecoming/internal/store"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 1000
)

// EventHandler serves the confirmed-event log.
type EventHandler struct {
	store *store.Store
}

// NewEventHandler creates a new EventHandler with the given store.
func NewEventHandler(s *store.Store) *EventHandler {
	return &EventHandler{store: s}
}

type eventResponse struct {
	ID         string  `json:"id"`
	Gesture    string  `json:"gesture"`
	Emoji      string  `json:"emoji"`
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
	IsNew      bool    `json:"is_new"`
	Timestamp  string  `json:"timestamp"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
}

// ServeHTTP handles GET /api/events?limit=N, newest first.
func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultEventLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxEventLimit)
	}

	events, err := h.store.Events().Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	response := listEventsResponse{Events: make([]eventResponse, 0, len(events))}
	for _, e := range events {
		response.Events = append(response.Events, eventResponse{
			ID:         e.ID,
			Gesture:    e.Gesture,
			Emoji:      e.Emoji,
			Action:     e.Action,
			Confidence: e.Confidence,
			IsNew:      e.IsNew,
			Timestamp:  e.OccurredAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
