// Package api provides the JSON handlers behind the board's HTTP API.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/homecoming/internal/gesture"
	"github.com/ayusman/homecoming/internal/store"
)

const timeLayout = time.RFC3339

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// GestureHandler serves the recognizable gestures. With a store it also
// reports how often each one has been confirmed.
type GestureHandler struct {
	store *store.Store
}

// NewGestureHandler creates a GestureHandler. s may be nil.
func NewGestureHandler(s *store.Store) *GestureHandler {
	return &GestureHandler{store: s}
}

type gestureResponse struct {
	Name        string  `json:"name"`
	Emoji       string  `json:"emoji"`
	Description string  `json:"description"`
	Action      string  `json:"action"`
	Confidence  float64 `json:"confidence"`
	Confirmed   int     `json:"confirmed"`
}

type listGesturesResponse struct {
	Gestures []gestureResponse `json:"gestures"`
}

// ServeHTTP handles GET /api/gestures and GET /api/gestures/{name}.
func (h *GestureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var counts map[string]int
	if h.store != nil {
		var err error
		if counts, err = h.store.Events().CountByGesture(); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to count events")
			return
		}
	}

	name := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/gestures"), "/")
	if name != "" {
		rule, ok := gesture.Lookup(gesture.Name(name))
		if !ok {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeJSON(w, http.StatusOK, toGestureResponse(rule, counts))
		return
	}

	rules := gesture.AllRules()
	response := listGesturesResponse{Gestures: make([]gestureResponse, 0, len(rules))}
	for _, rule := range rules {
		response.Gestures = append(response.Gestures, toGestureResponse(rule, counts))
	}
	writeJSON(w, http.StatusOK, response)
}

func toGestureResponse(r gesture.Rule, counts map[string]int) gestureResponse {
	return gestureResponse{
		Name:        string(r.Name),
		Emoji:       r.Emoji,
		Description: r.Description,
		Action:      r.Action,
		Confidence:  r.Confidence,
		Confirmed:   counts[string(r.Name)],
	}
}
