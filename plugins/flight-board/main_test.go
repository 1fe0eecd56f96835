package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(t *testing.T, action, config string) *strings.Reader {
	t.Helper()
	body := map[string]interface{}{
		"action":     action,
		"gesture":    "shaka",
		"emoji":      "🤙",
		"confidence": 0.9,
		"is_new":     true,
		"timestamp":  "2025-12-05T18:00:00Z",
	}
	if config != "" {
		body["config"] = json.RawMessage(config)
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return strings.NewReader(string(data))
}

func TestRun_PostsToBoard(t *testing.T) {
	var got boardAction
	var auth string
	board := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/actions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"screen":"arrivals","page":1}`))
	}))
	defer board.Close()

	cfg := `{"board_url":"` + board.URL + `/","token":"s3cret","airport":"SFO"}`
	resp := run(context.Background(), resty.New(), request(t, "show_arrivals", cfg))

	require.True(t, resp.Success, resp.Error)
	assert.JSONEq(t, `{"screen":"arrivals","page":1}`, string(resp.Data))

	assert.Equal(t, "show_arrivals", got.Action)
	assert.Equal(t, "shaka", got.Gesture)
	assert.Equal(t, "SFO", got.Airport)
	assert.True(t, got.IsNew)
	assert.True(t, got.Timestamp.Equal(time.Date(2025, 12, 5, 18, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Bearer s3cret", auth)
}

func TestRun_BoardError(t *testing.T) {
	board := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "board offline", http.StatusServiceUnavailable)
	}))
	defer board.Close()

	resp := run(context.Background(), resty.New(), request(t, "next_page", `{"board_url":"`+board.URL+`"}`))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "503")
	assert.Contains(t, resp.Error, "board offline")
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name   string
		in     *strings.Reader
		errSub string
	}{
		{"bad json", strings.NewReader("{"), "decode request"},
		{"unknown action", request(t, "launch_rocket", `{"board_url":"http://x"}`), "unknown action"},
		{"no config", request(t, "confirm", ""), "board_url"},
		{"empty url", request(t, "confirm", `{"board_url":""}`), "board_url"},
		{"bad config", request(t, "confirm", `[1]`), "invalid config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := run(context.Background(), resty.New(), tt.in)
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Error, tt.errSub)
		})
	}
}
