// Command flight-board forwards confirmed gestures to the arrivals board's
// HTTP endpoint.
//
// It reads a plugin request on stdin, POSTs {board_url}/api/actions and
// writes a plugin response on stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ayusman/homecoming/internal/plugin"
)

const defaultTimeout = 3 * time.Second

// Config is the binding config this plugin understands.
type Config struct {
	BoardURL string `json:"board_url"`
	Token    string `json:"token"`
	// Airport is passed through so one board can serve several terminals.
	Airport string `json:"airport"`
}

// boardAction is the body the board expects.
type boardAction struct {
	Action     string    `json:"action"`
	Gesture    string    `json:"gesture"`
	Emoji      string    `json:"emoji,omitempty"`
	Confidence float64   `json:"confidence"`
	IsNew      bool      `json:"is_new"`
	Airport    string    `json:"airport,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// boardReply is what the board answers on success.
type boardReply struct {
	Screen string `json:"screen"`
	Page   int    `json:"page"`
}

var actions = map[string]bool{
	"show_arrivals":   true,
	"show_departures": true,
	"refresh_board":   true,
	"next_page":       true,
	"previous_page":   true,
	"select_flight":   true,
	"show_details":    true,
	"confirm":         true,
}

func main() {
	client := resty.New().SetTimeout(defaultTimeout)
	resp := run(context.Background(), client, os.Stdin)
	json.NewEncoder(os.Stdout).Encode(resp)
}

func failure(format string, args ...interface{}) plugin.Response {
	return plugin.Response{Success: false, Error: fmt.Sprintf(format, args...)}
}

func run(ctx context.Context, client *resty.Client, in io.Reader) plugin.Response {
	var req plugin.Request
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return failure("failed to decode request: %v", err)
	}

	if !actions[req.Action] {
		return failure("unknown action: %s", req.Action)
	}

	var cfg Config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return failure("invalid config: %v", err)
		}
	}
	if cfg.BoardURL == "" {
		return failure("board_url is not configured")
	}

	body := boardAction{
		Action:     req.Action,
		Gesture:    req.Gesture,
		Emoji:      req.Emoji,
		Confidence: req.Confidence,
		IsNew:      req.IsNew,
		Airport:    cfg.Airport,
		Timestamp:  req.Timestamp,
	}

	var reply boardReply
	r := client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&reply)
	if cfg.Token != "" {
		r.SetAuthToken(cfg.Token)
	}

	res, err := r.Post(strings.TrimRight(cfg.BoardURL, "/") + "/api/actions")
	if err != nil {
		return failure("board request failed: %v", err)
	}
	if res.IsError() {
		return failure("board returned %s: %s", res.Status(), strings.TrimSpace(res.String()))
	}

	data, err := json.Marshal(reply)
	if err != nil {
		return failure("encode reply: %v", err)
	}
	return plugin.Response{Success: true, Data: data}
}
