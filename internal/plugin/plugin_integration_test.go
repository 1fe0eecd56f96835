package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPlugin_FlightBoard_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	// Requires: go build -o plugins/flight-board/flight-board ./plugins/flight-board
	pluginDir := findPluginDir("flight-board")
	if pluginDir == "" {
		t.Skip("flight-board plugin not built")
	}

	mgr := NewManager(filepath.Dir(pluginDir))
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	plug, err := mgr.Resolve("flight-board", "show_arrivals")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	executor := NewExecutor(5 * time.Second)

	// Without a board URL the plugin reports a failure instead of posting.
	req := &Request{
		Action:  "show_arrivals",
		Gesture: "shaka",
		Config:  []byte(`{"board_url":""}`),
	}

	resp, err := executor.Execute(context.Background(), plug, req)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if resp.Success {
		t.Error("expected failure for empty board_url")
	}
}

func findPluginDir(name string) string {
	candidates := []string{
		filepath.Join("../../plugins", name),
		filepath.Join("../../../plugins", name),
	}

	for _, dir := range candidates {
		if _, err := os.Stat(filepath.Join(dir, "plugin.json")); err != nil {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return dir
		}
	}
	return ""
}
