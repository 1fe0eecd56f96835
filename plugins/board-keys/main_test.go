package main

import (
	"encoding/json"
	"testing"

	"github.com/ayusman/homecoming/internal/plugin"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		req     plugin.Request
		want    string
		wantErr bool
	}{
		{"default", plugin.Request{Action: "show_arrivals"}, "a", false},
		{"previous page", plugin.Request{Action: "previous_page"}, "left", false},
		{"override", plugin.Request{Action: "next_page", Config: json.RawMessage(`{"keys":{"next_page":{"key":"right"}}}`)}, "right", false},
		{"override other action keeps default", plugin.Request{Action: "show_details", Config: json.RawMessage(`{"keys":{"next_page":{"key":"right"}}}`)}, "i", false},
		{"unknown", plugin.Request{Action: "launch_rocket"}, "", true},
		{"empty key", plugin.Request{Action: "confirm", Config: json.RawMessage(`{"keys":{"confirm":{}}}`)}, "", true},
		{"bad config", plugin.Request{Action: "confirm", Config: json.RawMessage(`"nope"`)}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ks, err := resolve(tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if ks.Key != tt.want {
				t.Errorf("resolve() key = %q, want %q", ks.Key, tt.want)
			}
		})
	}
}

func TestAppleScript(t *testing.T) {
	tests := []struct {
		ks   Keystroke
		want string
	}{
		{Keystroke{Key: "a"}, `tell application "System Events" to keystroke "a"`},
		{Keystroke{Key: "r", Modifiers: []string{"Command", "bogus"}}, `tell application "System Events" to keystroke "r" using {command down}`},
		{Keystroke{Key: "space"}, `tell application "System Events" to key code 49`},
		{Keystroke{Key: "return", Modifiers: []string{"shift", "ctrl"}}, `tell application "System Events" to key code 36 using {shift down, control down}`},
	}

	for _, tt := range tests {
		if got := appleScript(tt.ks); got != tt.want {
			t.Errorf("appleScript(%+v) = %q, want %q", tt.ks, got, tt.want)
		}
	}
}

func TestCommand(t *testing.T) {
	name, args := command("linux", Keystroke{Key: "return", Modifiers: []string{"cmd"}})
	if name != "xdotool" || len(args) != 2 || args[1] != "super+Return" {
		t.Errorf("linux command = %s %v", name, args)
	}

	name, args = command("darwin", Keystroke{Key: "a"})
	if name != "osascript" || args[0] != "-e" {
		t.Errorf("darwin command = %s %v", name, args)
	}

	if name, _ := command("plan9", Keystroke{Key: "a"}); name != "" {
		t.Errorf("expected no command on plan9, got %s", name)
	}
}
