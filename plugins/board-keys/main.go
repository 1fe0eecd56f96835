// Command board-keys drives a board shown in a kiosk browser by sending
// key presses for each action. macOS uses AppleScript, Linux uses xdotool.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/ayusman/homecoming/internal/plugin"
)

// Keystroke is one key press with optional modifiers.
type Keystroke struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"` // command, option, control, shift
}

// Config lets a binding override the key sent for any action.
type Config struct {
	Keys map[string]Keystroke `json:"keys"`
}

// defaultKeys matches the board's own keyboard shortcuts.
var defaultKeys = map[string]Keystroke{
	"show_arrivals":   {Key: "a"},
	"show_departures": {Key: "d"},
	"refresh_board":   {Key: "r", Modifiers: []string{"command"}},
	"next_page":       {Key: "space"},
	"previous_page":   {Key: "left"},
	"select_flight":   {Key: "return"},
	"show_details":    {Key: "i"},
	"confirm":         {Key: "return"},
}

var appleModifiers = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

// AppleScript key codes for keys that keystroke cannot type.
var appleKeyCodes = map[string]int{
	"return": 36,
	"space":  49,
	"escape": 53,
	"left":   123,
	"right":  124,
}

var xdotoolModifiers = map[string]string{
	"command": "super",
	"cmd":     "super",
	"option":  "alt",
	"alt":     "alt",
	"control": "ctrl",
	"ctrl":    "ctrl",
	"shift":   "shift",
}

var xdotoolKeys = map[string]string{
	"return": "Return",
	"space":  "space",
	"escape": "Escape",
	"left":   "Left",
	"right":  "Right",
}

func main() {
	var req plugin.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}

	ks, err := resolve(req)
	if err != nil {
		writeResponse(err)
		return
	}

	name, args := command(runtime.GOOS, ks)
	if name == "" {
		writeResponse(fmt.Errorf("unsupported platform: %s", runtime.GOOS))
		return
	}

	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		writeResponse(fmt.Errorf("action %s failed: %w: %s", req.Action, err, strings.TrimSpace(string(out))))
		return
	}
	writeResponse(nil)
}

// resolve picks the keystroke for req's action, binding config first.
func resolve(req plugin.Request) (Keystroke, error) {
	var cfg Config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return Keystroke{}, fmt.Errorf("invalid config: %w", err)
		}
	}

	ks, ok := cfg.Keys[req.Action]
	if !ok {
		ks, ok = defaultKeys[req.Action]
	}
	if !ok {
		return Keystroke{}, fmt.Errorf("unknown action: %s", req.Action)
	}
	if ks.Key == "" {
		return Keystroke{}, fmt.Errorf("no key for action %s", req.Action)
	}
	return ks, nil
}

// command returns the program and arguments that send ks on goos.
func command(goos string, ks Keystroke) (string, []string) {
	switch goos {
	case "darwin":
		return "osascript", []string{"-e", appleScript(ks)}
	case "linux":
		return "xdotool", []string{"key", xdotoolChord(ks)}
	default:
		return "", nil
	}
}

func appleScript(ks Keystroke) string {
	press := fmt.Sprintf(`keystroke "%s"`, ks.Key)
	if code, ok := appleKeyCodes[strings.ToLower(ks.Key)]; ok {
		press = fmt.Sprintf("key code %d", code)
	}

	var mods []string
	for _, m := range ks.Modifiers {
		if am, ok := appleModifiers[strings.ToLower(m)]; ok {
			mods = append(mods, am)
		}
	}

	if len(mods) == 0 {
		return `tell application "System Events" to ` + press
	}
	return fmt.Sprintf(`tell application "System Events" to %s using {%s}`, press, strings.Join(mods, ", "))
}

func xdotoolChord(ks Keystroke) string {
	var parts []string
	for _, m := range ks.Modifiers {
		if xm, ok := xdotoolModifiers[strings.ToLower(m)]; ok {
			parts = append(parts, xm)
		}
	}
	key := ks.Key
	if xk, ok := xdotoolKeys[strings.ToLower(key)]; ok {
		key = xk
	}
	return strings.Join(append(parts, key), "+")
}

func writeResponse(err error) {
	resp := plugin.Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
