// Package tray provides the desktop tray menu for homecoming.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/homecoming/internal/gesture"
)

// Tray is the tray indicator. It shows whether detection is on and the
// last confirmed gesture, and implements app.EventSink.
type Tray struct {
	onToggle func(enabled bool)
	onOpen   func()
	onQuit   func()
	enabled  bool
	last     string
	mu       sync.RWMutex

	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
}

// New creates a Tray showing the given detection state.
func New(enabled bool) *Tray {
	return &Tray{
		enabled: enabled,
		last:    lastLabel(nil),
	}
}

// OnToggle sets the callback run when the user flips detection.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpen sets the callback for the "Open board" item.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback run before the tray exits.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray loop. It blocks until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit ends Run.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Homecoming")
	systray.SetTooltip("Homecoming gesture board")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleLabel(t.enabled), "Toggle gesture detection")
	systray.AddSeparator()
	t.menuLastGesture = systray.AddMenuItem(t.last, "Last confirmed gesture")
	t.menuLastGesture.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open board...", "Open the board in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Homecoming")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleLabel(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Outside the lock: the callback may publish back into the tray.
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// Publish shows ev as the last gesture.
func (t *Tray) Publish(ev gesture.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = lastLabel(&ev)
	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(t.last)
	}
}

// LastGesture returns the text of the last-gesture item.
func (t *Tray) LastGesture() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleLabel(enabled bool) string {
	if enabled {
		return "● Detection on"
	}
	return "○ Detection off"
}

func lastLabel(ev *gesture.Event) string {
	if ev == nil {
		return "Last: none"
	}
	if ev.Emoji == "" {
		return "Last: " + string(ev.Name)
	}
	return "Last: " + ev.Emoji + " " + string(ev.Name)
}
