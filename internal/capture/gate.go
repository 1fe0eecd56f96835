package capture

import "time"

// Gate switches capture between an idle and an active cadence. Motion
// makes it active; it falls back to idle once no motion has been seen for
// the idle timeout.
type Gate struct {
	IdleFPS     int
	ActiveFPS   int
	IdleTimeout time.Duration

	active     bool
	lastMotion time.Time
}

// NewGate returns an idle Gate.
func NewGate(idleFPS, activeFPS int, idleTimeout time.Duration) *Gate {
	return &Gate{
		IdleFPS:     idleFPS,
		ActiveFPS:   activeFPS,
		IdleTimeout: idleTimeout,
	}
}

// Observe records whether the frame at now showed motion and reports
// whether the mode changed.
func (g *Gate) Observe(motion bool, now time.Time) (changed bool) {
	if motion {
		g.lastMotion = now
		if !g.active {
			g.active = true
			return true
		}
		return false
	}

	if g.active && now.Sub(g.lastMotion) > g.IdleTimeout {
		g.active = false
		return true
	}
	return false
}

// Active reports whether the gate is in the active cadence.
func (g *Gate) Active() bool {
	return g.active
}

// FPS returns the frame rate for the current mode.
func (g *Gate) FPS() int {
	if g.active {
		return g.ActiveFPS
	}
	return g.IdleFPS
}

// Interval returns the frame period for the current mode.
func (g *Gate) Interval() time.Duration {
	fps := g.FPS()
	if fps <= 0 {
		fps = 1
	}
	return time.Second / time.Duration(fps)
}
