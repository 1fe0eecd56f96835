package gesture

import (
	"math"
	"time"

	"github.com/ayusman/homecoming/internal/detector"
)

// Motion gestures. They are recognized from how the hand center travels
// across frames rather than from a single pose.
const (
	SwipeLeft  Name = "swipe_left"
	SwipeRight Name = "swipe_right"
)

// motionRules describe the motion gestures. Their Match is nil: the
// SwipeTracker recognizes them, not the Classifier.
var motionRules = []Rule{
	{Name: SwipeLeft, Emoji: "👈", Description: "Swipe left", Action: "previous_page", Confidence: 0.90},
	{Name: SwipeRight, Emoji: "👉", Description: "Swipe right", Action: "next_page", Confidence: 0.90},
}

// MotionRules returns the motion gestures.
func MotionRules() []Rule {
	out := make([]Rule, len(motionRules))
	copy(out, motionRules)
	return out
}

// AllRules returns the pose rules followed by the motion gestures.
func AllRules() []Rule {
	return append(Rules(), motionRules...)
}

// Box is an axis-aligned rectangle in normalized frame coordinates.
type Box struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns MaxX - MinX.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// HandCenter returns the mean of all landmarks.
func HandCenter(hand *detector.HandLandmarks) detector.Point3D {
	var c detector.Point3D
	for _, p := range hand.Points {
		c.X += p.X
		c.Y += p.Y
		c.Z += p.Z
	}
	n := float64(len(hand.Points))
	return detector.Point3D{X: c.X / n, Y: c.Y / n, Z: c.Z / n}
}

// BoundingBox returns the smallest box holding every landmark.
func BoundingBox(hand *detector.HandLandmarks) Box {
	b := Box{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, p := range hand.Points {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// PalmUp reports whether the middle finger base is above the wrist, i.e.
// the hand points up in the frame.
func PalmUp(hand *detector.HandLandmarks) bool {
	return hand.Points[detector.MiddleMCP].Y < hand.Points[detector.Wrist].Y
}

// Swipe defaults.
const (
	DefaultSwipeHistorySize = 30
	DefaultSwipeWindow      = 500 * time.Millisecond
	DefaultSwipeMinDistance = 0.25
	DefaultSwipeMaxDrift    = 0.10
	DefaultSwipeCooldown    = 800 * time.Millisecond
)

// SwipeConfig tunes a SwipeTracker. Zero fields take the defaults, except
// Cooldown: zero turns it off.
type SwipeConfig struct {
	// HistorySize bounds the number of remembered hand centers.
	HistorySize int

	// Window is how far back a swipe may have started.
	Window time.Duration

	// MinDistance is the horizontal travel, in frame widths, that makes
	// a swipe.
	MinDistance float64

	// MaxDrift is the largest vertical travel allowed during a swipe.
	MaxDrift float64

	// Cooldown is the quiet time after a swipe before the next one.
	// Negative values count as zero.
	Cooldown time.Duration
}

// DefaultSwipeConfig returns the stock swipe tuning.
func DefaultSwipeConfig() SwipeConfig {
	return SwipeConfig{
		HistorySize: DefaultSwipeHistorySize,
		Window:      DefaultSwipeWindow,
		MinDistance: DefaultSwipeMinDistance,
		MaxDrift:    DefaultSwipeMaxDrift,
		Cooldown:    DefaultSwipeCooldown,
	}
}

func (c SwipeConfig) withDefaults() SwipeConfig {
	d := DefaultSwipeConfig()
	if c.HistorySize <= 0 {
		c.HistorySize = d.HistorySize
	}
	if c.Window <= 0 {
		c.Window = d.Window
	}
	if c.MinDistance <= 0 {
		c.MinDistance = d.MinDistance
	}
	if c.MaxDrift <= 0 {
		c.MaxDrift = d.MaxDrift
	}
	if c.Cooldown < 0 {
		c.Cooldown = 0
	}
	return c
}

type centerSample struct {
	at     time.Time
	center detector.Point3D
}

// SwipeTracker recognizes horizontal swipes from the hand center over a
// bounded history. Directions are in image coordinates: swipe_right means
// X grew. It is not safe for concurrent use.
type SwipeTracker struct {
	cfg     SwipeConfig
	samples []centerSample
	lastAt  time.Time
}

// NewSwipeTracker creates a SwipeTracker.
func NewSwipeTracker(cfg SwipeConfig) *SwipeTracker {
	cfg = cfg.withDefaults()
	return &SwipeTracker{
		cfg:     cfg,
		samples: make([]centerSample, 0, cfg.HistorySize),
	}
}

// Config returns the effective configuration.
func (s *SwipeTracker) Config() SwipeConfig {
	return s.cfg
}

// Reset forgets the position history and the cooldown.
func (s *SwipeTracker) Reset() {
	s.samples = s.samples[:0]
	s.lastAt = time.Time{}
}

// Len returns the number of remembered centers.
func (s *SwipeTracker) Len() int {
	return len(s.samples)
}

// Velocity returns the center's speed in frame widths and heights per
// second between the last two samples.
func (s *SwipeTracker) Velocity() (vx, vy float64) {
	n := len(s.samples)
	if n < 2 {
		return 0, 0
	}
	a, b := s.samples[n-2], s.samples[n-1]
	dt := b.at.Sub(a.at).Seconds()
	if dt <= 0 {
		return 0, 0
	}
	return (b.center.X - a.center.X) / dt, (b.center.Y - a.center.Y) / dt
}

// Observe records the hand for now and returns a swipe candidate when the
// center has travelled far enough within the window. A nil hand clears the
// history: a swipe must be tracked continuously.
func (s *SwipeTracker) Observe(hand *detector.HandLandmarks, now time.Time) *Candidate {
	if hand == nil {
		s.samples = s.samples[:0]
		return nil
	}

	if len(s.samples) == s.cfg.HistorySize {
		copy(s.samples, s.samples[1:])
		s.samples = s.samples[:len(s.samples)-1]
	}
	cur := centerSample{at: now, center: HandCenter(hand)}
	s.samples = append(s.samples, cur)

	if !s.lastAt.IsZero() && now.Sub(s.lastAt) < s.cfg.Cooldown {
		return nil
	}

	for _, old := range s.samples[:len(s.samples)-1] {
		if now.Sub(old.at) > s.cfg.Window {
			continue
		}
		dx := cur.center.X - old.center.X
		dy := cur.center.Y - old.center.Y
		if math.Abs(dx) < s.cfg.MinDistance || math.Abs(dy) > s.cfg.MaxDrift {
			continue
		}

		name := SwipeRight
		if dx < 0 {
			name = SwipeLeft
		}
		s.lastAt = now
		// Start over so the same stroke is not matched twice.
		s.samples = append(s.samples[:0], cur)
		r, _ := Lookup(name)
		return r.candidate()
	}
	return nil
}
