package gesture

import (
	"math"
	"time"
)

// Stability defaults.
const (
	DefaultHistorySize         = 5
	DefaultMinSamples          = 3
	DefaultMajorityRatio       = 0.6
	DefaultConfidenceThreshold = 0.8
	DefaultDebounceInterval    = 300 * time.Millisecond
)

// FilterConfig tunes a Filter. Fields that are zero or negative take the
// defaults, so the zero value is DefaultFilterConfig. MinSamples never
// exceeds HistorySize.
type FilterConfig struct {
	// HistorySize is the capacity of the rolling history.
	HistorySize int

	// MinSamples is the history length below which nothing is confirmed.
	MinSamples int

	// MajorityRatio is the share of the history a gesture must hold,
	// rounded up to whole frames.
	MajorityRatio float64

	// ConfidenceThreshold is the minimum rule confidence to confirm.
	ConfidenceThreshold float64

	// DebounceInterval is the minimum time between two confirmations of
	// the same unchanged gesture.
	DebounceInterval time.Duration
}

// DefaultFilterConfig returns the stock tuning.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		HistorySize:         DefaultHistorySize,
		MinSamples:          DefaultMinSamples,
		MajorityRatio:       DefaultMajorityRatio,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		DebounceInterval:    DefaultDebounceInterval,
	}
}

// withDefaults fills unset fields and clamps MinSamples so a short
// history can still confirm.
func (c FilterConfig) withDefaults() FilterConfig {
	d := DefaultFilterConfig()
	if c.HistorySize <= 0 {
		c.HistorySize = d.HistorySize
	}
	if c.MinSamples <= 0 {
		c.MinSamples = d.MinSamples
	}
	if c.MajorityRatio <= 0 {
		c.MajorityRatio = d.MajorityRatio
	}
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = d.ConfidenceThreshold
	}
	if c.DebounceInterval <= 0 {
		c.DebounceInterval = d.DebounceInterval
	}
	if c.MinSamples > c.HistorySize {
		c.MinSamples = c.HistorySize
	}
	return c
}

// Event is a confirmed gesture.
type Event struct {
	Name        Name      `json:"gesture"`
	Emoji       string    `json:"emoji"`
	Description string    `json:"description"`
	Action      string    `json:"action"`
	Confidence  float64   `json:"confidence"`
	Timestamp   time.Time `json:"timestamp"`

	// IsNew is true when the gesture differs from the previously
	// confirmed one, or when nothing was confirmed before.
	IsNew bool `json:"is_new"`
}

// Filter turns per-frame candidates into confirmed events. It is driven
// from a single per-frame path and is not safe for concurrent use.
type Filter struct {
	cfg     FilterConfig
	history []*Candidate

	lastName Name
	lastAt   time.Time
}

// NewFilter returns an empty Filter. Zero fields of cfg take defaults.
func NewFilter(cfg FilterConfig) *Filter {
	cfg = cfg.withDefaults()
	return &Filter{
		cfg:     cfg,
		history: make([]*Candidate, 0, cfg.HistorySize),
	}
}

// Config returns the effective configuration.
func (f *Filter) Config() FilterConfig {
	return f.cfg
}

// Reset clears the history and forgets the last confirmation.
func (f *Filter) Reset() {
	f.history = f.history[:0]
	f.lastName = ""
	f.lastAt = time.Time{}
}

// History returns the gesture names currently held, oldest first.
func (f *Filter) History() []Name {
	names := make([]Name, len(f.history))
	for i, c := range f.history {
		names[i] = c.Name
	}
	return names
}

// LastConfirmed returns the last confirmed gesture and when it was
// confirmed. The name is empty before the first confirmation.
func (f *Filter) LastConfirmed() (Name, time.Time) {
	return f.lastName, f.lastAt
}

// Threshold returns how many history entries a gesture needs when the
// history holds n entries.
func (f *Filter) Threshold(n int) int {
	return int(math.Ceil(float64(n) * f.cfg.MajorityRatio))
}

// Process feeds one frame's candidate, nil meaning no hand or no matching
// pose, and reports whether a gesture was confirmed at now.
func (f *Filter) Process(c *Candidate, now time.Time) (Event, bool) {
	if c == nil {
		// Lost tracking invalidates whatever was accumulating.
		f.history = f.history[:0]
		return Event{}, false
	}

	if len(f.history) == f.cfg.HistorySize {
		copy(f.history, f.history[1:])
		f.history = f.history[:len(f.history)-1]
	}
	f.history = append(f.history, c)

	if len(f.history) < f.cfg.MinSamples {
		return Event{}, false
	}

	stable := f.majority()
	if stable == nil || stable.Confidence < f.cfg.ConfidenceThreshold {
		return Event{}, false
	}

	changed := stable.Name != f.lastName
	if !changed && now.Sub(f.lastAt) <= f.cfg.DebounceInterval {
		return Event{}, false
	}

	f.lastName = stable.Name
	f.lastAt = now

	return Event{
		Name:        stable.Name,
		Emoji:       stable.Emoji,
		Description: stable.Description,
		Action:      stable.Action,
		Confidence:  stable.Confidence,
		Timestamp:   now,
		IsNew:       changed,
	}, true
}

// majority returns the most recent candidate of the gesture that meets the
// threshold, or nil. Ties (only possible with MajorityRatio <= 0.5) go to
// the gesture seen most recently.
func (f *Filter) majority() *Candidate {
	counts := make(map[Name]int, len(f.history))
	latest := make(map[Name]int, len(f.history))
	for i, c := range f.history {
		counts[c.Name]++
		latest[c.Name] = i
	}

	need := f.Threshold(len(f.history))
	best := -1
	for name, n := range counts {
		if n < need {
			continue
		}
		i := latest[name]
		if best < 0 {
			best = i
			continue
		}
		bn := counts[f.history[best].Name]
		if n > bn || (n == bn && i > best) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return f.history[best]
}
