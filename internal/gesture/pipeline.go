package gesture

import (
	"time"

	"github.com/ayusman/homecoming/internal/detector"
)

// Pipeline runs a Classifier and a Filter over a detector's per-frame
// output, plus an optional SwipeTracker. Only the first reported hand is
// evaluated; a second hand would need its own Filter keyed by hand
// identity.
type Pipeline struct {
	classifier *Classifier
	filter     *Filter
	swipes     *SwipeTracker
}

// NewPipeline chains c and f. Nil arguments get the built-in rules and the
// default stability tuning. Swipes are off until EnableSwipes.
func NewPipeline(c *Classifier, f *Filter) *Pipeline {
	if c == nil {
		c = NewClassifier()
	}
	if f == nil {
		f = NewFilter(DefaultFilterConfig())
	}
	return &Pipeline{classifier: c, filter: f}
}

// EnableSwipes turns on swipe recognition with cfg.
func (p *Pipeline) EnableSwipes(cfg SwipeConfig) {
	p.swipes = NewSwipeTracker(cfg)
}

// ProcessFrame classifies the frame's hand and feeds the result to the
// filter. An empty hands slice counts as a lost hand. A swipe completed
// on this frame is returned in place of any pose confirmation; the
// filter still sees the frame.
func (p *Pipeline) ProcessFrame(hands []detector.HandLandmarks, now time.Time) (Event, bool) {
	var hand *detector.HandLandmarks
	var c *Candidate
	if len(hands) > 0 {
		hand = &hands[0]
		c = p.classifier.Classify(hand)
	}
	ev, ok := p.filter.Process(c, now)

	if p.swipes != nil {
		if s := p.swipes.Observe(hand, now); s != nil {
			return Event{
				Name:        s.Name,
				Emoji:       s.Emoji,
				Description: s.Description,
				Action:      s.Action,
				Confidence:  s.Confidence,
				Timestamp:   now,
				IsNew:       true,
			}, true
		}
	}
	return ev, ok
}

// Reset clears the filter and swipe state.
func (p *Pipeline) Reset() {
	p.filter.Reset()
	if p.swipes != nil {
		p.swipes.Reset()
	}
}

// Classifier returns the pipeline's classifier.
func (p *Pipeline) Classifier() *Classifier {
	return p.classifier
}

// Filter returns the pipeline's filter.
func (p *Pipeline) Filter() *Filter {
	return p.filter
}

// Swipes returns the swipe tracker, or nil when swipes are off.
func (p *Pipeline) Swipes() *SwipeTracker {
	return p.swipes
}
