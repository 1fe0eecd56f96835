// Package gesture turns per-frame hand landmarks into stable, debounced
// gesture events.
//
// A Classifier maps one frame's landmarks to at most one Candidate using a
// fixed rule table. A Filter smooths the candidate stream over a short
// rolling history and confirms a gesture only once it dominates recent
// frames. Pipeline chains the two for a detector's per-frame output.
package gesture

import "github.com/ayusman/homecoming/internal/detector"

// Name identifies a recognized gesture.
type Name string

// Recognized gestures.
const (
	Shaka      Name = "shaka"
	OKSign     Name = "ok_sign"
	Wave       Name = "wave"
	ClosedFist Name = "closed_fist"
	VulcanSign Name = "vulcan_sign"
	PeaceSign  Name = "peace_sign"
	RockOn     Name = "rock_on"
)

// Thresholds in normalized frame units.
const (
	PinchThreshold  = 0.06 // thumb tip to index tip
	SpreadThreshold = 0.05 // middle tip to ring tip, horizontal
)

// Candidate is the winning rule for one frame.
type Candidate struct {
	Name        Name    `json:"name"`
	Emoji       string  `json:"emoji"`
	Description string  `json:"description"`
	Action      string  `json:"action"`
	Confidence  float64 `json:"confidence"`
}

// Features are the per-frame measurements rules are evaluated against.
type Features struct {
	Fingers FingerState `json:"fingers"`

	// PinchDistance is the thumb-tip to index-tip distance.
	PinchDistance float64 `json:"pinch_distance"`

	// MiddleRingGap is the horizontal middle-tip to ring-tip distance.
	MiddleRingGap float64 `json:"middle_ring_gap"`

	// ThumbIndexAngle is the angle at the wrist between the thumb tip and
	// index tip, in degrees.
	ThumbIndexAngle float64 `json:"thumb_index_angle"`
}

// Rule is one entry of the classification table.
type Rule struct {
	Name        Name
	Emoji       string
	Description string
	Action      string
	Confidence  float64
	Match       func(Features) bool
}

func (r Rule) candidate() *Candidate {
	return &Candidate{
		Name:        r.Name,
		Emoji:       r.Emoji,
		Description: r.Description,
		Action:      r.Action,
		Confidence:  r.Confidence,
	}
}

// rules is evaluated in order; on equal confidence the earlier rule wins.
// vulcan_sign is a superset of wave and wins on confidence.
var rules = []Rule{
	{
		Name: Shaka, Emoji: "🤙", Description: "Shaka", Action: "show_arrivals", Confidence: 0.90,
		Match: func(f Features) bool {
			s := f.Fingers
			return s.Thumb && s.Pinky && !s.Index && !s.Middle && !s.Ring
		},
	},
	{
		Name: OKSign, Emoji: "👌", Description: "OK sign", Action: "confirm", Confidence: 0.85,
		Match: func(f Features) bool {
			s := f.Fingers
			return f.PinchDistance < PinchThreshold && s.Middle && s.Ring && s.Pinky
		},
	},
	{
		Name: Wave, Emoji: "👋", Description: "Open hand", Action: "refresh_board", Confidence: 0.80,
		Match: func(f Features) bool { return f.Fingers.AllExtended() },
	},
	{
		Name: ClosedFist, Emoji: "✊", Description: "Closed fist", Action: "select_flight", Confidence: 0.90,
		Match: func(f Features) bool { return f.Fingers.AllCurled() },
	},
	{
		Name: VulcanSign, Emoji: "🖖", Description: "Vulcan salute", Action: "show_details", Confidence: 0.85,
		Match: func(f Features) bool {
			return f.Fingers.AllExtended() && f.MiddleRingGap > SpreadThreshold
		},
	},
	{
		Name: PeaceSign, Emoji: "✌️", Description: "Peace sign", Action: "show_departures", Confidence: 0.85,
		Match: func(f Features) bool {
			s := f.Fingers
			return s.Index && s.Middle && !s.Thumb && !s.Ring && !s.Pinky
		},
	},
	{
		Name: RockOn, Emoji: "🤘", Description: "Rock on", Action: "next_page", Confidence: 0.85,
		Match: func(f Features) bool {
			s := f.Fingers
			return s.Thumb && s.Index && s.Pinky && !s.Middle && !s.Ring
		},
	},
}

// Rules returns a copy of the built-in rule table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Lookup returns the built-in pose or motion rule for name.
func Lookup(name Name) (Rule, bool) {
	for _, table := range [][]Rule{rules, motionRules} {
		for _, r := range table {
			if r.Name == name {
				return r, true
			}
		}
	}
	return Rule{}, false
}

// Classifier evaluates a rule table against single-hand landmarks. It holds
// no per-frame state and is safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a Classifier over the built-in rules.
func NewClassifier() *Classifier {
	return &Classifier{rules: rules}
}

// NewClassifierWithRules returns a Classifier over a custom table. Rules
// without a Match predicate never match.
func NewClassifierWithRules(table []Rule) *Classifier {
	return &Classifier{rules: table}
}

// Features measures hand. The input is not validated; zero-valued
// landmarks produce meaningless but finite results.
func (c *Classifier) Features(hand *detector.HandLandmarks) Features {
	p := &hand.Points
	return Features{
		Fingers:         Fingers(hand),
		PinchDistance:   Distance2D(p[detector.ThumbTip], p[detector.IndexTip]),
		MiddleRingGap:   HorizontalGap(p[detector.MiddleTip], p[detector.RingTip]),
		ThumbIndexAngle: AngleAt(p[detector.Wrist], p[detector.ThumbTip], p[detector.IndexTip]),
	}
}

// Classify returns the highest-confidence matching rule for hand, or nil
// when the pose matches nothing.
func (c *Classifier) Classify(hand *detector.HandLandmarks) *Candidate {
	if hand == nil {
		return nil
	}
	return c.classify(c.Features(hand))
}

func (c *Classifier) classify(f Features) *Candidate {
	var best *Rule
	for i := range c.rules {
		r := &c.rules[i]
		if r.Match == nil || !r.Match(f) {
			continue
		}
		if best == nil || r.Confidence > best.Confidence {
			best = r
		}
	}
	if best == nil {
		return nil
	}
	return best.candidate()
}
