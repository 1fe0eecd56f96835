package gesture

import "github.com/ayusman/homecoming/internal/detector"

// ThumbSpreadThreshold is the minimum horizontal tip-to-IP distance for the
// thumb to count as extended. The thumb opens sideways, not upward.
const ThumbSpreadThreshold = 0.04

// FingerState records which fingers are held out in one frame.
type FingerState struct {
	Thumb  bool `json:"thumb"`
	Index  bool `json:"index"`
	Middle bool `json:"middle"`
	Ring   bool `json:"ring"`
	Pinky  bool `json:"pinky"`
}

// Fingers computes the finger state of hand.
//
// A non-thumb finger is extended when its tip sits strictly above both its
// PIP joint and its MCP base (smaller Y).
func Fingers(hand *detector.HandLandmarks) FingerState {
	p := &hand.Points
	return FingerState{
		Thumb:  HorizontalGap(p[detector.ThumbTip], p[detector.ThumbIP]) > ThumbSpreadThreshold,
		Index:  pointsUp(hand, detector.Index),
		Middle: pointsUp(hand, detector.Middle),
		Ring:   pointsUp(hand, detector.Ring),
		Pinky:  pointsUp(hand, detector.Pinky),
	}
}

func pointsUp(hand *detector.HandLandmarks, f detector.Finger) bool {
	j := f.Joints()
	tip := hand.Points[j.Tip].Y
	return tip < hand.Points[j.PIP].Y && tip < hand.Points[j.MCP].Y
}

// Count returns how many fingers are extended.
func (s FingerState) Count() int {
	n := 0
	for _, up := range [...]bool{s.Thumb, s.Index, s.Middle, s.Ring, s.Pinky} {
		if up {
			n++
		}
	}
	return n
}

// AllExtended reports whether every finger is out.
func (s FingerState) AllExtended() bool {
	return s.Count() == 5
}

// AllCurled reports whether every finger is folded.
func (s FingerState) AllCurled() bool {
	return s.Count() == 0
}
