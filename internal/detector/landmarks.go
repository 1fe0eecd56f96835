// Package detector provides hand landmark types and the adapters that
// obtain them from an external hand tracker.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is one landmark. X and Y are normalized frame coordinates in
// [0,1] with Y growing downward; Z is depth relative to the wrist.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one detected hand in one frame.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Finger identifies one of the five digits.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
)

var fingerNames = [...]string{"thumb", "index", "middle", "ring", "pinky"}

func (f Finger) String() string {
	if f < Thumb || f > Pinky {
		return "unknown"
	}
	return fingerNames[f]
}

// FingerJoints lists the landmark indices of a finger from base to tip.
type FingerJoints struct {
	MCP int
	PIP int
	DIP int
	Tip int
}

// Joints returns the landmark indices for the finger. The thumb has no
// DIP joint: its MCP slot holds ThumbMCP and both PIP and DIP hold ThumbIP.
// ThumbCMC is not used.
func (f Finger) Joints() FingerJoints {
	switch f {
	case Thumb:
		return FingerJoints{MCP: ThumbMCP, PIP: ThumbIP, DIP: ThumbIP, Tip: ThumbTip}
	case Index:
		return FingerJoints{MCP: IndexMCP, PIP: IndexPIP, DIP: IndexDIP, Tip: IndexTip}
	case Middle:
		return FingerJoints{MCP: MiddleMCP, PIP: MiddlePIP, DIP: MiddleDIP, Tip: MiddleTip}
	case Ring:
		return FingerJoints{MCP: RingMCP, PIP: RingPIP, DIP: RingDIP, Tip: RingTip}
	default:
		return FingerJoints{MCP: PinkyMCP, PIP: PinkyPIP, DIP: PinkyDIP, Tip: PinkyTip}
	}
}

// Tip returns the fingertip landmark of the hand for f.
func (h *HandLandmarks) Tip(f Finger) Point3D {
	return h.Points[f.Joints().Tip]
}
