package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It returns a fixed result, or a scripted sequence of results when one is
// queued with SetSequence.
type MockDetector struct {
	mu       sync.Mutex
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	err      error
	calls    int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetSequence queues per-call results. Once drained, Detect falls back to
// the hands given to SetHands.
func (m *MockDetector) SetSequence(frames [][]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = frames
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls reports how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.sequence) > 0 {
		next := m.sequence[0]
		m.sequence = m.sequence[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Pose describes a synthetic right hand, palm toward the camera, for tests
// and demos.
type Pose struct {
	Thumb  bool
	Index  bool
	Middle bool
	Ring   bool
	Pinky  bool

	// Pinch curls the index toward the thumb so the two tips touch.
	Pinch bool

	// Spread is the horizontal gap between the middle and ring fingertips
	// when both are extended. Zero means 0.04.
	Spread float64
}

// Finger base X positions, thumb side first.
var baseX = [...]float64{0.60, 0.56, 0.50, 0.44, 0.38}

// PoseLandmarks builds landmarks for p with the wrist at (0.5, 0.85).
func PoseLandmarks(p Pose) HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}
	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.85}
	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.80}
	h.Points[ThumbMCP] = Point3D{X: baseX[Thumb], Y: 0.75}

	switch {
	case p.Pinch:
		h.Points[ThumbIP] = Point3D{X: 0.63, Y: 0.66}
		h.Points[ThumbTip] = Point3D{X: 0.62, Y: 0.60}
	case p.Thumb:
		h.Points[ThumbIP] = Point3D{X: 0.64, Y: 0.70}
		h.Points[ThumbTip] = Point3D{X: 0.70, Y: 0.66}
	default:
		h.Points[ThumbIP] = Point3D{X: 0.60, Y: 0.68, Z: -0.02}
		h.Points[ThumbTip] = Point3D{X: 0.57, Y: 0.66, Z: -0.03}
	}

	spread := p.Spread
	if spread == 0 {
		spread = 0.04
	}
	tipX := [...]float64{0, 0.55, 0.50, 0.50 - spread, 0.45 - spread}

	extended := [...]bool{p.Thumb, p.Index, p.Middle, p.Ring, p.Pinky}
	for f := Index; f <= Pinky; f++ {
		j := f.Joints()
		bx := baseX[f]
		h.Points[j.MCP] = Point3D{X: bx, Y: 0.65}

		if f == Index && p.Pinch {
			h.Points[j.PIP] = Point3D{X: 0.58, Y: 0.56, Z: -0.01}
			h.Points[j.DIP] = Point3D{X: 0.60, Y: 0.55, Z: -0.02}
			h.Points[j.Tip] = Point3D{X: 0.61, Y: 0.58, Z: -0.02}
			continue
		}

		if extended[f] {
			tx := tipX[f]
			h.Points[j.PIP] = Point3D{X: bx + (tx-bx)/3, Y: 0.53}
			h.Points[j.DIP] = Point3D{X: bx + 2*(tx-bx)/3, Y: 0.45}
			h.Points[j.Tip] = Point3D{X: tx, Y: 0.37}
			continue
		}

		h.Points[j.PIP] = Point3D{X: bx, Y: 0.60, Z: -0.03}
		h.Points[j.DIP] = Point3D{X: bx, Y: 0.64, Z: -0.04}
		h.Points[j.Tip] = Point3D{X: bx, Y: 0.68, Z: -0.03}
	}

	return h
}

// ShakaLandmarks returns thumb and pinky out, the rest curled.
func ShakaLandmarks() HandLandmarks {
	return PoseLandmarks(Pose{Thumb: true, Pinky: true})
}

// OKSignLandmarks returns thumb and index pinched with the other three up.
func OKSignLandmarks() HandLandmarks {
	return PoseLandmarks(Pose{Pinch: true, Middle: true, Ring: true, Pinky: true})
}

// OpenHandLandmarks returns all five fingers out with the fingers together.
func OpenHandLandmarks() HandLandmarks {
	return PoseLandmarks(Pose{Thumb: true, Index: true, Middle: true, Ring: true, Pinky: true})
}

// VulcanLandmarks returns an open hand split between middle and ring.
func VulcanLandmarks() HandLandmarks {
	return PoseLandmarks(Pose{Thumb: true, Index: true, Middle: true, Ring: true, Pinky: true, Spread: 0.09})
}

// FistLandmarks returns every finger curled.
func FistLandmarks() HandLandmarks {
	return PoseLandmarks(Pose{})
}

// PeaceLandmarks returns index and middle out.
func PeaceLandmarks() HandLandmarks {
	return PoseLandmarks(Pose{Index: true, Middle: true})
}

// RockOnLandmarks returns thumb, index and pinky out.
func RockOnLandmarks() HandLandmarks {
	return PoseLandmarks(Pose{Thumb: true, Index: true, Pinky: true})
}

// RelaxedLandmarks returns a loose, half-open hand with the thumb and
// pinky tucked. It matches no gesture.
func RelaxedLandmarks() HandLandmarks {
	return PoseLandmarks(Pose{Index: true, Middle: true, Ring: true})
}
