package gesture

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/homecoming/internal/detector"
)

// Distance2D returns the Euclidean distance between a and b in the image
// plane. Z is ignored because MediaPipe depth is on a different scale.
func Distance2D(a, b detector.Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// HorizontalGap returns |a.X - b.X|.
func HorizontalGap(a, b detector.Point3D) float64 {
	return math.Abs(a.X - b.X)
}

// AngleAt returns the angle in degrees between vertex->a and vertex->b.
// A zero-length arm yields 0.
func AngleAt(vertex, a, b detector.Point3D) float64 {
	v := vec(vertex)
	u := r3.Sub(vec(a), v)
	w := r3.Sub(vec(b), v)

	nu, nw := r3.Norm(u), r3.Norm(w)
	if nu == 0 || nw == 0 {
		return 0
	}

	cos := r3.Dot(u, w) / (nu * nw)
	// Rounding can push |cos| just past 1.
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

func vec(p detector.Point3D) r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}
