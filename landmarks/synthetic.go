package landmarks

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Golden angle, radians. Spreads the non-contour keypoints evenly.
const goldenAngle = 2.39996323

// Synthetic renders a stylized face as a flat landmark tensor in the given
// input space, for demos and benchmarks that run without an inference
// source. phase animates the face: it drifts and pulses slowly as phase
// grows, so successive frames decode to visibly different overlays.
//
// Arguments:
//   - width: Input-space width the coordinates are expressed in.
//   - height: Input-space height.
//   - phase: Animation phase, typically frameIndex * someStep.
//
// Returns:
//   - []float32: A freshly allocated TensorLength tensor.
func Synthetic(width, height, phase float32) []float32 {
	flat := make([]float32, TensorLength)
	_ = SyntheticInto(flat, width, height, phase)
	return flat
}

// SyntheticInto renders the same face into a caller-provided flat tensor,
// letting per-frame loops reuse one allocation.
//
// Returns:
//   - error: ErrTensorLength when dst does not hold TensorLength values.
func SyntheticInto(dst []float32, width, height, phase float32) error {
	if len(dst) != TensorLength {
		return errors.Wrapf(ErrTensorLength, "%d values, want %d", len(dst), TensorLength)
	}

	// Head placement in unit space, drifting and pulsing with the phase.
	cx := 0.5 + 0.06*math32.Sin(phase)
	cy := 0.52 + 0.04*math32.Sin(0.7*phase)
	s := 1 + 0.08*math32.Sin(1.3*phase)

	rx := 0.30 * s
	ry := 0.40 * s

	const pi = math32.Pi
	arc := func(indices []int, fcx, fcy, frx, fry, a0, a1 float32) {
		arcInto(dst, width, height, indices, cx+fcx*s, cy+fcy*s, frx*s, fry*s, a0, a1)
	}

	// Head outline, one full turn starting at the forehead.
	arc(FaceMesh.Find("silhouette"), 0, 0, 0.30, 0.40, -pi/2, -pi/2+2*pi)

	// Lips: outer and inner rings split into upper and lower arcs that meet
	// at the mouth corners.
	arc(FaceMesh.Find("lipsUpperOuter"), 0, 0.22, 0.16, 0.06, pi, 2*pi)
	arc(FaceMesh.Find("lipsLowerOuter"), 0, 0.22, 0.16, 0.06, pi, 0)
	arc(FaceMesh.Find("lipsUpperInner"), 0, 0.22, 0.125, 0.03, pi, 2*pi)
	arc(FaceMesh.Find("lipsLowerInner"), 0, 0.22, 0.125, 0.03, pi, 0)

	// Right eye and brow (viewer left).
	arc(FaceMesh.Find("rightEyeUpper0"), -0.13, -0.10, 0.085, 0.045, pi, 2*pi)
	arc(FaceMesh.Find("rightEyeLower0"), -0.13, -0.10, 0.095, 0.050, pi, 0)
	arc(FaceMesh.Find("rightEyebrowUpper"), -0.13, -0.19, 0.105, 0.030, pi, 2*pi)
	arc(FaceMesh.Find("rightEyebrowLower"), -0.13, -0.16, 0.100, 0.020, pi, 2*pi)

	// Left eye and brow, mirrored arcs.
	arc(FaceMesh.Find("leftEyeUpper0"), 0.13, -0.10, 0.085, 0.045, 2*pi, pi)
	arc(FaceMesh.Find("leftEyeLower0"), 0.13, -0.10, 0.095, 0.050, 0, pi)
	arc(FaceMesh.Find("leftEyebrowUpper"), 0.13, -0.19, 0.105, 0.030, 2*pi, pi)
	arc(FaceMesh.Find("leftEyebrowLower"), 0.13, -0.16, 0.100, 0.020, 2*pi, pi)

	// Everything else fills the face interior on a phyllotaxis spiral, which
	// reads as an even point cloud in mesh mode.
	used := make([]bool, NumFaceLandmarks)
	for _, c := range FaceMesh {
		for _, idx := range c.Indices {
			used[idx] = true
		}
	}
	for i := 0; i < NumFaceLandmarks; i++ {
		if used[i] {
			continue
		}
		a := float32(i) * goldenAngle
		r := math32.Sqrt(float32(i) / NumFaceLandmarks)
		dst[i*3] = (cx + 0.82*rx*r*math32.Cos(a)) * width
		dst[i*3+1] = (cy + 0.82*ry*r*math32.Sin(a)) * height
		dst[i*3+2] = 0
	}
	return nil
}

// arcInto places a contour's keypoints along an elliptical arc from angle a0
// to a1, scaled into input space. Closed loops pass a1 = a0 + 2*pi with the
// loop's repeated endpoint landing back on the start.
func arcInto(dst []float32, width, height float32, indices []int, cx, cy, rx, ry, a0, a1 float32) {
	n := len(indices)
	for i, idx := range indices {
		t := float32(0)
		if n > 1 {
			t = float32(i) / float32(n-1)
		}
		a := a0 + (a1-a0)*t
		dst[idx*3] = (cx + rx*math32.Cos(a)) * width
		dst[idx*3+1] = (cy + ry*math32.Sin(a)) * height
		dst[idx*3+2] = 0
	}
}
