// Package landmarks - Face-landmark data model shared by the decoding
// pipeline: keypoints, contour topology, and the face-presence gate.
package landmarks

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

const (
	// NumFaceLandmarks is the number of keypoints in the MediaPipe
	// face-mesh topology.
	NumFaceLandmarks = 468

	// TensorLength is the flat element count of a landmark tensor: one
	// (x, y, z) triple per keypoint.
	TensorLength = NumFaceLandmarks * 3
)

// ErrTensorLength indicates a flat landmark tensor whose element count does
// not match the face-mesh topology.
var ErrTensorLength = errors.New("landmark tensor length mismatch")

// Point is a single face landmark in model space. X and Y are pixel
// coordinates within the model's input frame; Z is relative depth with the
// head center as origin. Rasterization ignores Z; consumers that need depth
// ordering keep it.
type Point struct {
	X float32
	Y float32
	Z float32
}

// FromFlat decodes a flat (x, y, z, x, y, z, ...) tensor into landmark
// points.
//
// Arguments:
//   - data: The flat tensor values, exactly TensorLength elements.
//
// Returns:
//   - []Point: The decoded landmarks, NumFaceLandmarks entries.
//   - error: ErrTensorLength when the element count does not match.
func FromFlat(data []float32) ([]Point, error) {
	points := make([]Point, NumFaceLandmarks)
	if err := FromFlatInto(points, data); err != nil {
		return nil, err
	}
	return points, nil
}

// FromFlatInto decodes a flat tensor into a caller-provided slice of
// NumFaceLandmarks points, letting per-frame pipelines reuse one
// allocation.
func FromFlatInto(dst []Point, data []float32) error {
	if len(data) != TensorLength {
		return errors.Wrapf(ErrTensorLength, "%d values, want %d", len(data), TensorLength)
	}
	if len(dst) != NumFaceLandmarks {
		return errors.Errorf("destination holds %d points, want %d", len(dst), NumFaceLandmarks)
	}
	for i := range dst {
		dst[i] = Point{X: data[i*3], Y: data[i*3+1], Z: data[i*3+2]}
	}
	return nil
}

// Flatten is the inverse of FromFlat, producing the flat tensor layout the
// inference sources emit. Used by synthetic frame generators and tests.
func Flatten(points []Point) []float32 {
	data := make([]float32, len(points)*3)
	for i, p := range points {
		data[i*3] = p.X
		data[i*3+1] = p.Y
		data[i*3+2] = p.Z
	}
	return data
}

// Bounds returns the tightest integer rectangle containing every landmark
// in model space, useful for ROI cropping around a detected face.
// Non-finite coordinates are ignored; an empty or fully non-finite set
// yields the zero rectangle.
func Bounds(points []Point) image.Rectangle {
	first := true
	var minX, minY, maxX, maxY float32
	for _, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			continue
		}
		if first {
			minX, maxX = p.X, p.X
			minY, maxY = p.Y, p.Y
			first = false
			continue
		}
		minX = math32.Min(minX, p.X)
		maxX = math32.Max(maxX, p.X)
		minY = math32.Min(minY, p.Y)
		maxY = math32.Max(maxY, p.Y)
	}
	if first {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math32.Floor(minX)), int(math32.Floor(minY)),
		int(math32.Floor(maxX))+1, int(math32.Floor(maxY))+1,
	)
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
