package landmarks

import "github.com/pkg/errors"

// Contour is an ordered chain of landmark indices. Consecutive index pairs
// form the line segments of one facial feature.
type Contour struct {
	Name    string
	Indices []int
}

// Topology is the set of contours drawn over a landmark frame. Decoders
// receive a Topology at configuration time and treat it as read-only;
// nothing in this package mutates one after construction.
type Topology []Contour

// Validate checks every contour against the landmark count a decoder will
// supply per frame.
//
// Arguments:
//   - numPoints: The number of landmarks in a frame.
//
// Returns:
//   - error: An error naming the offending contour, nil when drawable.
func (t Topology) Validate(numPoints int) error {
	for _, c := range t {
		if len(c.Indices) < 2 {
			return errors.Errorf("contour %q has %d indices, need at least 2", c.Name, len(c.Indices))
		}
		for _, idx := range c.Indices {
			if idx < 0 || idx >= numPoints {
				return errors.Errorf("contour %q index %d out of range [0, %d)", c.Name, idx, numPoints)
			}
		}
	}
	return nil
}

// Find returns the index chain of the named contour, or nil when the
// topology has no contour by that name.
func (t Topology) Find(name string) []int {
	for _, c := range t {
		if c.Name == name {
			return c.Indices
		}
	}
	return nil
}

// Segments returns the total number of line segments the topology draws.
// Decode cost per frame is proportional to this.
func (t Topology) Segments() int {
	n := 0
	for _, c := range t {
		if len(c.Indices) > 1 {
			n += len(c.Indices) - 1
		}
	}
	return n
}

// FaceMesh is the standard MediaPipe face-mesh contour map: face silhouette,
// outer and inner lips, eyes, and eyebrows. Treat it as read-only; construct
// a new Topology for reduced point sets.
var FaceMesh = Topology{
	{Name: "silhouette", Indices: []int{
		10, 338, 297, 332, 284, 251, 389, 356, 454, 323, 361, 288,
		397, 365, 379, 378, 400, 377, 152, 148, 176, 149, 150, 136,
		172, 58, 132, 93, 234, 127, 162, 21, 54, 103, 67, 109, 10,
	}},
	{Name: "lipsUpperOuter", Indices: []int{61, 185, 40, 39, 37, 0, 267, 269, 270, 409, 291}},
	{Name: "lipsLowerOuter", Indices: []int{146, 91, 181, 84, 17, 314, 405, 321, 375, 291}},
	{Name: "lipsUpperInner", Indices: []int{78, 191, 80, 81, 82, 13, 312, 311, 310, 415, 308}},
	{Name: "lipsLowerInner", Indices: []int{78, 95, 88, 178, 87, 14, 317, 402, 318, 324, 308}},
	{Name: "rightEyeUpper0", Indices: []int{246, 161, 160, 159, 158, 157, 173}},
	{Name: "rightEyeLower0", Indices: []int{33, 7, 163, 144, 145, 153, 154, 155, 133}},
	{Name: "rightEyebrowUpper", Indices: []int{70, 63, 105, 66, 107}},
	{Name: "rightEyebrowLower", Indices: []int{46, 53, 52, 65, 55}},
	{Name: "leftEyeUpper0", Indices: []int{466, 388, 387, 386, 385, 384, 398}},
	{Name: "leftEyeLower0", Indices: []int{263, 249, 390, 373, 374, 380, 381, 382, 362}},
	{Name: "leftEyebrowUpper", Indices: []int{300, 293, 334, 296, 336}},
	{Name: "leftEyebrowLower", Indices: []int{276, 283, 282, 295, 285}},
}
