// Package decoder - Turns face-landmark inference output into transparent
// RGBA overlay rasters for video compositing.
package decoder

import (
	"image/color"

	"github.com/chewxy/math32"
	"github.com/nvr-ai/go-facemesh/landmarks"
	"github.com/nvr-ai/go-facemesh/raster"
	"github.com/pkg/errors"
)

// Mode selects the overlay style a decoder renders.
type Mode string

const (
	// ModeFaceLandmark draws the face-mesh contours plus a marker on
	// every landmark, gated on the face-presence score.
	ModeFaceLandmark Mode = "face_landmark"

	// ModeFaceMesh draws landmark markers only, with a larger stamp and
	// no contours.
	ModeFaceMesh Mode = "face_mesh"
)

// ErrUnknownMode indicates a mode name with no overlay style behind it.
var ErrUnknownMode = errors.New("unknown decoder mode")

// ParseMode resolves a built-in mode name. Custom modes live in a
// Registry instead.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFaceLandmark, ModeFaceMesh:
		return Mode(s), nil
	}
	return "", errors.Wrapf(ErrUnknownMode, "%q", s)
}

// Rendering defaults for the built-in modes.
const (
	// DefaultThreshold accepts any frame whose face-presence logit is
	// non-negative.
	DefaultThreshold = 0.5

	// DefaultLineWidth is the contour stroke radius; strokes are
	// 2*width+1 pixels thick.
	DefaultLineWidth = 1

	// DefaultPointRadius is the landmark marker radius in contour mode.
	DefaultPointRadius = 2

	// DefaultMeshPointRadius is the larger marker used by the points-only
	// mesh mode.
	DefaultMeshPointRadius = 3
)

// Config carries everything a decoder needs to turn a landmark frame into
// pixels. Start from DefaultConfig; the zero value does not validate.
type Config struct {
	// Mode names the overlay style this configuration renders. After
	// configuration the mode is descriptive; the fields below fully
	// determine drawing.
	Mode Mode

	// InputWidth and InputHeight are the model-space dimensions the
	// landmark coordinates live in, e.g. the face-mesh model's 192x192
	// crop. Both must be positive; there are no usable defaults.
	InputWidth  int
	InputHeight int

	// OutputWidth and OutputHeight are the overlay raster dimensions.
	OutputWidth  int
	OutputHeight int

	// Threshold gates drawing on the sigmoid face-presence probability,
	// inclusively. Frames without a confidence score bypass the gate.
	Threshold float32

	// PointRadius is the landmark marker stamp radius; markers are
	// squares of side 2*radius+1. Zero stamps single pixels.
	PointRadius int

	// LineWidth is the contour stroke radius.
	LineWidth int

	// Contours is the topology drawn before the markers. Empty draws
	// markers only.
	Contours landmarks.Topology

	// LineColor and PointColor are the contour and marker colors.
	LineColor  color.RGBA
	PointColor color.RGBA
}

// DefaultConfig returns the rendering preset for a built-in mode. Frame
// dimensions start unset and must be filled in before Configure accepts
// the result.
func DefaultConfig(mode Mode) Config {
	cfg := Config{
		Mode:        mode,
		Threshold:   DefaultThreshold,
		LineWidth:   DefaultLineWidth,
		PointRadius: DefaultPointRadius,
		Contours:    landmarks.FaceMesh,
		LineColor:   raster.DefaultLineColor,
		PointColor:  raster.DefaultPointColor,
	}
	if mode == ModeFaceMesh {
		cfg.PointRadius = DefaultMeshPointRadius
		cfg.Contours = nil
		// The mesh pipeline draws every frame; a zero threshold keeps
		// that behavior even when a confidence score is supplied.
		cfg.Threshold = 0
	}
	return cfg
}

// Validate checks the configuration eagerly, so decode can never divide by
// zero or index outside a landmark frame.
//
// Returns:
//   - error: The first problem found, nil when the configuration is
//     usable.
func (c *Config) Validate() error {
	if c.Mode == "" {
		return errors.New("mode must be set")
	}
	if c.InputWidth <= 0 || c.InputHeight <= 0 {
		return errors.Errorf("input dimensions %dx%d must be positive", c.InputWidth, c.InputHeight)
	}
	if _, err := raster.PixelBytes(c.OutputWidth, c.OutputHeight); err != nil {
		return errors.Wrap(err, "output dimensions")
	}
	if math32.IsNaN(c.Threshold) || c.Threshold < 0 || c.Threshold > 1 {
		return errors.Errorf("threshold %v outside [0, 1]", c.Threshold)
	}
	if c.PointRadius < 0 {
		return errors.Errorf("point radius %d must be non-negative", c.PointRadius)
	}
	if c.LineWidth < 0 {
		return errors.Errorf("line width %d must be non-negative", c.LineWidth)
	}
	if err := c.Contours.Validate(landmarks.NumFaceLandmarks); err != nil {
		return errors.Wrap(err, "contours")
	}
	return nil
}

// OutputBytes returns the byte length of one overlay frame,
// OutputWidth * OutputHeight * 4. Callers that own the frame memory size
// their buffers with this.
func (c Config) OutputBytes() (int, error) {
	return raster.PixelBytes(c.OutputWidth, c.OutputHeight)
}
