package decoder

import (
	"fmt"
	"image"
	"math"

	"github.com/nvr-ai/go-facemesh/landmarks"
	"github.com/nvr-ai/go-facemesh/raster"
	"github.com/pkg/errors"
)

var debugMode = false

// Errors reported by Decode, wrapped with context; match with errors.Is.
var (
	// ErrNotConfigured indicates Decode was called before a successful
	// Configure.
	ErrNotConfigured = errors.New("decoder not configured")

	// ErrLandmarkCount indicates a frame whose landmark count does not
	// match the face-mesh topology.
	ErrLandmarkCount = errors.New("unexpected landmark count")
)

// Result reports one decoded frame.
type Result struct {
	// Points holds the mapped pixel position of every landmark, in
	// tensor order, whether or not the frame was drawn. The slice
	// aliases decoder-owned memory and is valid until the next Decode
	// call; copy it to retain.
	Points []image.Point

	// Probability is the sigmoid face-presence probability, 1 when the
	// frame carried no confidence score.
	Probability float32

	// Valid reports whether the probability met the threshold and the
	// overlay was drawn. An invalid frame leaves the raster fully
	// transparent.
	Valid bool
}

// Decoder converts landmark frames into RGBA overlay rasters. A decoder
// starts idle and becomes ready through Configure. Decode reuses internal
// per-frame arenas, so a Decoder must not be shared between goroutines
// without external synchronization.
type Decoder struct {
	cfg     Config
	ready   bool
	points  []image.Point
	scratch []landmarks.Point
}

// New returns an idle decoder. Configure must succeed before frames can
// be decoded.
func New() *Decoder {
	return &Decoder{}
}

// NewWithConfig returns a ready decoder, or the configuration problem.
func NewWithConfig(cfg Config) (*Decoder, error) {
	d := New()
	if err := d.Configure(cfg); err != nil {
		return nil, err
	}
	return d, nil
}

// Configure validates cfg and moves the decoder to ready. Reconfiguring a
// ready decoder is allowed; on failure the previous configuration stays
// in effect.
func (d *Decoder) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "decoder config")
	}
	if debugMode {
		fmt.Printf("[DEBUG] decoder configured: mode=%s in=%dx%d out=%dx%d threshold=%v\n",
			cfg.Mode, cfg.InputWidth, cfg.InputHeight, cfg.OutputWidth, cfg.OutputHeight, cfg.Threshold)
	}
	d.cfg = cfg
	if d.points == nil {
		d.points = make([]image.Point, landmarks.NumFaceLandmarks)
		d.scratch = make([]landmarks.Point, landmarks.NumFaceLandmarks)
	}
	d.ready = true
	return nil
}

// Ready reports whether Configure has succeeded.
func (d *Decoder) Ready() bool { return d.ready }

// Config returns the active configuration; meaningful only when ready.
func (d *Decoder) Config() Config { return d.cfg }

// Decode renders one landmark frame into frame, a caller-owned RGBA byte
// slice of at least OutputWidth*OutputHeight*4 bytes. The pixel region is
// zero-filled on every call; when the face-presence gate passes, contours
// are drawn first and landmark markers on top of them. All validation
// happens before the first write, so a failed Decode leaves frame
// untouched.
//
// Arguments:
//   - frame: The output pixels, typically reused across calls by the
//     media pipeline.
//   - pts: The landmark frame, exactly landmarks.NumFaceLandmarks points.
//   - flag: The raw face-presence logit, nil when the source has none.
//
// Returns:
//   - Result: The mapped points and the gate outcome.
//   - error: ErrNotConfigured, ErrLandmarkCount, or
//     raster.ErrBufferTooSmall.
func (d *Decoder) Decode(frame []byte, pts []landmarks.Point, flag *float32) (Result, error) {
	if !d.ready {
		return Result{}, errors.WithStack(ErrNotConfigured)
	}
	if len(pts) != landmarks.NumFaceLandmarks {
		return Result{}, errors.Wrapf(ErrLandmarkCount, "%d points, want %d", len(pts), landmarks.NumFaceLandmarks)
	}
	buf, err := raster.Wrap(frame, d.cfg.OutputWidth, d.cfg.OutputHeight)
	if err != nil {
		return Result{}, err
	}

	buf.Clear()

	for i, p := range pts {
		d.points[i] = d.mapPoint(p)
	}

	res := Result{Points: d.points, Probability: 1, Valid: true}
	if flag != nil {
		res.Probability, res.Valid = landmarks.Gate(*flag, d.cfg.Threshold)
	}
	if !res.Valid {
		return res, nil
	}

	for _, contour := range d.cfg.Contours {
		buf.DrawContour(d.points, contour.Indices, d.cfg.LineWidth, d.cfg.LineColor)
	}
	buf.DrawPoints(d.points, d.cfg.PointRadius, d.cfg.PointColor)

	return res, nil
}

// DecodeTensors is the raw entry point for inference output: data is the
// flat landmark tensor of landmarks.TensorLength float32 values, flag the
// optional face-presence tensor, of which the first element is read. Pass
// a nil or empty flag for sources without one.
func (d *Decoder) DecodeTensors(frame []byte, data []float32, flag []float32) (Result, error) {
	if !d.ready {
		return Result{}, errors.WithStack(ErrNotConfigured)
	}
	if err := landmarks.FromFlatInto(d.scratch, data); err != nil {
		return Result{}, err
	}
	if len(flag) == 0 {
		return d.Decode(frame, d.scratch, nil)
	}
	return d.Decode(frame, d.scratch, &flag[0])
}

// MapPoint applies the configured coordinate mapping to a single landmark,
// for callers that project auxiliary geometry onto the overlay.
func (d *Decoder) MapPoint(p landmarks.Point) (image.Point, error) {
	if !d.ready {
		return image.Point{}, errors.WithStack(ErrNotConfigured)
	}
	return d.mapPoint(p), nil
}

// mapPoint scales one model-space landmark into the output raster and
// clamps it inside, so drawing can never leave the frame. Non-finite
// coordinates clamp deterministically: NaN to 0, infinities to the
// nearest edge.
func (d *Decoder) mapPoint(p landmarks.Point) image.Point {
	return image.Point{
		X: scaleClamp(float64(p.X), d.cfg.OutputWidth, d.cfg.InputWidth),
		Y: scaleClamp(float64(p.Y), d.cfg.OutputHeight, d.cfg.InputHeight),
	}
}

func scaleClamp(v float64, out, in int) int {
	s := float64(out) * v / float64(in)
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	if s >= float64(out) {
		return out - 1
	}
	return int(s)
}
