package decoder

import (
	"bytes"
	"image"
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/nvr-ai/go-facemesh/landmarks"
	"github.com/nvr-ai/go-facemesh/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(mode Mode) Config {
	cfg := DefaultConfig(mode)
	cfg.InputWidth = 100
	cfg.InputHeight = 100
	cfg.OutputWidth = 100
	cfg.OutputHeight = 100
	return cfg
}

func readyDecoder(t *testing.T, cfg Config) *Decoder {
	t.Helper()
	d, err := NewWithConfig(cfg)
	require.NoError(t, err, "test config should configure")
	return d
}

func newFrame(t *testing.T, cfg Config) []byte {
	t.Helper()
	n, err := cfg.OutputBytes()
	require.NoError(t, err)
	return make([]byte, n)
}

func uniformLandmarks(x, y float32) []landmarks.Point {
	pts := make([]landmarks.Point, landmarks.NumFaceLandmarks)
	for i := range pts {
		pts[i] = landmarks.Point{X: x, Y: y}
	}
	return pts
}

func wrapFrame(t *testing.T, frame []byte, cfg Config) *raster.Buffer {
	t.Helper()
	buf, err := raster.Wrap(frame, cfg.OutputWidth, cfg.OutputHeight)
	require.NoError(t, err)
	return buf
}

func TestDecodeIdleFails(t *testing.T) {
	d := New()
	assert.False(t, d.Ready())

	frame := bytes.Repeat([]byte{0xCD}, 100*100*4)
	_, err := d.Decode(frame, uniformLandmarks(50, 50), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, bytes.Repeat([]byte{0xCD}, len(frame)), frame, "idle decode must not write")

	_, err = d.DecodeTensors(frame, make([]float32, landmarks.TensorLength), nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestDecodeCenterBlock(t *testing.T) {
	cfg := testConfig(ModeFaceLandmark)
	d := readyDecoder(t, cfg)
	frame := newFrame(t, cfg)

	res, err := d.Decode(frame, uniformLandmarks(50, 50), nil)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, float32(1), res.Probability, "no confidence score bypasses the gate")
	assert.Equal(t, image.Point{X: 50, Y: 50}, res.Points[0])

	// Coincident landmarks collapse to one marker stamp over the
	// collapsed contours.
	buf := wrapFrame(t, frame, cfg)
	assert.Equal(t, 25, coloredPixels(buf), "radius 2 marker covers 5x5")
	assert.Equal(t, raster.DefaultPointColor, buf.At(50, 50))
	assert.Equal(t, raster.DefaultPointColor, buf.At(48, 48))
	assert.Zero(t, buf.At(47, 50).A, "outside the stamp stays transparent")
}

func TestDecodeMarkersDrawOverContours(t *testing.T) {
	cfg := testConfig(ModeFaceLandmark)
	cfg.PointRadius = 0
	d := readyDecoder(t, cfg)
	frame := newFrame(t, cfg)

	_, err := d.Decode(frame, uniformLandmarks(50, 50), nil)
	require.NoError(t, err)

	buf := wrapFrame(t, frame, cfg)
	assert.Equal(t, 9, coloredPixels(buf), "line stamp covers 3x3")
	assert.Equal(t, raster.DefaultPointColor, buf.At(50, 50), "marker wins the shared pixel")
	assert.Equal(t, raster.DefaultLineColor, buf.At(49, 50), "stroke shows around the marker")
	assert.Equal(t, raster.DefaultLineColor, buf.At(51, 51))
}

func TestDecodeGateBlocksDrawing(t *testing.T) {
	cfg := testConfig(ModeFaceLandmark)
	d := readyDecoder(t, cfg)
	frame := newFrame(t, cfg)

	logit := float32(-5)
	res, err := d.Decode(frame, uniformLandmarks(50, 50), &logit)
	require.NoError(t, err, "a gated-out frame is not an error")
	assert.False(t, res.Valid)
	assert.InDelta(t, 0.0067, res.Probability, 0.001)
	assert.Equal(t, image.Point{X: 50, Y: 50}, res.Points[0], "points are mapped even when not drawn")

	buf := wrapFrame(t, frame, cfg)
	assert.Zero(t, coloredPixels(buf), "invalid frame leaves the raster transparent")
}

func TestDecodeGateBoundaryInclusive(t *testing.T) {
	cfg := testConfig(ModeFaceLandmark)
	d := readyDecoder(t, cfg)
	frame := newFrame(t, cfg)

	logit := float32(0)
	res, err := d.Decode(frame, uniformLandmarks(50, 50), &logit)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), res.Probability)
	assert.True(t, res.Valid, "probability equal to the threshold draws")
	assert.NotZero(t, coloredPixels(wrapFrame(t, frame, cfg)))
}

func TestDecodeNaNFlagNeverDraws(t *testing.T) {
	cfg := testConfig(ModeFaceLandmark)
	cfg.Threshold = 0
	d := readyDecoder(t, cfg)
	frame := newFrame(t, cfg)

	logit := math32.NaN()
	res, err := d.Decode(frame, uniformLandmarks(50, 50), &logit)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, math32.IsNaN(res.Probability))
	assert.Zero(t, coloredPixels(wrapFrame(t, frame, cfg)))
}

func TestDecodeZeroFillsStaleContent(t *testing.T) {
	cfg := testConfig(ModeFaceLandmark)
	d := readyDecoder(t, cfg)

	n, err := cfg.OutputBytes()
	require.NoError(t, err)
	frame := bytes.Repeat([]byte{0xFF}, n+4)

	logit := math32.Inf(-1)
	res, err := d.Decode(frame, uniformLandmarks(50, 50), &logit)
	require.NoError(t, err)
	assert.False(t, res.Valid)

	for i := 0; i < n; i++ {
		require.Zero(t, frame[i], "pixel byte %d must be cleared", i)
	}
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, frame[n:], "bytes past the pixel region stay untouched")
}

func TestDecodeFailuresLeaveFrameUntouched(t *testing.T) {
	cfg := testConfig(ModeFaceLandmark)
	d := readyDecoder(t, cfg)

	n, err := cfg.OutputBytes()
	require.NoError(t, err)
	sentinel := bytes.Repeat([]byte{0xCD}, n)

	short := bytes.Repeat([]byte{0xCD}, n-4)
	_, err = d.Decode(short, uniformLandmarks(50, 50), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, raster.ErrBufferTooSmall)
	assert.Equal(t, bytes.Repeat([]byte{0xCD}, n-4), short)

	frame := bytes.Repeat([]byte{0xCD}, n)
	_, err = d.Decode(frame, make([]landmarks.Point, 10), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLandmarkCount)
	assert.Equal(t, sentinel, frame, "failed decode must not write")

	_, err = d.DecodeTensors(frame, make([]float32, 99), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, landmarks.ErrTensorLength)
	assert.Equal(t, sentinel, frame)
}

func TestDecodeFaceMeshMarkers(t *testing.T) {
	cfg := testConfig(ModeFaceMesh)
	d := readyDecoder(t, cfg)
	frame := newFrame(t, cfg)

	// The mesh preset keeps drawing even at rock-bottom confidence.
	logit := float32(-10)
	res, err := d.Decode(frame, uniformLandmarks(50, 50), &logit)
	require.NoError(t, err)
	assert.True(t, res.Valid, "zero threshold accepts any finite score")
	assert.Less(t, res.Probability, float32(0.001))

	buf := wrapFrame(t, frame, cfg)
	assert.Equal(t, 49, coloredPixels(buf), "radius 3 marker covers 7x7")
	assert.Equal(t, raster.DefaultPointColor, buf.At(50, 50))
	assert.Zero(t, buf.At(46, 50).A)
}

func TestDecodeClampsNonFiniteLandmarks(t *testing.T) {
	cfg := testConfig(ModeFaceMesh)
	cfg.PointRadius = 0
	d := readyDecoder(t, cfg)
	frame := newFrame(t, cfg)

	pts := uniformLandmarks(50, 50)
	pts[0] = landmarks.Point{X: -50, Y: 25}
	pts[1] = landmarks.Point{X: 150, Y: 25}
	pts[2] = landmarks.Point{X: math32.NaN(), Y: math32.Inf(1)}
	pts[3] = landmarks.Point{X: 25, Y: math32.Inf(-1)}

	res, err := d.Decode(frame, pts, nil)
	require.NoError(t, err, "out-of-range landmarks clamp, never fail")

	assert.Equal(t, image.Point{X: 0, Y: 25}, res.Points[0])
	assert.Equal(t, image.Point{X: 99, Y: 25}, res.Points[1])
	assert.Equal(t, image.Point{X: 0, Y: 99}, res.Points[2], "NaN clamps to 0, +Inf to the far edge")
	assert.Equal(t, image.Point{X: 25, Y: 0}, res.Points[3])

	buf := wrapFrame(t, frame, cfg)
	for i, p := range res.Points[:4] {
		assert.Equal(t, raster.DefaultPointColor, buf.At(p.X, p.Y), "clamped landmark %d should be stamped", i)
	}
	assert.Equal(t, 5, coloredPixels(buf))
}

func TestMapPoint(t *testing.T) {
	cfg := DefaultConfig(ModeFaceLandmark)
	cfg.InputWidth = 100
	cfg.InputHeight = 50
	cfg.OutputWidth = 200
	cfg.OutputHeight = 100
	d := readyDecoder(t, cfg)

	tests := []struct {
		name string
		in   landmarks.Point
		want image.Point
	}{
		{name: "axes scale independently", in: landmarks.Point{X: 50, Y: 25}, want: image.Point{X: 100, Y: 50}},
		{name: "origin", in: landmarks.Point{}, want: image.Point{}},
		{name: "floor before clamp", in: landmarks.Point{X: 99.9, Y: 49.9}, want: image.Point{X: 199, Y: 99}},
		{name: "input edge clamps inside", in: landmarks.Point{X: 100, Y: 50}, want: image.Point{X: 199, Y: 99}},
		{name: "negative clamps to zero", in: landmarks.Point{X: -0.1, Y: -40}, want: image.Point{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.MapPoint(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := New().MapPoint(landmarks.Point{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestDecodeIdempotent(t *testing.T) {
	cfg := testConfig(ModeFaceLandmark)
	d := readyDecoder(t, cfg)

	pts := make([]landmarks.Point, landmarks.NumFaceLandmarks)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(len(pts))
		pts[i] = landmarks.Point{
			X: float32(50 + 40*math.Cos(a)),
			Y: float32(50 + 35*math.Sin(a)),
		}
	}

	first := newFrame(t, cfg)
	_, err := d.Decode(first, pts, nil)
	require.NoError(t, err)
	want := raster.Checksum(wrapFrame(t, first, cfg))

	// Same inputs into a dirty buffer must reproduce the same pixels.
	again := bytes.Repeat([]byte{0xAA}, len(first))
	_, err = d.Decode(again, pts, nil)
	require.NoError(t, err)
	assert.Equal(t, want, raster.Checksum(wrapFrame(t, again, cfg)))

	_, err = d.Decode(again, uniformLandmarks(10, 10), nil)
	require.NoError(t, err)
	_, err = d.Decode(again, pts, nil)
	require.NoError(t, err)
	assert.Equal(t, want, raster.Checksum(wrapFrame(t, again, cfg)), "intervening frames must not leak state")
}

func TestResultPointsAliasArena(t *testing.T) {
	cfg := testConfig(ModeFaceLandmark)
	d := readyDecoder(t, cfg)
	frame := newFrame(t, cfg)

	res1, err := d.Decode(frame, uniformLandmarks(50, 50), nil)
	require.NoError(t, err)
	assert.Equal(t, image.Point{X: 50, Y: 50}, res1.Points[467])

	_, err = d.Decode(frame, uniformLandmarks(10, 10), nil)
	require.NoError(t, err)
	assert.Equal(t, image.Point{X: 10, Y: 10}, res1.Points[467],
		"result points alias the decoder arena and are only valid until the next decode")
}

func TestDecodeTensors(t *testing.T) {
	cfg := testConfig(ModeFaceLandmark)
	d := readyDecoder(t, cfg)
	frame := newFrame(t, cfg)

	data := landmarks.Flatten(uniformLandmarks(50, 50))

	res, err := d.DecodeTensors(frame, data, nil)
	require.NoError(t, err)
	assert.Equal(t, float32(1), res.Probability)
	assert.True(t, res.Valid)

	res, err = d.DecodeTensors(frame, data, []float32{3})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.InDelta(t, 0.9526, res.Probability, 0.001)

	// Only the first flag element is a score.
	res, err = d.DecodeTensors(frame, data, []float32{-100, 100})
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

func TestReconfigure(t *testing.T) {
	cfg := testConfig(ModeFaceLandmark)
	d := readyDecoder(t, cfg)

	smaller := cfg
	smaller.OutputWidth = 32
	smaller.OutputHeight = 32
	require.NoError(t, d.Configure(smaller))

	frame := make([]byte, 32*32*4)
	_, err := d.Decode(frame, uniformLandmarks(50, 50), nil)
	require.NoError(t, err, "decode should honor the new dimensions")

	bad := smaller
	bad.InputWidth = 0
	require.Error(t, d.Configure(bad))
	assert.True(t, d.Ready(), "failed reconfigure keeps the decoder ready")
	assert.Equal(t, 32, d.Config().OutputWidth, "failed reconfigure keeps the previous config")
}

func coloredPixels(b *raster.Buffer) int {
	n := 0
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			c := b.At(x, y)
			if c.R != 0 || c.G != 0 || c.B != 0 || c.A != 0 {
				n++
			}
		}
	}
	return n
}
