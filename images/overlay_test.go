package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-facemesh/raster"
)

// markerOverlay returns a w x h transparent overlay with one opaque blue
// pixel at (x, y).
func markerOverlay(t *testing.T, w, h, x, y int) *raster.Buffer {
	t.Helper()
	buf, err := raster.New(w, h)
	require.NoError(t, err)
	buf.Set(x, y, color.RGBA{B: 0xFF, A: 0xFF})
	return buf
}

func TestOverlaySharesPixels(t *testing.T) {
	buf := markerOverlay(t, 8, 8, 2, 3)
	view := Overlay(buf)

	assert.Equal(t, image.Rect(0, 0, 8, 8), view.Bounds())
	assert.Equal(t, color.RGBA{B: 0xFF, A: 0xFF}, view.RGBAAt(2, 3))

	// Draws after taking the view stay visible through it.
	buf.Set(5, 5, color.RGBA{R: 0xFF, A: 0xFF})
	assert.Equal(t, color.RGBA{R: 0xFF, A: 0xFF}, view.RGBAAt(5, 5), "view must alias the buffer, not copy it")
}

func TestScaleOverlayKeepsColorsCrisp(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 0xFF, A: 0xFF})

	scaled, err := ScaleOverlay(src, 3, 3)
	require.NoError(t, err)
	require.Equal(t, 3, scaled.Bounds().Dx())
	require.Equal(t, 3, scaled.Bounds().Dy())

	// Nearest neighbor never invents intermediate colors.
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			r, g, b, a := scaled.At(x, y).RGBA()
			assert.Equal(t, uint32(0xFFFF), r)
			assert.Equal(t, uint32(0), g)
			assert.Equal(t, uint32(0), b)
			assert.Equal(t, uint32(0xFFFF), a)
		}
	}
}

func TestScaleOverlayRejectsBadDimensions(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))

	_, err := ScaleOverlay(src, 0, 10)
	assert.Error(t, err, "zero width must be rejected")

	_, err = ScaleOverlay(src, 10, -1)
	assert.Error(t, err, "negative height must be rejected")
}

func TestCompositeOver(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			dst.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	overlay := markerOverlay(t, 4, 4, 1, 2)
	CompositeOver(dst, Overlay(overlay))

	assert.Equal(t, color.RGBA{B: 255, A: 255}, dst.RGBAAt(1, 2), "opaque marker replaces the frame pixel")
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, dst.RGBAAt(0, 0), "transparent pixels leave the frame untouched")
}

func TestCompositeOverJPEG(t *testing.T) {
	// White 100x50 background; the overlay size wins.
	bg := image.NewRGBA(image.Rect(0, 0, 100, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			bg.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, bg, nil))

	overlay := markerOverlay(t, 16, 16, 3, 3)
	composed, err := CompositeOverJPEG(buf.Bytes(), Overlay(overlay))
	require.NoError(t, err)

	assert.Equal(t, 16, composed.Bounds().Dx(), "composition is forced to the overlay width")
	assert.Equal(t, 16, composed.Bounds().Dy(), "composition is forced to the overlay height")

	// The marker never passes through JPEG, so it stays exact.
	r, g, b, a := composed.At(3, 3).RGBA()
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, uint32(0), g)
	assert.Equal(t, uint32(0xFFFF), b)
	assert.Equal(t, uint32(0xFFFF), a)

	// The background survives its JPEG round trip approximately.
	r, g, b, _ = composed.At(10, 10).RGBA()
	assert.Greater(t, r, uint32(0xE000))
	assert.Greater(t, g, uint32(0xE000))
	assert.Greater(t, b, uint32(0xE000))
}

func TestCompositeOverJPEGErrors(t *testing.T) {
	_, err := CompositeOverJPEG([]byte("not a jpeg"), image.NewRGBA(image.Rect(0, 0, 4, 4)))
	assert.Error(t, err, "invalid JPEG input must be rejected")

	_, err = CompositeOverJPEG(nil, nil)
	assert.Error(t, err, "nil overlay must be rejected")
}

func TestEncodePNGPreservesAlpha(t *testing.T) {
	overlay := markerOverlay(t, 8, 8, 4, 4)

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, Overlay(overlay)))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)

	_, _, _, a := decoded.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), a, "undrawn pixels stay transparent")
	r, g, b, a := decoded.At(4, 4).RGBA()
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, uint32(0), g)
	assert.Equal(t, uint32(0xFFFF), b)
	assert.Equal(t, uint32(0xFFFF), a)
}

func TestEncodeWebPPreservesAlpha(t *testing.T) {
	overlay := markerOverlay(t, 8, 8, 4, 4)

	var buf bytes.Buffer
	require.NoError(t, EncodeWebP(&buf, Overlay(overlay)))

	decoded, err := webp.Decode(&buf)
	require.NoError(t, err)

	_, _, _, a := decoded.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), a, "undrawn pixels stay transparent")
	r, g, b, a := decoded.At(4, 4).RGBA()
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, uint32(0), g)
	assert.Equal(t, uint32(0xFFFF), b)
	assert.Equal(t, uint32(0xFFFF), a)
}

func TestDecodeFrameEdgeCases(t *testing.T) {
	var buf bytes.Buffer
	bg := image.NewRGBA(image.Rect(0, 0, 10, 10))
	require.NoError(t, jpeg.Encode(&buf, bg, nil))
	jpegBytes := buf.Bytes()

	img, err := DecodeFrame([]byte{}, 8, 8, FrameJPEG)
	assert.Error(t, err)
	assert.Nil(t, img)
	assert.Contains(t, err.Error(), "empty frame data")

	img, err = DecodeFrame(jpegBytes, 0, 8, FrameJPEG)
	assert.Error(t, err)
	assert.Nil(t, img)

	img, err = DecodeFrame(jpegBytes, 8, 8, FrameFormat(99))
	assert.Error(t, err)
	assert.Nil(t, img)
	assert.Contains(t, err.Error(), "unsupported frame format")
}

func TestDecodeJPEGFrameForcesSize(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 100, 50))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, bg, nil))

	img, err := DecodeJPEGFrame(buf.Bytes(), 32, 32)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx(), "frame is stretched, not fit, to the composition size")
	assert.Equal(t, 32, img.Bounds().Dy())
}

func BenchmarkCompositeOver(b *testing.B) {
	dst := image.NewRGBA(image.Rect(0, 0, 1920, 1080))
	buf, err := raster.New(1920, 1080)
	if err != nil {
		b.Fatal(err)
	}
	overlay := Overlay(buf)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		CompositeOver(dst, overlay)
	}
}
