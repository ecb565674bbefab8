// Package raster - Allocation-free RGBA rasterization primitives for
// landmark overlays: a caller-owned pixel buffer and the point/line
// stamping operations drawn onto it.
package raster

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// ErrBufferTooSmall indicates a caller-owned pixel slice with fewer bytes
// than the raster dimensions require.
var ErrBufferTooSmall = errors.New("raster buffer too small")

// Default stroke colors for landmark overlays.
var (
	DefaultLineColor  = color.RGBA{R: 0xFF, A: 0xFF}
	DefaultPointColor = color.RGBA{B: 0xFF, A: 0xFF}
)

const maxInt = int(^uint(0) >> 1)

// Buffer is a width x height RGBA raster over caller-owned memory. Pixels
// are 4 bytes each, row-major from the top-left. The zero value is
// unusable; construct with New or Wrap.
type Buffer struct {
	pix    []byte
	width  int
	height int
}

// PixelBytes returns the byte length a raster of the given dimensions
// occupies: width * height * 4.
//
// Arguments:
//   - width: Raster width in pixels.
//   - height: Raster height in pixels.
//
// Returns:
//   - int: The required byte length.
//   - error: An error when a dimension is non-positive or the product
//     overflows int.
func PixelBytes(width, height int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, errors.Errorf("raster dimensions %dx%d must be positive", width, height)
	}
	if width > maxInt/4/height {
		return 0, errors.Errorf("raster dimensions %dx%d overflow", width, height)
	}
	return width * height * 4, nil
}

// New allocates a zeroed raster of the given dimensions, for callers that
// do not bring their own media buffers.
func New(width, height int) (*Buffer, error) {
	n, err := PixelBytes(width, height)
	if err != nil {
		return nil, err
	}
	return &Buffer{pix: make([]byte, n), width: width, height: height}, nil
}

// Wrap views caller-owned memory as a raster without copying. The slice
// may be longer than required; bytes past the pixel region are never
// touched.
//
// Arguments:
//   - pix: The backing bytes, at least width * height * 4 long.
//   - width: Raster width in pixels.
//   - height: Raster height in pixels.
//
// Returns:
//   - *Buffer: A raster writing into pix.
//   - error: ErrBufferTooSmall when pix cannot hold the pixel region.
func Wrap(pix []byte, width, height int) (*Buffer, error) {
	n, err := PixelBytes(width, height)
	if err != nil {
		return nil, err
	}
	if len(pix) < n {
		return nil, errors.Wrapf(ErrBufferTooSmall, "%d bytes for %dx%d, need %d", len(pix), width, height, n)
	}
	return &Buffer{pix: pix[:n:n], width: width, height: height}, nil
}

// Width returns the raster width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the raster height in pixels.
func (b *Buffer) Height() int { return b.height }

// Pix returns the pixel region, exactly width * height * 4 bytes.
func (b *Buffer) Pix() []byte { return b.pix }

// Clear resets every pixel to transparent black.
func (b *Buffer) Clear() {
	for i := range b.pix {
		b.pix[i] = 0
	}
}

// Set writes one pixel. Out-of-bounds coordinates are ignored, matching
// the standard library image convention.
func (b *Buffer) Set(x, y int, c color.RGBA) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	off := (y*b.width + x) * 4
	p := b.pix[off : off+4 : off+4]
	p[0] = c.R
	p[1] = c.G
	p[2] = c.B
	p[3] = c.A
}

// At reads one pixel. Out-of-bounds coordinates read as transparent black.
func (b *Buffer) At(x, y int) color.RGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.RGBA{}
	}
	off := (y*b.width + x) * 4
	p := b.pix[off : off+4 : off+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// RGBA returns a standard library view over the same memory. No pixels are
// copied; draws through the view and through the buffer stay coherent.
func (b *Buffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.pix,
		Stride: b.width * 4,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}
