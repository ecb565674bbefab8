// Package video - This file contains the overlay compositing functionality
// using OpenCV (via gocv) for live video pipelines.
//
// The Compositor struct encapsulates the per-frame blend of a decoded
// landmark overlay onto BGR camera frames:
//  1. Stage the overlay's RGBA bytes as a Mat.
//  2. Take the alpha channel as the copy mask.
//  3. Color-convert the overlay to the frame's BGR order.
//  4. Copy masked pixels onto the live frame.
//
// Pipeline Overview:
//
// ┌──────────────────────────┐
// │ RGBA overlay (decoder)   │
// └──────┬───────────────────┘
// ┌────────────────────────────┐
// │ Alpha channel → copy mask  │
// └──────┬─────────────────────┘
// ┌────────────────────────────┐
// │ RGBA → BGR                 │
// └──────┬─────────────────────┘
// ┌────────────────────────────┐
// │ CopyToWithMask onto frame  │
// └────────────────────────────┘
//
// Usage:
//
//	comp := video.NewCompositor()
//	defer comp.Close()
//
//	for {
//	    frame := readFrame()
//	    dec.Decode(tensor, flag, overlay.Pix())
//	    comp.Blend(&frame, overlay)
//	    window.IMShow(frame)
//	}
//
// Note: You must call Close() when finished to release native resources.
package video

import (
	"gocv.io/x/gocv"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-facemesh/raster"
)

// Compositor blends decoded landmark overlays onto live BGR frames.
//
// This struct is stateful and optimized for reuse across frames in a video
// stream. Internally, it maintains OpenCV matrices for the staged overlay,
// its BGR conversion, and the alpha mask. Always call Close() when done to
// release native resources.
type Compositor struct {
	Overlay gocv.Mat // RGBA overlay staged for conversion
	BGR     gocv.Mat // Overlay in the frame's channel order
	Mask    gocv.Mat // Alpha channel; pixels copy where it is non-zero
}

// NewCompositor constructs a Compositor with initialized OpenCV matrices.
//
// Always call Close() to release memory.
func NewCompositor() *Compositor {
	return &Compositor{
		Overlay: gocv.NewMat(),
		BGR:     gocv.NewMat(),
		Mask:    gocv.NewMat(),
	}
}

// Blend copies the overlay's drawn pixels onto frame in place.
//
// Pixels the decoder left transparent keep the frame's content; contour and
// marker pixels replace it. The frame must match the overlay's dimensions.
//
// Arguments:
//   - frame: The BGR frame to blend onto, modified in place.
//   - overlay: The decoded overlay.
//
// Returns:
//   - error: An error if the frame is empty or the dimensions differ.
func (c *Compositor) Blend(frame *gocv.Mat, overlay *raster.Buffer) error {
	if frame == nil || frame.Empty() {
		return errors.New("empty frame")
	}
	if frame.Cols() != overlay.Width() || frame.Rows() != overlay.Height() {
		return errors.Errorf("frame %dx%d does not match overlay %dx%d",
			frame.Cols(), frame.Rows(), overlay.Width(), overlay.Height())
	}

	staged, err := gocv.NewMatFromBytes(overlay.Height(), overlay.Width(), gocv.MatTypeCV8UC4, overlay.Pix())
	if err != nil {
		return errors.Wrap(err, "failed to stage overlay")
	}
	// Release any previous staged overlay to avoid memory leaks.
	if !c.Overlay.Empty() {
		c.Overlay.Close()
	}
	c.Overlay = staged

	// The alpha channel selects exactly the drawn pixels.
	channels := gocv.Split(c.Overlay)
	channels[3].CopyTo(&c.Mask)
	for i := range channels {
		channels[i].Close()
	}

	gocv.CvtColor(c.Overlay, &c.BGR, gocv.ColorRGBAToBGR)
	c.BGR.CopyToWithMask(frame, c.Mask)
	return nil
}

// Close releases all OpenCV native resources used by the compositor.
//
// Always call this when you're done to prevent memory leaks.
func (c *Compositor) Close() {
	c.Overlay.Close()
	c.BGR.Close()
	c.Mask.Close()
}
