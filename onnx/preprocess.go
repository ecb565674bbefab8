package onnx

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"
)

// PrepareInput prepares the input for the face landmark model before
// inference is called.
//
// The image is resized to InputSize x InputSize and written into data as
// three [0,1] channel planes in CHW order.
//
// Arguments:
//   - img: The image to prepare.
//   - data: The backing slice of the input tensor to populate.
//
// Returns:
//   - error: An error if the input preparation fails.
func PrepareInput(img image.Image, data []float32) error {
	channelSize := InputSize * InputSize
	if len(data) < (channelSize * 3) {
		return fmt.Errorf("Destination tensor only holds %d floats, needs "+
			"%d (make sure it's the right shape!)", len(data), channelSize*3)
	}
	red := data[0:channelSize]
	green := data[channelSize : channelSize*2]
	blue := data[channelSize*2 : channelSize*3]

	// Resize the image to the model input resolution using Lanczos3 algorithm.
	img = resize.Resize(InputSize, InputSize, img, resize.Lanczos3)

	i := 0
	for y := 0; y < InputSize; y++ {
		for x := 0; x < InputSize; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			red[i] = float32(r>>8) / 255.0
			green[i] = float32(g>>8) / 255.0
			blue[i] = float32(b>>8) / 255.0
			i++
		}
	}
	return nil
}
