package main

import (
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-facemesh/decoder"
	"github.com/nvr-ai/go-facemesh/images"
	"github.com/nvr-ai/go-facemesh/landmarks"
	"github.com/nvr-ai/go-facemesh/onnx"
	"github.com/nvr-ai/go-facemesh/raster"
	"github.com/nvr-ai/go-facemesh/video"
)

func main() {
	// set to use a video capture device 0
	deviceID := 0

	// open webcam
	webcam, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer webcam.Close()

	// open display window
	window := gocv.NewWindow("Face Mesh")
	defer window.Close()

	// prepare image matrix
	img := gocv.NewMat()
	defer img.Close()

	// load the landmark model; without it the demo animates a synthetic face
	session, err := onnx.NewSession("face_landmark.onnx")
	if err != nil {
		fmt.Printf("no landmark model (%v); animating a synthetic face\n", err)
		session = nil
	} else {
		defer session.Close()
	}

	// read one frame to learn the stream dimensions
	if ok := webcam.Read(&img); !ok || img.Empty() {
		fmt.Printf("cannot read device %v\n", deviceID)
		return
	}
	width, height := img.Cols(), img.Rows()

	if res, ok := images.GetHighestResolutionUnderDimensions(width, height); ok {
		fmt.Printf("camera stream %dx%d (~%s)\n", width, height, res.Name)
	}

	// overlays are decoded at frame size so they blend without rescaling
	cfg := decoder.DefaultConfig(decoder.ModeFaceLandmark)
	cfg.InputWidth = onnx.InputSize
	cfg.InputHeight = onnx.InputSize
	cfg.OutputWidth = width
	cfg.OutputHeight = height

	dec, err := decoder.NewWithConfig(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}

	overlay, err := raster.New(width, height)
	if err != nil {
		fmt.Println(err)
		return
	}

	compositor := video.NewCompositor()
	defer compositor.Close()

	tensor := make([]float32, landmarks.TensorLength)
	phase := float32(0)

	// FPS tracking variables
	fps := 0.0
	frameCount := 0
	lastTime := time.Now()

	fmt.Printf("start reading camera device: %v\n", deviceID)
	for {
		if ok := webcam.Read(&img); !ok {
			fmt.Printf("cannot read device %v\n", deviceID)
			return
		}
		if img.Empty() {
			continue
		}

		// Update FPS calculation
		frameCount++
		currentTime := time.Now()
		elapsed := currentTime.Sub(lastTime).Seconds()

		// Calculate FPS every second
		if elapsed >= 1.0 {
			fps = float64(frameCount) / elapsed
			frameCount = 0
			lastTime = currentTime
		}

		var result decoder.Result
		if session != nil {
			frame, err := img.ToImage()
			if err != nil {
				fmt.Println(err)
				continue
			}
			pts, flagVal, err := session.Run(frame)
			if err != nil {
				fmt.Println(err)
				continue
			}
			result, err = dec.Decode(overlay.Pix(), pts, &flagVal)
			if err != nil {
				fmt.Println(err)
				continue
			}
		} else {
			phase += 0.05
			_ = landmarks.SyntheticInto(tensor, float32(cfg.InputWidth), float32(cfg.InputHeight), phase)
			result, err = dec.DecodeTensors(overlay.Pix(), tensor, nil)
			if err != nil {
				fmt.Println(err)
				continue
			}
		}

		// a failed gate leaves the camera frame clean
		if result.Valid {
			if err := compositor.Blend(&img, overlay); err != nil {
				fmt.Println(err)
			}
		}

		fmt.Printf("face %v (p=%.2f) | %d landmarks | FPS: %.2f\n",
			result.Valid, result.Probability, len(result.Points), fps)

		// show the image in the window, and wait 1 millisecond
		window.IMShow(img)
		window.WaitKey(1)
	}
}
