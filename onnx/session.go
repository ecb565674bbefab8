// Package onnx - ONNX Runtime face landmark inference.
package onnx

import (
	"fmt"
	"image"
	"log"
	"os"
	"runtime"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/nvr-ai/go-facemesh/landmarks"
)

// InputSize is the width and height of the model input plane. MediaPipe face
// landmark models take a 1x3x192x192 float32 tensor.
const InputSize = 192

// Tensor node names of the face landmark ONNX export. The mesh output carries
// the flattened 468x3 landmark tensor in model input coordinates, the flag
// output a single face-presence logit.
const (
	InputName   = "input_1"
	MeshOutName = "conv2d_21"
	FlagOutName = "conv2d_31"
)

// Session wraps an ONNX Runtime session for a MediaPipe face landmark model
// with preallocated input and output tensors.
//
// The mesh output is in model input space (192x192); feed the points to a
// decoder configured with a matching input size to map them onto a frame.
type Session struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	meshOut *ort.Tensor[float32]
	flagOut *ort.Tensor[float32]
	points  []landmarks.Point
}

// NewSession creates a face landmark inference session.
//
// Order of operations:
//  1. Library path check: Ensures the native runtime is accessible.
//  2. Environment setup: Required once per process.
//  3. Tensor allocation: Fixed-shape buffers for input and both outputs.
//  4. Session options: Threading and graph optimization level.
//  5. Session creation: Loads the model and binds the tensors.
//
// Arguments:
//   - modelPath: Path to the face landmark ONNX model file.
//
// Returns:
//   - *Session: The inference session.
//   - error: An error if the session creation fails.
func NewSession(modelPath string) (*Session, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("face landmark model not found at %s: %w", modelPath, err)
	}

	// Check if the shared library exists before trying to use it.
	libPath := SharedLibPath()
	if _, err := os.Stat(libPath); os.IsNotExist(err) {
		return nil, fmt.Errorf(
			"ONNX Runtime library not found at %s. On macOS ARM64, you need to build ONNX Runtime from source or disable ONNX Runtime. Error: %w",
			libPath,
			err,
		)
	}

	ort.SetSharedLibraryPath(libPath)

	// Initialize the ONNX Runtime environment (native layer setup).
	// Required once per process; it loads the native library and prepares internal state.
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("error initializing ORT environment: %w", err)
		}
	}

	inputShape := ort.NewShape(1, 3, InputSize, InputSize)
	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("error creating input tensor: %w", err)
	}

	meshShape := ort.NewShape(1, landmarks.TensorLength)
	meshTensor, err := ort.NewEmptyTensor[float32](meshShape)
	if err != nil {
		inputTensor.Destroy() // Clean up input tensor if mesh tensor creation fails
		return nil, fmt.Errorf("error creating mesh output tensor: %w", err)
	}

	flagShape := ort.NewShape(1, 1)
	flagTensor, err := ort.NewEmptyTensor[float32](flagShape)
	if err != nil {
		inputTensor.Destroy()
		meshTensor.Destroy()
		return nil, fmt.Errorf("error creating flag output tensor: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		inputTensor.Destroy()
		meshTensor.Destroy()
		flagTensor.Destroy()
		return nil, fmt.Errorf("error creating ORT session options: %w", err)
	}
	defer options.Destroy()

	// Sets the number of threads used to parallelize execution within onnxruntime graph nodes. A value of 0 uses the default number of threads.
	options.SetIntraOpNumThreads(4)
	// Sets the number of threads used to parallelize execution across separate onnxruntime graph nodes. A value of 0 uses the default number of threads.
	options.SetInterOpNumThreads(2)
	// Sets the optimization level to apply when loading a graph.
	options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended)

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{InputName},
		[]string{MeshOutName, FlagOutName},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{meshTensor, flagTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		meshTensor.Destroy()
		flagTensor.Destroy()
		return nil, fmt.Errorf("error creating ORT session: %w", err)
	}

	log.Printf("🧠 Face landmark session ready: %s", modelPath)

	return &Session{
		session: session,
		input:   inputTensor,
		meshOut: meshTensor,
		flagOut: flagTensor,
		points:  make([]landmarks.Point, landmarks.NumFaceLandmarks),
	}, nil
}

// Run executes the model on one image and returns the landmark points in
// model input space together with the face-presence logit.
//
// The returned slice is reused between calls; it is valid until the next Run.
//
// Arguments:
//   - img: The image to run inference on.
//
// Returns:
//   - []landmarks.Point: The 468 landmark points, valid until the next Run.
//   - float32: The face-presence logit.
//   - error: An error if inference fails.
func (s *Session) Run(img image.Image) ([]landmarks.Point, float32, error) {
	if s.session == nil {
		return nil, 0, fmt.Errorf("face landmark session not initialized")
	}

	if err := PrepareInput(img, s.input.GetData()); err != nil {
		return nil, 0, fmt.Errorf("failed to prepare input: %w", err)
	}

	if err := s.session.Run(); err != nil {
		return nil, 0, fmt.Errorf("failed to run inference: %w", err)
	}

	if err := landmarks.FromFlatInto(s.points, s.meshOut.GetData()); err != nil {
		return nil, 0, err
	}
	flag := s.flagOut.GetData()[0]

	return s.points, flag, nil
}

// Close releases the resources associated with the Session.
//
// Returns:
//   - No return values.
func (s *Session) Close() {
	if s.input != nil {
		s.input.Destroy()
		s.input = nil
	}
	if s.meshOut != nil {
		s.meshOut.Destroy()
		s.meshOut = nil
	}
	if s.flagOut != nil {
		s.flagOut.Destroy()
		s.flagOut = nil
	}
	if s.session != nil {
		s.session.Destroy()
		s.session = nil
	}
	log.Printf("🔒 Face landmark session closed")
}

// SharedLibPath returns the path to the onnxruntime shared library for the current platform.
//
// Returns:
//   - string: The path to the shared library.
func SharedLibPath() string {
	if runtime.GOOS == "windows" {
		if runtime.GOARCH == "amd64" {
			return "../third_party/onnxruntime.dll"
		}
	}
	if runtime.GOOS == "darwin" {
		if runtime.GOARCH == "arm64" {
			return "./third_party/libonnxruntime.1.23.0.dylib"
		}
		if runtime.GOARCH == "amd64" {
			return "./third_party/libonnxruntime.1.23.0.dylib"
		}

	}
	if runtime.GOOS == "linux" {
		if runtime.GOARCH == "arm64" {
			return "../third_party/onnxruntime_arm64.so"
		}
		return "../third_party/onnxruntime.so"
	}
	panic("Unable to find a version of the onnxruntime library supporting this system.")
}
