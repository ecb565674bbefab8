package util

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// TensorFile represents one dumped landmark tensor.
type TensorFile struct {
	// Path is the path to the tensor file.
	Path string
	// Data is the decoded little-endian float32 payload.
	Data []float32
	// Frame is the frame number of the tensor file.
	Frame int
}

// LoadDirectoryTensorFiles reads all raw tensor dumps from a directory.
//
// Dumps are named frame-N.raw or frame-N.bin and hold little-endian float32
// values, the layout tensor sinks write when tapping a landmark stream.
//
// Arguments:
// - dir: Directory path containing tensor dumps.
//
// Returns:
// - []TensorFile: Slice of TensorFile ordered by frame number.
// - error: Error if loading fails.
func LoadDirectoryTensorFiles(dir string) ([]TensorFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var tensors []TensorFile
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		ext := filepath.Ext(file.Name())
		switch ext {
		case ".raw", ".bin":
			path := filepath.Join(dir, file.Name())
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				return nil, readErr
			}
			floats, decErr := DecodeFloat32LE(data)
			if decErr != nil {
				return nil, errors.Wrap(decErr, path)
			}
			frame, err := strconv.Atoi(strings.TrimSuffix(strings.ReplaceAll(file.Name(), "frame-", ""), ext))
			if err != nil {
				return nil, err
			}
			tensors = append(tensors, TensorFile{
				Path:  path,
				Data:  floats,
				Frame: frame,
			})
		}
	}

	sort.Slice(tensors, func(i, j int) bool {
		return tensors[i].Frame < tensors[j].Frame
	})

	return tensors, nil
}

// DecodeFloat32LE decodes a raw little-endian float32 payload.
//
// Arguments:
// - b: The raw bytes, a multiple of 4 long.
//
// Returns:
// - []float32: The decoded values.
// - error: Error when the length is not a whole number of float32 values.
func DecodeFloat32LE(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, errors.Errorf("%d bytes is not a whole number of float32 values", len(b))
	}
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, nil
}
