// Package tensors - Adapters from gorgonia dense tensors to landmark
// frames, the seam between graph-based inference sources and the overlay
// decoder.
package tensors

import (
	"github.com/nvr-ai/go-facemesh/decoder"
	"github.com/nvr-ai/go-facemesh/landmarks"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Landmarks extracts a landmark frame from a dense float32 tensor holding
// one flat (x, y, z) triple per keypoint. Any shape with
// landmarks.TensorLength total elements is accepted: (1404), (1, 1404),
// (468, 3).
//
// Arguments:
//   - t: The landmark output tensor.
//
// Returns:
//   - []landmarks.Point: The decoded landmark frame.
//   - error: An error for a nil tensor, a non-float32 dtype, or a size
//     mismatch.
func Landmarks(t *tensor.Dense) ([]landmarks.Point, error) {
	if t == nil {
		return nil, errors.New("nil landmark tensor")
	}
	if t.Dtype() != tensor.Float32 {
		return nil, errors.Errorf("landmark tensor dtype %v, want float32", t.Dtype())
	}
	if size := t.Shape().TotalSize(); size != landmarks.TensorLength {
		return nil, errors.Wrapf(landmarks.ErrTensorLength, "tensor shape %v has %d elements", t.Shape(), size)
	}
	data, ok := t.Data().([]float32)
	if !ok {
		return nil, errors.Errorf("landmark tensor backing is %T, want []float32", t.Data())
	}
	return landmarks.FromFlat(data)
}

// FaceFlag extracts the face-presence logit from a scalar or 1-element
// float32 tensor.
//
// Arguments:
//   - t: The confidence output tensor.
//
// Returns:
//   - float32: The raw logit, fed to the sigmoid gate by the decoder.
//   - error: An error for a nil tensor, a non-float32 dtype, or an empty
//     backing.
func FaceFlag(t *tensor.Dense) (float32, error) {
	if t == nil {
		return 0, errors.New("nil face-flag tensor")
	}
	if t.Dtype() != tensor.Float32 {
		return 0, errors.Errorf("face-flag tensor dtype %v, want float32", t.Dtype())
	}
	switch data := t.Data().(type) {
	case float32:
		return data, nil
	case []float32:
		if len(data) == 0 {
			return 0, errors.New("face-flag tensor is empty")
		}
		return data[0], nil
	default:
		return 0, errors.Errorf("face-flag tensor backing is %T, want float32", t.Data())
	}
}

// Decode extracts a landmark frame and optional face flag from dense
// tensors and renders them through d, in one call. Pass a nil flag tensor
// for sources without a confidence head; the gate is then bypassed.
//
// Arguments:
//   - d: The configured overlay decoder.
//   - frame: The output pixels, sized per the decoder's configuration.
//   - lm: The landmark output tensor.
//   - flag: The confidence output tensor, nil when the source has none.
//
// Returns:
//   - decoder.Result: The mapped points and the gate outcome.
//   - error: An extraction problem, or any error from the decoder.
func Decode(d *decoder.Decoder, frame []byte, lm, flag *tensor.Dense) (decoder.Result, error) {
	pts, err := Landmarks(lm)
	if err != nil {
		return decoder.Result{}, err
	}
	if flag == nil {
		return d.Decode(frame, pts, nil)
	}
	logit, err := FaceFlag(flag)
	if err != nil {
		return decoder.Result{}, err
	}
	return d.Decode(frame, pts, &logit)
}
