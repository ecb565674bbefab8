package landmarks

import "github.com/chewxy/math32"

// Sigmoid maps a raw model logit to a probability. Saturates to exactly 0
// and 1 for infinite logits; NaN propagates.
func Sigmoid(logit float32) float32 {
	return 1 / (1 + math32.Exp(-logit))
}

// Gate applies the face-presence test that decides whether a frame is
// drawn.
//
// Arguments:
//   - logit: The raw face-presence score from the model.
//   - threshold: The acceptance threshold on the sigmoid probability.
//
// Returns:
//   - float32: The sigmoid probability.
//   - bool: Whether the probability met the threshold. The comparison is
//     inclusive; a NaN probability never passes.
func Gate(logit, threshold float32) (float32, bool) {
	p := Sigmoid(logit)
	return p, p >= threshold
}
