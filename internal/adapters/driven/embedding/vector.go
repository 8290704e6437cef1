// Package embedding holds helpers shared by the embedding service adapters.
// Provider implementations live in the ollama, openai and langchain
// subpackages.
package embedding

import (
	"fmt"
	"math"
)

// Normalize scales v to unit length in place and returns it.
// A zero vector is returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
	return v
}

// FromFloat64 converts a provider vector to a normalised float32 vector.
func FromFloat64(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return Normalize(out)
}

// CheckDimensions verifies every vector has the expected width.
// A non-positive want disables the check.
func CheckDimensions(vectors [][]float32, want int) error {
	if want <= 0 {
		return nil
	}
	for i, v := range vectors {
		if len(v) != want {
			return fmt.Errorf("embedding %d has %d dimensions, expected %d", i, len(v), want)
		}
	}
	return nil
}
