// Package vector provides the distance math used to compare embedding
// vectors. Pure, stateless functions; vectors of mismatched length are a
// caller bug and reported as an error rather than a panic.
package vector

import (
	"fmt"
	"math"
)

// Dot returns the dot product of a and b.
func Dot(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}

// Cosine returns the cosine similarity of a and b, in [-1, 1]. A zero vector
// has no direction; similarity against one is an error.
func Cosine(a, b []float64) (float64, error) {
	dot, err := Dot(a, b)
	if err != nil {
		return 0, err
	}
	na := norm(a)
	nb := norm(b)
	if na == 0 || nb == 0 {
		return 0, fmt.Errorf("cosine similarity undefined for zero vector")
	}
	return dot / (na * nb), nil
}

// Euclidean returns the L2 distance between a and b.
func Euclidean(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
