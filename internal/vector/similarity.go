package vector

import "math"

// CosineSimilarity returns the cosine of the angle between a and b,
// clamped to [-1, 1]. Mismatched lengths or a zero vector on either side
// yield 0 rather than NaN.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	s := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
