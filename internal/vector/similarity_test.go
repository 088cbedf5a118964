package vector

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	if got := Cosine([]float32{1, 2, 3}, []float32{2, 4, 6}); math.Abs(got-1) > 1e-9 {
		t.Errorf("parallel vectors: got %f, want 1", got)
	}
	if got := Cosine([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors: got %f, want 0", got)
	}
	if got := Cosine([]float32{1, 0}, []float32{-3, 0}); math.Abs(got+1) > 1e-9 {
		t.Errorf("opposite vectors: got %f, want -1", got)
	}
}

func TestCosine_degenerate(t *testing.T) {
	if got := Cosine([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Errorf("zero vector: got %f", got)
	}
	if got := Cosine([]float32{1, 1}, []float32{1, 1, 1}); got != 0 {
		t.Errorf("length mismatch: got %f", got)
	}
	if got := Cosine(nil, nil); got != 0 {
		t.Errorf("empty vectors: got %f", got)
	}
}

func TestInnerProductAndNorm(t *testing.T) {
	if got := InnerProduct([]float32{1, 2}, []float32{3, 4}); got != 11 {
		t.Errorf("InnerProduct = %f", got)
	}
	if got := L2Norm([]float32{3, 4}); got != 5 {
		t.Errorf("L2Norm = %f", got)
	}
}
