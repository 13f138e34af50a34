package icp

import (
	"errors"
	"math"
	"testing"

	"github.com/kwv/rgbdicp/rerr"
)

// S6: distances [0, 100, 300] -> weights [1.0, 0.5, 0.25], Sw = 1.75
// exactly in f64.
func TestComputeWeightsS6Scenario(t *testing.T) {
	pairs := []Pair{
		{SqDist: 0},
		{SqDist: 100},
		{SqDist: 300},
	}

	w, err := ComputeWeights(pairs)
	if err != nil {
		t.Fatalf("ComputeWeights: %v", err)
	}

	want := []float64{1.0, 0.5, 0.25}
	for i, wi := range want {
		if math.Abs(w.W[i]-wi) > 1e-12 {
			t.Errorf("w[%d] = %v, want %v", i, w.W[i], wi)
		}
	}
	if w.Sw != 1.75 {
		t.Errorf("Sw = %v, want 1.75 exactly", w.Sw)
	}
}

func TestComputeWeightsRangeIsUnitInterval(t *testing.T) {
	pairs := []Pair{{SqDist: 0}, {SqDist: 1e6}, {SqDist: 50}}
	w, err := ComputeWeights(pairs)
	if err != nil {
		t.Fatalf("ComputeWeights: %v", err)
	}
	for i, wi := range w.W {
		if wi <= 0 || wi > 1 {
			t.Errorf("w[%d] = %v, want in (0, 1]", i, wi)
		}
	}
	if w.Sw <= 0 {
		t.Errorf("Sw = %v, want > 0", w.Sw)
	}
}

func TestComputeWeightsEmptyInput(t *testing.T) {
	_, err := ComputeWeights(nil)
	if !errors.Is(err, rerr.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}
