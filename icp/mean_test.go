package icp

import (
	"math"
	"testing"

	"github.com/kwv/rgbdicp/point"
)

func samplePairs() []Pair {
	return []Pair{
		{F: point.Point8{X: 0, Y: 0, Z: 0}, M: point.Point8{X: 1, Y: 1, Z: 1}, SqDist: 0},
		{F: point.Point8{X: 2, Y: 0, Z: 0}, M: point.Point8{X: 3, Y: 1, Z: 1}, SqDist: 100},
		{F: point.Point8{X: 4, Y: 0, Z: 0}, M: point.Point8{X: 5, Y: 1, Z: 1}, SqDist: 300},
	}
}

func TestMeanRegular(t *testing.T) {
	means, err := MeanRegular(samplePairs())
	if err != nil {
		t.Fatalf("MeanRegular returned error: %v", err)
	}
	want := [3]float64{2, 0, 0}
	if means.F != want {
		t.Errorf("F mean = %v, want %v", means.F, want)
	}
	wantM := [3]float64{3, 1, 1}
	if means.M != wantM {
		t.Errorf("M mean = %v, want %v", means.M, wantM)
	}
}

func TestMeanRegularEmptyInput(t *testing.T) {
	if _, err := MeanRegular(nil); err == nil {
		t.Fatal("expected error for empty pairs")
	}
}

func TestMeanWeighted(t *testing.T) {
	pairs := samplePairs()
	w, err := ComputeWeights(pairs)
	if err != nil {
		t.Fatalf("ComputeWeights: %v", err)
	}
	means, err := MeanWeighted(pairs, w)
	if err != nil {
		t.Fatalf("MeanWeighted: %v", err)
	}

	var wantF, wantM [3]float64
	for i, p := range pairs {
		wi := w.W[i] / w.Sw
		wantF[0] += wi * float64(p.F.X)
		wantM[0] += wi * float64(p.M.X)
		wantM[1] += wi * float64(p.M.Y)
		wantM[2] += wi * float64(p.M.Z)
	}
	// The stage scales and sums in f32 (the reduce primitive's input width),
	// so agreement with the f64 reference is to f32 precision.
	if math.Abs(means.F[0]-wantF[0]) > 1e-6 {
		t.Errorf("weighted F.X = %v, want %v", means.F[0], wantF[0])
	}
	if math.Abs(means.M[0]-wantM[0]) > 1e-6 || math.Abs(means.M[1]-wantM[1]) > 1e-6 || math.Abs(means.M[2]-wantM[2]) > 1e-6 {
		t.Errorf("weighted M mean = %v, want %v", means.M, wantM)
	}
}

func TestMeanWeightedZeroSumDegenerate(t *testing.T) {
	_, err := MeanWeighted(samplePairs(), Weights{W: []float64{0, 0, 0}, Sw: 0})
	if err == nil {
		t.Fatal("expected degenerate error for zero weight sum")
	}
}
