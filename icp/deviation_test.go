package icp

import "testing"

func TestComputeDeviations(t *testing.T) {
	pairs := samplePairs()
	means, err := MeanRegular(pairs)
	if err != nil {
		t.Fatalf("MeanRegular: %v", err)
	}
	dev := ComputeDeviations(pairs, means)

	if len(dev.F) != len(pairs) || len(dev.M) != len(pairs) {
		t.Fatalf("deviation count = (%d, %d), want %d each", len(dev.F), len(dev.M), len(pairs))
	}

	for i, p := range pairs {
		wantF := [3]float64{float64(p.F.X) - means.F[0], float64(p.F.Y) - means.F[1], float64(p.F.Z) - means.F[2]}
		if dev.F[i] != wantF {
			t.Errorf("dev.F[%d] = %v, want %v", i, dev.F[i], wantF)
		}
	}

	var sumF [3]float64
	for _, d := range dev.F {
		sumF[0] += d[0]
		sumF[1] += d[1]
		sumF[2] += d[2]
	}
	if abs(sumF[0]) > 1e-9 || abs(sumF[1]) > 1e-9 || abs(sumF[2]) > 1e-9 {
		t.Errorf("unweighted deviations should sum to zero, got %v", sumF)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
