package icp

import (
	"math"
	"testing"

	"github.com/kwv/rgbdicp/transform"
)

// syntheticFrame builds a CovarianceFrame and Means from a known rotation
// matrix r and scale s applied to a fixed set of M points, for testing the
// two rotation solvers against a known-good answer.
func syntheticFrame(t *testing.T, r [3][3]float64, s float64, translate [3]float64) (CovarianceFrame, Means) {
	t.Helper()

	mPoints := [][3]float64{
		{1, 0, 0}, {0, 1, 0}, {-1, 0, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1}, {2, 3, 1}, {1, -2, 2},
	}

	fPoints := make([][3]float64, len(mPoints))
	for i, m := range mPoints {
		rm := transform.ApplyMatrix3(r, m)
		fPoints[i] = [3]float64{s*rm[0] + translate[0], s*rm[1] + translate[1], s*rm[2] + translate[2]}
	}

	var meanM, meanF [3]float64
	for i := range mPoints {
		for k := 0; k < 3; k++ {
			meanM[k] += mPoints[i][k]
			meanF[k] += fPoints[i][k]
		}
	}
	n := float64(len(mPoints))
	for k := 0; k < 3; k++ {
		meanM[k] /= n
		meanF[k] /= n
	}
	means := Means{F: meanF, M: meanM}

	var frame CovarianceFrame
	for i := range mPoints {
		var dm, df [3]float64
		for k := 0; k < 3; k++ {
			dm[k] = mPoints[i][k] - meanM[k]
			df[k] = fPoints[i][k] - meanF[k]
		}
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				frame.S[a][b] += dm[a] * df[b]
			}
		}
		frame.SigmaM += dm[0]*dm[0] + dm[1]*dm[1] + dm[2]*dm[2]
		frame.SigmaF += df[0]*df[0] + df[1]*df[1] + df[2]*df[2]
	}

	return frame, means
}

func rotateZ90() [3][3]float64 {
	return [3][3]float64{
		{0, -1, 0},
		{1, 0, 0},
		{0, 0, 1},
	}
}

func TestSolveRotationSVDRecoversKnownTransform(t *testing.T) {
	r := rotateZ90()
	frame, means := syntheticFrame(t, r, 2.0, [3]float64{5, -3, 1})

	got, err := SolveRotationSVD(frame, means)
	if err != nil {
		t.Fatalf("SolveRotationSVD: %v", err)
	}

	assertRecoversTransform(t, got, r, 2.0, means)
}

func TestSolveRotationPowerRecoversKnownTransform(t *testing.T) {
	r := rotateZ90()
	frame, means := syntheticFrame(t, r, 2.0, [3]float64{5, -3, 1})

	got, err := SolveRotationPower(frame, means)
	if err != nil {
		t.Fatalf("SolveRotationPower: %v", err)
	}

	assertRecoversTransform(t, got, r, 2.0, means)
}

func assertRecoversTransform(t *testing.T, got transform.Similarity, wantR [3][3]float64, wantS float64, means Means) {
	t.Helper()

	gotR := got.Matrix3()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if diff := math.Abs(gotR[i][j] - wantR[i][j]); diff > 1e-6 {
				t.Errorf("R[%d][%d] = %v, want %v", i, j, gotR[i][j], wantR[i][j])
			}
		}
	}
	if diff := math.Abs(got.S - wantS); diff > 1e-6 {
		t.Errorf("s = %v, want %v", got.S, wantS)
	}

	// t_k must bring the moving mean back onto the fixed mean.
	rm := transform.ApplyMatrix3(gotR, means.M)
	reconstructed := [3]float64{
		got.S*rm[0] + got.T[0],
		got.S*rm[1] + got.T[1],
		got.S*rm[2] + got.T[2],
	}
	for k := 0; k < 3; k++ {
		if diff := math.Abs(reconstructed[k] - means.F[k]); diff > 1e-6 {
			t.Errorf("reconstructed mean[%d] = %v, want %v", k, reconstructed[k], means.F[k])
		}
	}
}

func TestSolveRotationSVDDegenerateZeroSigmaM(t *testing.T) {
	_, err := SolveRotationSVD(CovarianceFrame{}, Means{})
	if err == nil {
		t.Fatal("expected degenerate error for zero sigma_m")
	}
}

func TestSolveRotationPowerDegenerateZeroSigmaM(t *testing.T) {
	_, err := SolveRotationPower(CovarianceFrame{}, Means{})
	if err == nil {
		t.Fatal("expected degenerate error for zero sigma_m")
	}
}

// Invariant 8: for sigma_m == sigma_f, s_k == 1; for sigma_f == k^2*sigma_m,
// s_k == k.
func TestSolveRotationScaleLaw(t *testing.T) {
	r := rotateZ90()

	equalFrame, equalMeans := syntheticFrame(t, r, 1.0, [3]float64{0, 0, 0})
	got, err := SolveRotationSVD(equalFrame, equalMeans)
	if err != nil {
		t.Fatalf("SolveRotationSVD: %v", err)
	}
	if diff := math.Abs(got.S - 1); diff > 1e-6 {
		t.Errorf("sigma_m == sigma_f: s_k = %v, want 1", got.S)
	}

	const k = 3.0
	scaledFrame, scaledMeans := syntheticFrame(t, r, k, [3]float64{0, 0, 0})
	got, err = SolveRotationSVD(scaledFrame, scaledMeans)
	if err != nil {
		t.Fatalf("SolveRotationSVD: %v", err)
	}
	if diff := math.Abs(got.S - k); diff > 1e-6 {
		t.Errorf("sigma_f = k^2*sigma_m: s_k = %v, want %v", got.S, k)
	}
}
