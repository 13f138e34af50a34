package icp

import "github.com/kwv/rgbdicp/kernel"

// CovarianceFrame is (S, σ_m, σ_f) — spec §3's CovarianceFrame. All three
// are computed from deviations already scaled by c; c itself is not stored.
type CovarianceFrame struct {
	S      [3][3]float64
	SigmaM float64
	SigmaF float64
}

// ComputeCrossCovariance builds S[a][b] = Σ ŵ·(c·d_m,i)_a·(c·d_f,i)_b and
// the two scale scalars σ_m, σ_f (spec §4.9). ŵ is 1 for an unweighted
// call (weight == nil) or w_i for a weighted one. Internally this builds
// the 11 packed scalars (row-major S, then [σ_m, σ_f]) as per-point rows
// and reduces each with the shared row-wise sum primitive (C1), the same
// "per-workgroup partial vector plus row-wise reduction" shape spec §4.9
// describes.
func ComputeCrossCovariance(dev Deviations, weight []float64, c float64) (CovarianceFrame, error) {
	n := len(dev.F)
	if n == 0 {
		return CovarianceFrame{}, errEmptyInput("covariance")
	}

	cols := paddedCols(n)
	rows := make([][]float32, 11)
	for i := range rows {
		rows[i] = make([]float32, cols)
	}

	for i := 0; i < n; i++ {
		w := 1.0
		if weight != nil {
			w = weight[i]
		}
		dm := [3]float64{c * dev.M[i][0], c * dev.M[i][1], c * dev.M[i][2]}
		df := [3]float64{c * dev.F[i][0], c * dev.F[i][1], c * dev.F[i][2]}

		idx := 0
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				rows[idx][i] = float32(w * dm[a] * df[b])
				idx++
			}
		}
		rows[9][i] = float32(w * (dm[0]*dm[0] + dm[1]*dm[1] + dm[2]*dm[2]))
		rows[10][i] = float32(w * (df[0]*df[0] + df[1]*df[1] + df[2]*df[2]))
	}

	sums, err := kernel.ReduceSumF32ToF64(rows)
	if err != nil {
		return CovarianceFrame{}, err
	}

	var frame CovarianceFrame
	idx := 0
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			frame.S[a][b] = sums[idx]
			idx++
		}
	}
	frame.SigmaM = sums[9]
	frame.SigmaF = sums[10]
	return frame, nil
}
