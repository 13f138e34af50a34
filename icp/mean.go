package icp

import "github.com/kwv/rgbdicp/kernel"

// Means holds the (optionally weighted) mean position of the paired F and
// M point sets, xyz only — spec §4.7's packed "[f̄ | m̄]" output (the
// w-component is fixed to zero and so is not represented here).
type Means struct {
	F, M [3]float64
}

// MeanRegular computes unweighted means independently for the F-pairs and
// M-pairs: m̄ = (Σ p_i)/n.
func MeanRegular(pairs []Pair) (Means, error) {
	if len(pairs) == 0 {
		return Means{}, errEmptyInput("mean")
	}

	fSum, mSum, err := sumPairs(pairs, nil)
	if err != nil {
		return Means{}, err
	}
	n := float64(len(pairs))
	return Means{
		F: [3]float64{fSum[0] / n, fSum[1] / n, fSum[2] / n},
		M: [3]float64{mSum[0] / n, mSum[1] / n, mSum[2] / n},
	}, nil
}

// MeanWeighted computes m̄ = (Σ w_i·p_i) / S_w. The division by Sw is
// applied before summation (per spec §4.7) to preserve dynamic range.
func MeanWeighted(pairs []Pair, w Weights) (Means, error) {
	if len(pairs) == 0 {
		return Means{}, errEmptyInput("mean")
	}
	if w.Sw == 0 {
		return Means{}, errDegenerate("mean: zero weight sum")
	}

	normalized := make([]float64, len(w.W))
	for i, wi := range w.W {
		normalized[i] = wi / w.Sw
	}

	fSum, mSum, err := sumPairs(pairs, normalized)
	if err != nil {
		return Means{}, err
	}
	return Means{F: fSum, M: mSum}, nil
}

// sumPairs reduces the (optionally pre-scaled) F and M coordinates across
// all pairs via the shared row-wise reduce primitive (C1), composing it
// the way spec §9's data-flow note describes every stage doing.
func sumPairs(pairs []Pair, weight []float64) (fSum, mSum [3]float64, err error) {
	n := len(pairs)
	cols := paddedCols(n)

	fRows := make([][]float32, 3)
	mRows := make([][]float32, 3)
	for axis := 0; axis < 3; axis++ {
		fRows[axis] = make([]float32, cols)
		mRows[axis] = make([]float32, cols)
	}

	for i, p := range pairs {
		w := float32(1)
		if weight != nil {
			w = float32(weight[i])
		}
		fRows[0][i] = w * p.F.X
		fRows[1][i] = w * p.F.Y
		fRows[2][i] = w * p.F.Z
		mRows[0][i] = w * p.M.X
		mRows[1][i] = w * p.M.Y
		mRows[2][i] = w * p.M.Z
	}

	fOut, err := kernel.ReduceSumF32ToF64(fRows)
	if err != nil {
		return fSum, mSum, err
	}
	mOut, err := kernel.ReduceSumF32ToF64(mRows)
	if err != nil {
		return fSum, mSum, err
	}

	return [3]float64{fOut[0], fOut[1], fOut[2]}, [3]float64{mOut[0], mOut[1], mOut[2]}, nil
}

// paddedCols rounds n up to a multiple of 4, at least 4, to satisfy the
// reduce primitive's shape precondition; padding elements are left at
// zero, which does not perturb a sum.
func paddedCols(n int) int {
	if n < 4 {
		return 4
	}
	if n%4 == 0 {
		return n
	}
	return n + (4 - n%4)
}
