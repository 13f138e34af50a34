package icp

import (
	"math"

	"github.com/kwv/rgbdicp/transform"
	"gonum.org/v1/gonum/mat"
)

// SolveRotationSVD extracts (q_k, t_k, s_k) from a CovarianceFrame via
// SVD of S, the CPU variant of spec §4.10's rotation solver (Variant A):
// S = U·Σ·Vᵀ, R_k = V·Uᵀ, with the sign of the last column of V flipped
// (equivalently V·diag(1,1,det)·Uᵀ) whenever det R_k < 0 to enforce a
// proper rotation.
func SolveRotationSVD(frame CovarianceFrame, means Means) (transform.Similarity, error) {
	if frame.SigmaM == 0 {
		return transform.Similarity{}, errDegenerate("sigma_m is zero")
	}
	if !finiteFrame(frame) {
		return transform.Similarity{}, errDegenerate("non-finite covariance values")
	}

	s := mat.NewDense(3, 3, []float64{
		frame.S[0][0], frame.S[0][1], frame.S[0][2],
		frame.S[1][0], frame.S[1][1], frame.S[1][2],
		frame.S[2][0], frame.S[2][1], frame.S[2][2],
	})

	var svd mat.SVD
	if ok := svd.Factorize(s, mat.SVDFull); !ok {
		return transform.Similarity{}, errDegenerate("SVD factorization failed")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	r := matMul3(&v, transposed3(&u))
	if det3(r) < 0 {
		// Flip V's last column (equivalent to V·diag(1,1,det)·Uᵀ).
		for i := 0; i < 3; i++ {
			v.Set(i, 2, -v.At(i, 2))
		}
		r = matMul3(&v, transposed3(&u))
	}

	sk := math.Sqrt(frame.SigmaF / frame.SigmaM)
	q := transform.QuatFromMatrix3(r)
	tk := hornTranslation(means, r, sk)

	return transform.Similarity{Q: q, T: tk, S: sk}, nil
}

func finiteFrame(f CovarianceFrame) bool {
	if math.IsInf(f.SigmaM, 0) || math.IsNaN(f.SigmaM) || math.IsInf(f.SigmaF, 0) || math.IsNaN(f.SigmaF) {
		return false
	}
	for _, row := range f.S {
		for _, v := range row {
			if math.IsInf(v, 0) || math.IsNaN(v) {
				return false
			}
		}
	}
	return true
}

// hornTranslation computes t_k = f̄ − s_k·R_k·m̄ (spec §4.10).
func hornTranslation(means Means, r [3][3]float64, sk float64) [3]float64 {
	rm := transform.ApplyMatrix3(r, means.M)
	return [3]float64{
		means.F[0] - sk*rm[0],
		means.F[1] - sk*rm[1],
		means.F[2] - sk*rm[2],
	}
}

func matMul3(a, b *mat.Dense) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a.At(i, k) * b.At(k, j)
			}
			out[i][j] = sum
		}
	}
	return out
}

func transposed3(m *mat.Dense) *mat.Dense {
	out := mat.NewDense(3, 3, nil)
	out.CloneFrom(m.T())
	return out
}

func det3(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}
