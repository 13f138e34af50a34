package icp

import (
	"math"

	"github.com/kwv/rgbdicp/transform"
)

// powerMethodMaxIterations is the hard cap on Horn profile-matrix power
// iterations (spec §4.10 Variant B): the iteration terminates earlier
// whenever the Rayleigh quotient stops improving between successive
// steps.
const powerMethodMaxIterations = 1000

// powerMethodTolerance is the improvement threshold below which
// successive Rayleigh quotients are considered converged.
const powerMethodTolerance = 1e-12

// SolveRotationPower extracts (q_k, t_k, s_k) from a CovarianceFrame via
// the power method on Horn's 4×4 profile matrix N(S) (spec §4.10 Variant
// B), avoiding an SVD. N's dominant eigenvector is the quaternion of the
// best rotation; the corresponding eigenvalue is its Rayleigh quotient.
//
// Open question (kept as specified, not "fixed"): if the dominant
// eigenvalue comes out negative the matrix is shifted once,
// N ← N − λI, and the power iteration is re-run exactly once more from
// x = (1,1,1,1). There is no bounded retry loop beyond this single
// re-shift; a second negative λ after the re-shift is reported as
// ErrNonConvergence rather than iterated further.
func SolveRotationPower(frame CovarianceFrame, means Means) (transform.Similarity, error) {
	if frame.SigmaM == 0 {
		return transform.Similarity{}, errDegenerate("sigma_m is zero")
	}
	if !finiteFrame(frame) {
		return transform.Similarity{}, errDegenerate("non-finite covariance values")
	}

	n := hornProfileMatrix(frame.S)

	x, lambda, err := powerIterate(n, [4]float64{1, 1, 1, 1})
	if err != nil {
		return transform.Similarity{}, err
	}

	if lambda < 0 {
		shifted := n
		for i := 0; i < 4; i++ {
			shifted[i][i] -= lambda
		}
		x, lambda, err = powerIterate(shifted, [4]float64{1, 1, 1, 1})
		if err != nil {
			return transform.Similarity{}, err
		}
		if lambda < 0 {
			return transform.Similarity{}, errNonConvergence("power method eigenvalue remained negative after re-shift")
		}
	}

	q := transform.Quat{X: x[1], Y: x[2], Z: x[3], W: x[0]}.Normalized()
	r := q.Matrix3()

	sk := math.Sqrt(frame.SigmaF / frame.SigmaM)
	tk := hornTranslation(means, r, sk)

	return transform.Similarity{Q: q, T: tk, S: sk}, nil
}

// hornProfileMatrix builds Horn's 4×4 symmetric profile matrix N from the
// 3×3 cross-covariance S:
//
//	N = [ trace(S)   Δᵀ          ]
//	    [ Δ          S+Sᵀ−tr(S)I ]
//
// where Δ = (S[1][2]-S[2][1], S[2][0]-S[0][2], S[0][1]-S[1][0]).
func hornProfileMatrix(s [3][3]float64) [4][4]float64 {
	trace := s[0][0] + s[1][1] + s[2][2]
	delta := [3]float64{
		s[1][2] - s[2][1],
		s[2][0] - s[0][2],
		s[0][1] - s[1][0],
	}

	var n [4][4]float64
	n[0][0] = trace
	for i := 0; i < 3; i++ {
		n[0][i+1] = delta[i]
		n[i+1][0] = delta[i]
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			n[i+1][j+1] = s[i][j] + s[j][i]
		}
		n[i+1][i+1] -= trace
	}
	return n
}

// powerIterate runs the power method to convergence or the iteration cap,
// returning the dominant unit eigenvector and its Rayleigh quotient.
func powerIterate(n [4][4]float64, x0 [4]float64) ([4]float64, float64, error) {
	x := normalize4(x0)
	prevLambda := math.Inf(-1)

	for iter := 0; iter < powerMethodMaxIterations; iter++ {
		y := mulVec4(n, x)
		norm := norm4(y)
		if norm == 0 {
			return [4]float64{}, 0, errDegenerate("power method produced a zero vector")
		}
		x = scale4(y, 1/norm)

		lambda := rayleigh4(n, x)
		if math.Abs(lambda-prevLambda) < powerMethodTolerance {
			return x, lambda, nil
		}
		prevLambda = lambda
	}
	return x, prevLambda, nil
}

func mulVec4(m [4][4]float64, v [4]float64) [4]float64 {
	var out [4]float64
	for i := 0; i < 4; i++ {
		var sum float64
		for j := 0; j < 4; j++ {
			sum += m[i][j] * v[j]
		}
		out[i] = sum
	}
	return out
}

func rayleigh4(m [4][4]float64, x [4]float64) float64 {
	mx := mulVec4(m, x)
	var num float64
	for i := 0; i < 4; i++ {
		num += x[i] * mx[i]
	}
	return num
}

func norm4(v [4]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2] + v[3]*v[3])
}

func normalize4(v [4]float64) [4]float64 {
	n := norm4(v)
	if n == 0 {
		return [4]float64{0, 0, 0, 1}
	}
	return scale4(v, 1/n)
}

func scale4(v [4]float64, k float64) [4]float64 {
	return [4]float64{v[0] * k, v[1] * k, v[2] * k, v[3] * k}
}
