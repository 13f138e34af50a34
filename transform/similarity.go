// Package transform implements the similarity transform T = (q, t, s), its
// matrix form, application to point sets (spec §4.4), and the per-step
// accumulation rule used by the ICP driver (spec §4.10).
package transform

import "math"

// Quat is a unit quaternion (x, y, z, w).
type Quat struct {
	X, Y, Z, W float64
}

// IdentityQuat is the no-rotation quaternion.
var IdentityQuat = Quat{0, 0, 0, 1}

// Norm returns the quaternion's Euclidean norm.
func (q Quat) Norm() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalized returns q scaled to unit norm. If q is the zero quaternion it
// returns IdentityQuat rather than dividing by zero.
func (q Quat) Normalized() Quat {
	n := q.Norm()
	if n == 0 {
		return IdentityQuat
	}
	return Quat{q.X / n, q.Y / n, q.Z / n, q.W / n}
}

// AngleDeg returns the rotation angle of q in degrees, via the same
// atan2(‖vec‖, w) convention the convergence driver uses for Δangle
// (spec §4.12).
func (q Quat) AngleDeg() float64 {
	vecNorm := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	return 180.0 / math.Pi * 2 * math.Atan2(vecNorm, q.W)
}

// Matrix3 returns the 3×3 rotation matrix corresponding to q, row-major.
func (q Quat) Matrix3() [3][3]float64 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	return [3][3]float64{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}
}

// QuatFromMatrix3 extracts a unit quaternion from a rotation matrix using
// Shepperd's method (numerically stable across all rotation angles).
func QuatFromMatrix3(r [3][3]float64) Quat {
	trace := r[0][0] + r[1][1] + r[2][2]

	var q Quat
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1.0)
		q.W = 0.25 / s
		q.X = (r[2][1] - r[1][2]) * s
		q.Y = (r[0][2] - r[2][0]) * s
		q.Z = (r[1][0] - r[0][1]) * s
	case r[0][0] > r[1][1] && r[0][0] > r[2][2]:
		s := 2.0 * math.Sqrt(1.0+r[0][0]-r[1][1]-r[2][2])
		q.W = (r[2][1] - r[1][2]) / s
		q.X = 0.25 * s
		q.Y = (r[0][1] + r[1][0]) / s
		q.Z = (r[0][2] + r[2][0]) / s
	case r[1][1] > r[2][2]:
		s := 2.0 * math.Sqrt(1.0+r[1][1]-r[0][0]-r[2][2])
		q.W = (r[0][2] - r[2][0]) / s
		q.X = (r[0][1] + r[1][0]) / s
		q.Y = 0.25 * s
		q.Z = (r[1][2] + r[2][1]) / s
	default:
		s := 2.0 * math.Sqrt(1.0+r[2][2]-r[0][0]-r[1][1])
		q.W = (r[1][0] - r[0][1]) / s
		q.X = (r[0][2] + r[2][0]) / s
		q.Y = (r[1][2] + r[2][1]) / s
		q.Z = 0.25 * s
	}
	return q.Normalized()
}

// MultiplyMatrix3 composes two rotation matrices: result = a * b.
func MultiplyMatrix3(a, b [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a[i][k] * b[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// ApplyMatrix3 applies a 3×3 matrix to a vector.
func ApplyMatrix3(m [3][3]float64, v [3]float64) [3]float64 {
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Similarity is the registration result T = (R, t, s), carried as an
// invariant-preserving (q, t, s) triple per spec §3: ‖q‖ = 1 after every
// update and s > 0.
type Similarity struct {
	Q Quat
	T [3]float64
	S float64
}

// Identity returns the session-start transform: q = (0,0,0,1), t = 0, s = 1.
func Identity() Similarity {
	return Similarity{Q: IdentityQuat, T: [3]float64{0, 0, 0}, S: 1}
}

// Matrix3 returns the similarity's rotation matrix.
func (t Similarity) Matrix3() [3][3]float64 {
	return t.Q.Matrix3()
}

// Marshal returns T as the 8 f32 words of the on-wire layout (spec §6), in
// the order [q_x, q_y, q_z, q_w, t_x, t_y, t_z, s]. It does not encode the
// words to bytes.
func (t Similarity) Marshal() [8]float32 {
	return [8]float32{
		float32(t.Q.X), float32(t.Q.Y), float32(t.Q.Z), float32(t.Q.W),
		float32(t.T[0]), float32(t.T[1]), float32(t.T[2]), float32(t.S),
	}
}

// Unmarshal reconstructs a Similarity from its on-wire layout.
func Unmarshal(words [8]float32) Similarity {
	return Similarity{
		Q: Quat{float64(words[0]), float64(words[1]), float64(words[2]), float64(words[3])},
		T: [3]float64{float64(words[4]), float64(words[5]), float64(words[6])},
		S: float64(words[7]),
	}
}

// Matrix4 is a 4×4 homogeneous transform with R' = s·R already fused into
// the upper-left 3×3 block, per spec §4.4's matrix form.
type Matrix4 [4][4]float64

// Matrix4 builds the fused 4×4 homogeneous form of T.
func (t Similarity) Matrix4() Matrix4 {
	r := t.Matrix3()
	var m Matrix4
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = t.S * r[i][j]
		}
		m[i][3] = t.T[i]
	}
	m[3] = [4]float64{0, 0, 0, 1}
	return m
}

// Accumulate composes the session transform with an incremental step per
// spec §4.10: R ← R_k·R, t ← s_k·R_k·t + t_k, s ← s_k·s, q ← quat(R).
func Accumulate(current, incremental Similarity) Similarity {
	rk := incremental.Matrix3()
	r := current.Matrix3()

	newR := MultiplyMatrix3(rk, r)
	rkT := ApplyMatrix3(rk, current.T)
	newT := [3]float64{
		incremental.S*rkT[0] + incremental.T[0],
		incremental.S*rkT[1] + incremental.T[1],
		incremental.S*rkT[2] + incremental.T[2],
	}
	newS := incremental.S * current.S

	return Similarity{
		Q: QuatFromMatrix3(newR),
		T: newT,
		S: newS,
	}
}
