package transform

import "github.com/kwv/rgbdicp/point"

// ApplyQuaternion applies a similarity transform to a set of 8-D points
// using the quaternion form, per spec §4.4:
//
//	p' = s · (p + 2·q_v × (q_v × p + q_w · p)) + t
//
// This avoids constructing R explicitly. Lanes 3-7 (w_g, r, g, b, w_p) are
// copied verbatim.
func ApplyQuaternion(points []point.Point8, t Similarity) []point.Point8 {
	out := make([]point.Point8, len(points))
	qv := [3]float64{t.Q.X, t.Q.Y, t.Q.Z}
	qw := t.Q.W

	for i, p := range points {
		v := [3]float64{float64(p.X), float64(p.Y), float64(p.Z)}
		inner := addScaled(cross(qv, v), v, qw) // q_v × p + q_w·p
		rotated := addVec(v, scale(cross(qv, inner), 2))
		result := addVec(scale(rotated, t.S), t.T)

		out[i] = point.Point8{
			X: float32(result[0]), Y: float32(result[1]), Z: float32(result[2]), Wg: p.Wg,
			R: p.R, G: p.G, B: p.B, Wp: p.Wp,
		}
	}
	return out
}

// ApplyMatrix applies a fused 4×4 homogeneous transform to a set of 8-D
// points: p' = T · (p, 1)ᵀ. Lanes 3-7 are copied verbatim.
func ApplyMatrix(points []point.Point8, m Matrix4) []point.Point8 {
	out := make([]point.Point8, len(points))
	for i, p := range points {
		x := m[0][0]*float64(p.X) + m[0][1]*float64(p.Y) + m[0][2]*float64(p.Z) + m[0][3]
		y := m[1][0]*float64(p.X) + m[1][1]*float64(p.Y) + m[1][2]*float64(p.Z) + m[1][3]
		z := m[2][0]*float64(p.X) + m[2][1]*float64(p.Y) + m[2][2]*float64(p.Z) + m[2][3]

		out[i] = point.Point8{
			X: float32(x), Y: float32(y), Z: float32(z), Wg: p.Wg,
			R: p.R, G: p.G, B: p.B, Wp: p.Wp,
		}
	}
	return out
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func addVec(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func addScaled(a, b [3]float64, s float64) [3]float64 {
	return [3]float64{a[0] + b[0]*s, a[1] + b[1]*s, a[2] + b[2]*s}
}

func scale(a [3]float64, s float64) [3]float64 {
	return [3]float64{a[0] * s, a[1] * s, a[2] * s}
}
