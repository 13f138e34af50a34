package icp

// Deviations holds per-pair xyz deviations from the paired means (spec
// §4.8): d_f,i = f_i − f̄, d_m,i = m_i − m̄.
type Deviations struct {
	F, M [][3]float64
}

// ComputeDeviations subtracts the paired means from both point sets. Pure
// and elementwise.
func ComputeDeviations(pairs []Pair, means Means) Deviations {
	df := make([][3]float64, len(pairs))
	dm := make([][3]float64, len(pairs))
	for i, p := range pairs {
		df[i] = [3]float64{float64(p.F.X) - means.F[0], float64(p.F.Y) - means.F[1], float64(p.F.Z) - means.F[2]}
		dm[i] = [3]float64{float64(p.M.X) - means.M[0], float64(p.M.Y) - means.M[1], float64(p.M.Z) - means.M[2]}
	}
	return Deviations{F: df, M: dm}
}
