package icp

// Weights holds per-pair inverse-distance weights and their f64 sum (spec
// §4.6): w_i = 100 / (100 + d_i), S_w = Σ w_i.
type Weights struct {
	W  []float64
	Sw float64
}

// ComputeWeights derives inverse-distance weights from NN squared
// distances. w_i is in (0, 1]; Sw > 0 whenever at least one d_i is
// finite. Fails with ErrEmptyInput if pairs is empty.
func ComputeWeights(pairs []Pair) (Weights, error) {
	if len(pairs) == 0 {
		return Weights{}, errEmptyInput("weight")
	}

	w := make([]float64, len(pairs))
	var sw float64
	for i, p := range pairs {
		d := float64(p.SqDist)
		wi := 100.0 / (100.0 + d)
		w[i] = wi
		sw += wi
	}
	return Weights{W: w, Sw: sw}, nil
}
