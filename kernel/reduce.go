package kernel

// ReduceMinF32 computes the row-wise minimum of a rows×cols array. cols
// must be >= 4 and a multiple of 4, per spec §4.1.
func ReduceMinF32(data [][]float32) ([]float32, error) {
	if len(data) == 0 {
		return nil, nil
	}
	cols := len(data[0])
	if err := validateShape(cols); err != nil {
		return nil, err
	}

	out := make([]float32, len(data))
	forEachRow(len(data), func(r int) {
		row := data[r]
		nb := numBlocks(cols)
		partials := make([]float32, nb)
		for b := 0; b < nb; b++ {
			start, end := blockBounds(cols, b)
			partials[b] = treeMinF32(row[start:end])
		}
		m := partials[0]
		for _, p := range partials[1:] {
			if p < m {
				m = p
			}
		}
		out[r] = m
	})
	return out, nil
}

// ReduceMaxU32 computes the row-wise maximum of a rows×cols array,
// bit-exact since integer max has no rounding concerns.
func ReduceMaxU32(data [][]uint32) ([]uint32, error) {
	if len(data) == 0 {
		return nil, nil
	}
	cols := len(data[0])
	if err := validateShape(cols); err != nil {
		return nil, err
	}

	out := make([]uint32, len(data))
	forEachRow(len(data), func(r int) {
		row := data[r]
		nb := numBlocks(cols)
		partials := make([]uint32, nb)
		for b := 0; b < nb; b++ {
			start, end := blockBounds(cols, b)
			partials[b] = treeMaxU32(row[start:end])
		}
		m := partials[0]
		for _, p := range partials[1:] {
			if p > m {
				m = p
			}
		}
		out[r] = m
	})
	return out, nil
}

// ReduceSumF32 computes the row-wise sum of a rows×cols array in f32,
// using a deterministic two-phase tree given a fixed block size.
func ReduceSumF32(data [][]float32) ([]float32, error) {
	if len(data) == 0 {
		return nil, nil
	}
	cols := len(data[0])
	if err := validateShape(cols); err != nil {
		return nil, err
	}

	out := make([]float32, len(data))
	forEachRow(len(data), func(r int) {
		row := data[r]
		nb := numBlocks(cols)
		partials := make([]float32, nb)
		for b := 0; b < nb; b++ {
			start, end := blockBounds(cols, b)
			partials[b] = treeSumF32(row[start:end])
		}
		var sum float32
		for _, p := range partials {
			sum += p
		}
		out[r] = sum
	})
	return out, nil
}

// ReduceSumF32ToF64 is the width-promoting variant: block partials are
// still computed in f32 by the tree (matching the source width), but the
// inter-block accumulation happens in f64 for accuracy, per spec §4.1.
func ReduceSumF32ToF64(data [][]float32) ([]float64, error) {
	if len(data) == 0 {
		return nil, nil
	}
	cols := len(data[0])
	if err := validateShape(cols); err != nil {
		return nil, err
	}

	out := make([]float64, len(data))
	forEachRow(len(data), func(r int) {
		row := data[r]
		nb := numBlocks(cols)
		partials := make([]float32, nb)
		for b := 0; b < nb; b++ {
			start, end := blockBounds(cols, b)
			partials[b] = treeSumF32(row[start:end])
		}
		var sum float64
		for _, p := range partials {
			sum += float64(p)
		}
		out[r] = sum
	})
	return out, nil
}

// treeSumF32 performs a pairwise-halving (barrier-tree) sum over a single
// block, the deterministic intra-block phase of the two-phase reduction.
func treeSumF32(block []float32) float32 {
	buf := append([]float32(nil), block...)
	for n := len(buf); n > 1; n = (n + 1) / 2 {
		half := n / 2
		for i := 0; i < half; i++ {
			buf[i] = buf[2*i] + buf[2*i+1]
		}
		if n%2 == 1 {
			buf[half] = buf[n-1]
			half++
		}
		buf = buf[:half]
	}
	if len(buf) == 0 {
		return 0
	}
	return buf[0]
}

func treeMinF32(block []float32) float32 {
	m := block[0]
	for _, v := range block[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func treeMaxU32(block []uint32) uint32 {
	m := block[0]
	for _, v := range block[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
