package kernel

// InclusiveScanI32 computes out[i] = sum(in[0..i]) per row via a two-phase
// Blelloch scan: per-block up-sweep/down-sweep, then an exclusive prefix
// over the block sums, then an add-block-sums fix-up pass (spec §4.2).
func InclusiveScanI32(data [][]int32) ([][]int32, error) {
	return scanRows(data, true)
}

// ExclusiveScanI32 computes out[0] = 0, out[i] = sum(in[0..i)) per row.
func ExclusiveScanI32(data [][]int32) ([][]int32, error) {
	return scanRows(data, false)
}

func scanRows(data [][]int32, inclusive bool) ([][]int32, error) {
	if len(data) == 0 {
		return nil, nil
	}
	cols := len(data[0])
	if err := validateShape(cols); err != nil {
		return nil, err
	}

	out := make([][]int32, len(data))
	forEachRow(len(data), func(r int) {
		out[r] = scanRow(data[r], inclusive)
	})
	return out, nil
}

func scanRow(in []int32, inclusive bool) []int32 {
	cols := len(in)
	nb := numBlocks(cols)

	blockExclusive := make([][]int32, nb)
	blockSums := make([]int32, nb)
	for b := 0; b < nb; b++ {
		start, end := blockBounds(cols, b)
		ex, sum := blockExclusiveScan(in[start:end])
		blockExclusive[b] = ex
		blockSums[b] = sum
	}

	// Exclusive prefix of block sums gives each block's starting offset —
	// the fix-up pass.
	offsets := make([]int32, nb)
	var running int32
	for b := 0; b < nb; b++ {
		offsets[b] = running
		running += blockSums[b]
	}

	out := make([]int32, cols)
	for b := 0; b < nb; b++ {
		start, _ := blockBounds(cols, b)
		for i, ex := range blockExclusive[b] {
			val := ex + offsets[b]
			if inclusive {
				val += in[start+i]
			}
			out[start+i] = val
		}
	}
	return out
}

// blockExclusiveScan performs an in-block Blelloch up-sweep/down-sweep
// over a power-of-two-padded copy of block, returning the exclusive scan
// (truncated back to len(block)) and the block's total sum.
func blockExclusiveScan(block []int32) ([]int32, int32) {
	n := len(block)
	if n == 0 {
		return nil, 0
	}
	size := nextPow2(n)
	buf := make([]int32, size)
	copy(buf, block)

	// Up-sweep (reduce): build partial sums at each tree level.
	for d := 1; d < size; d *= 2 {
		stride := d * 2
		for i := stride - 1; i < size; i += stride {
			buf[i] += buf[i-d]
		}
	}

	total := buf[size-1]
	buf[size-1] = 0

	// Down-sweep: convert to exclusive prefix.
	for d := size / 2; d >= 1; d /= 2 {
		stride := d * 2
		for i := stride - 1; i < size; i += stride {
			left := buf[i-d]
			buf[i-d] = buf[i]
			buf[i] += left
		}
	}

	return buf[:n], total
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
