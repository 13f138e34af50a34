// Package kernel implements the two data-parallel primitives every later
// pipeline stage composes: row-wise reduce (C1) and row-wise scan (C2).
// Spec §9 calls for modeling "workgroups that execute in parallel, each
// internally using a barrier-based tree" as an idiomatic Go construct
// rather than a literal GPU binding — no compute-shader or CUDA/OpenCL
// package exists anywhere in the retrieved corpus to ground one on. Here
// that becomes a bounded worker pool: rows are partitioned across
// GOMAXPROCS goroutines, and within a row, elements are partitioned into
// fixed-size blocks that are tree-reduced/scanned independently before a
// deterministic, sequential inter-block fix-up pass — the same two-phase
// shape the spec describes for a GPU workgroup tree.
package kernel

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/kwv/rgbdicp/rerr"
)

// laneWidth models a GPU SIMD/warp width; blockElems and maxBlocksPerRow
// are the tree's fixed fan-in, matching spec §4.1's "each block handles
// 8·lane_width elements, with at most 8·lane_width blocks per row".
const (
	laneWidth       = 32
	blockElems      = 8 * laneWidth
	maxBlocksPerRow = 8 * laneWidth
	maxColsPerRow   = blockElems * maxBlocksPerRow
)

func validateShape(cols int) error {
	if cols < 4 || cols%4 != 0 {
		return fmt.Errorf("kernel: cols=%d must be >= 4 and a multiple of 4: %w", cols, rerr.ErrInvalidShape)
	}
	if cols > maxColsPerRow {
		return fmt.Errorf("kernel: cols=%d exceeds max %d for a single-pass tree: %w", cols, maxColsPerRow, rerr.ErrSizeExceeded)
	}
	return nil
}

// forEachRow runs fn(rowIndex) across rows, bounded by GOMAXPROCS
// goroutines, and waits for all of them to finish before returning — the
// "queue flush at iteration boundaries" the spec describes for kernel
// dispatch.
func forEachRow(rows int, fn func(row int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > rows {
		workers = rows
	}
	if workers <= 1 {
		for r := 0; r < rows; r++ {
			fn(r)
		}
		return
	}

	var wg sync.WaitGroup
	next := make(chan int)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for r := range next {
				fn(r)
			}
		}()
	}
	for r := 0; r < rows; r++ {
		next <- r
	}
	close(next)
	wg.Wait()
}

// blockBounds returns the [start, end) index range of block b within a row
// of the given length.
func blockBounds(cols, b int) (int, int) {
	start := b * blockElems
	end := start + blockElems
	if end > cols {
		end = cols
	}
	return start, end
}

func numBlocks(cols int) int {
	return (cols + blockElems - 1) / blockElems
}
