package nnindex

import (
	"math/rand"
	"runtime"
	"sync"

	"github.com/kwv/rgbdicp/point"
)

// Result is one nearest-neighbour answer: the matched F-point and its
// squared distance under the index's metric.
type Result struct {
	Point  point.Point8
	SqDist float32
}

// Index is an RBC handle built once over a session's fixed landmark set
// (spec §3: RBCIndex). Build never mutates an existing Index in place, so
// a new Index is required whenever F changes; package icp's Session holds
// exactly one Index for its lifetime and rejects a nil Index at
// construction (rerr.ErrInvalidIndex) rather than tracking staleness
// itself.
type Index struct {
	metric Metric
	reps   []point.Point8
	owned  [][]point.Point8
}

// Build partitions landmarks into nr balls around nr representatives
// (spec §4.3's RepresentativeSet), assigning every landmark to its
// nearest representative under metric. This construction is a black box
// per spec §1; only Query's contract is specified.
func Build(landmarks point.LandmarkSet, nr int, alpha float32) (*Index, error) {
	metric, err := NewMetric(alpha)
	if err != nil {
		return nil, err
	}

	reps, err := point.SampleRepresentatives(landmarks, nr)
	if err != nil {
		return nil, err
	}

	owned := make([][]point.Point8, len(reps.Points))
	for _, p := range landmarks.Points {
		best := nearestRepIndex(reps.Points, p, metric)
		owned[best] = append(owned[best], p)
	}

	return &Index{metric: metric, reps: reps.Points, owned: owned}, nil
}

// BuildShuffled is like Build but shuffles the landmark order first.
// Representatives are taken from fixed grid positions, so the shuffle
// makes them a random subset of the landmarks, matching the "random" in
// Random Ball Cover more literally; each landmark is still assigned to its
// nearest representative.
func BuildShuffled(landmarks point.LandmarkSet, nr int, alpha float32, rng *rand.Rand) (*Index, error) {
	shuffled := append([]point.Point8(nil), landmarks.Points...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return Build(point.LandmarkSet{Grid: point.Grid{
		Width: landmarks.Width, Height: landmarks.Height, Points: shuffled,
	}}, nr, alpha)
}

func nearestRepIndex(reps []point.Point8, p point.Point8, metric Metric) int {
	best := 0
	bestDist := metric.SqDist(p, reps[0])
	for i := 1; i < len(reps); i++ {
		d := metric.SqDist(p, reps[i])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// Query returns, for each point in queries, the nearest F-point (and its
// squared distance) found by scanning only the ball owned by the query's
// nearest representative — the approximate, ball-cover query contract of
// spec §4.5. Queries are answered in parallel across a bounded worker
// pool (spec §5's "workgroups that execute in parallel").
func (idx *Index) Query(queries []point.Point8) []Result {
	out := make([]Result, len(queries))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(queries) {
		workers = len(queries)
	}
	if workers <= 1 {
		for i, q := range queries {
			out[i] = idx.queryOne(q)
		}
		return out
	}

	var wg sync.WaitGroup
	chunk := (len(queries) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= len(queries) {
			break
		}
		if end > len(queries) {
			end = len(queries)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = idx.queryOne(queries[i])
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

func (idx *Index) queryOne(q point.Point8) Result {
	repIdx := nearestRepIndex(idx.reps, q, idx.metric)
	ball := idx.owned[repIdx]

	if len(ball) == 0 {
		// An empty ball can happen for sparsely populated representative
		// cells; fall back to scanning every representative's ball to
		// keep Query total, matching "approximate, not guaranteed exact"
		// rather than ever returning no answer.
		return idx.queryFallback(q)
	}

	best := ball[0]
	bestDist := idx.metric.SqDist(q, best)
	for _, c := range ball[1:] {
		d := idx.metric.SqDist(q, c)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	return Result{Point: best, SqDist: bestDist}
}

func (idx *Index) queryFallback(q point.Point8) Result {
	var best point.Point8
	bestDist := float32(-1)
	for _, ball := range idx.owned {
		for _, c := range ball {
			d := idx.metric.SqDist(q, c)
			if bestDist < 0 || d < bestDist {
				bestDist = d
				best = c
			}
		}
	}
	return Result{Point: best, SqDist: bestDist}
}
