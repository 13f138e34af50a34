// Package icp implements the per-iteration ICPStep pipeline (C6-C11) and
// the convergence-driven Session API (C12) on top of the kernel reduce/scan
// primitives, the nnindex RBC oracle, and the transform package's
// similarity-transform math.
package icp

import (
	"math"

	"github.com/kwv/rgbdicp/nnindex"
	"github.com/kwv/rgbdicp/point"
	"github.com/kwv/rgbdicp/transform"
)

// RotationSolver selects C10's implementation.
type RotationSolver int

const (
	// RotationSolverPowerMethod uses the power method on Horn's 4×4 profile
	// matrix (spec §4.10 Variant B). This is the default.
	RotationSolverPowerMethod RotationSolver = iota
	// RotationSolverSVD uses SVD of the 3×3 cross-covariance (spec §4.10
	// Variant A).
	RotationSolverSVD
)

// Weighting selects whether C6, C7 and C9 use inverse-distance weighting.
type Weighting int

const (
	// WeightingWeighted applies w_i = 100/(100+d_i) to every correspondence.
	// This is the default.
	WeightingWeighted Weighting = iota
	// WeightingNone treats every correspondence equally.
	WeightingNone
)

type rotationSolverFunc func(CovarianceFrame, Means) (transform.Similarity, error)

// stageTable dispatches on RotationSolver without a compile-time template
// family (spec §9's enum-dispatch design note): one function value per
// enum member, chosen once per Driver rather than per call.
var stageTable = map[RotationSolver]rotationSolverFunc{
	RotationSolverPowerMethod: SolveRotationPower,
	RotationSolverSVD:         SolveRotationSVD,
}

// StepConfig holds the per-iteration knobs a Driver needs beyond the NN
// index itself: which rotation solver and weighting scheme to dispatch to,
// and the deviation scale factor c (spec §4.9).
type StepConfig struct {
	RotationSolver RotationSolver
	Weighting      Weighting
	C              float64
}

// StepMetrics reports what one Step did, for convergence checking and
// tracing.
type StepMetrics struct {
	Incremental    transform.Similarity
	PairCount      int
	DeltaAngleDeg  float64
	DeltaTranslate float64
}

// pipelineContext holds a Driver's per-iteration buffers in one place
// (spec §9's collapsed "pipeline context" design note). The pairs buffer's
// backing array is reused across Step calls; transformed holds the M′
// slice that ApplyQuaternion allocates anew on every Step, and the later
// stages allocate their own outputs.
type pipelineContext struct {
	transformed []point.Point8
	pairs       []Pair
}

// Driver runs one ICPStep at a time: Transform moving landmarks by the
// current estimate, query the NN oracle, optionally weigh, and solve for
// the incremental similarity transform that is accumulated into the
// running estimate (spec §4.11's composed C4-C10 pipeline; §4.12's
// convergence loop lives in Session).
type Driver struct {
	movingLandmarks point.LandmarkSet
	index           *nnindex.Index
	config          StepConfig
	current         transform.Similarity
	ctx             pipelineContext
}

// NewDriver builds a Driver over a fixed moving-landmark set and NN index.
// current starts at the identity transform.
func NewDriver(movingLandmarks point.LandmarkSet, index *nnindex.Index, config StepConfig) (*Driver, error) {
	if index == nil {
		return nil, errInvalidIndex("nil RBC index")
	}
	if _, ok := stageTable[config.RotationSolver]; !ok {
		return nil, errDegenerate("unknown rotation solver")
	}
	return &Driver{
		movingLandmarks: movingLandmarks,
		index:           index,
		config:          config,
		current:         transform.Identity(),
	}, nil
}

// Current returns the Driver's running similarity estimate.
func (d *Driver) Current() transform.Similarity {
	return d.current
}

// Reset restores the Driver's running estimate to identity, for reuse
// against a new moving cloud without rebuilding the NN index.
func (d *Driver) Reset() {
	d.current = transform.Identity()
}

// Step runs one full ICPStep: C4 Transform, C5 NnQuery, optional C6 Weight,
// C7 Mean, C8 Deviation, C9 CrossCovariance, C10 Solve, then accumulates
// the incremental transform into the Driver's running estimate.
func (d *Driver) Step() (StepMetrics, error) {
	moved := transform.ApplyQuaternion(d.movingLandmarks.Points, d.current)
	d.ctx.transformed = moved

	results := d.index.Query(moved)

	pairs := d.ctx.pairs[:0]
	if cap(pairs) < len(results) {
		pairs = make([]Pair, 0, len(results))
	}
	for i, r := range results {
		pairs = append(pairs, Pair{F: r.Point, M: moved[i], SqDist: r.SqDist})
	}
	d.ctx.pairs = pairs

	var (
		means Means
		w     []float64
		err   error
	)
	if d.config.Weighting == WeightingWeighted {
		weights, werr := ComputeWeights(pairs)
		if werr != nil {
			return StepMetrics{}, werr
		}
		w = weights.W
		means, err = MeanWeighted(pairs, weights)
	} else {
		means, err = MeanRegular(pairs)
	}
	if err != nil {
		return StepMetrics{}, err
	}

	dev := ComputeDeviations(pairs, means)

	c := d.config.C
	if c == 0 {
		c = 1
	}
	frame, err := ComputeCrossCovariance(dev, w, c)
	if err != nil {
		return StepMetrics{}, err
	}

	solve := stageTable[d.config.RotationSolver]
	incremental, err := solve(frame, means)
	if err != nil {
		return StepMetrics{}, err
	}

	d.current = transform.Accumulate(d.current, incremental)

	return StepMetrics{
		Incremental:    incremental,
		PairCount:      len(pairs),
		DeltaAngleDeg:  incremental.Q.AngleDeg(),
		DeltaTranslate: vecNorm3(incremental.T),
	}, nil
}

func vecNorm3(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
