package icp

import (
	"github.com/kwv/rgbdicp/nnindex"
	"github.com/kwv/rgbdicp/point"
	"github.com/kwv/rgbdicp/transform"
)

// Options holds a session's tunables (spec §6's external API surface),
// with the spec-mandated defaults.
type Options struct {
	// Nr is the RBC representative count. Must be a power of two and a
	// multiple of four. Default 256.
	Nr int
	// Alpha is the metric's photometric weighting parameter. Default 200.
	Alpha float32
	// C is the cross-covariance deviation scale factor (spec §4.9). Default 1e-6.
	C float64
	// MaxIterations caps Register's convergence loop. Default 40.
	MaxIterations int
	// AngleThresholdDeg is the incremental rotation-angle convergence
	// threshold, in degrees. Default 1e-3.
	AngleThresholdDeg float64
	// TranslationThresholdMm is the incremental translation-magnitude
	// convergence threshold, in millimetres. Default 1e-2.
	TranslationThresholdMm float64
	// RotationSolver selects C10's implementation. Default RotationSolverPowerMethod.
	RotationSolver RotationSolver
	// Weighting selects whether correspondences are inverse-distance
	// weighted. Default WeightingWeighted.
	Weighting Weighting
}

// DefaultOptions returns the spec-mandated default Options (spec §6).
func DefaultOptions() Options {
	return Options{
		Nr:                     256,
		Alpha:                  200,
		C:                      1e-6,
		MaxIterations:          40,
		AngleThresholdDeg:      1e-3,
		TranslationThresholdMm: 1e-2,
		RotationSolver:         RotationSolverPowerMethod,
		Weighting:              WeightingWeighted,
	}
}

// Tracer receives per-iteration events during Register, an orthogonal
// observation point rather than profiling hooks woven into the pipeline
// (spec §9's tracing design note). A nil Tracer (the default) means no
// tracing.
type Tracer interface {
	TraceIteration(iteration int, metrics StepMetrics)
}

// RegistrationResult is what Register returns: the accumulated transform
// and why the loop stopped.
type RegistrationResult struct {
	T                  transform.Similarity
	Iterations         int
	Converged          bool
	DeltaAngleDeg      float64
	DeltaTranslationMm float64
}

// Session is the external API surface for pairwise registration (spec §6):
// fix an F cloud once, set a moving M cloud any number of times, and run
// Register to convergence or the iteration cap.
type Session struct {
	opts   Options
	fixed  point.LandmarkSet
	index  *nnindex.Index
	driver *Driver
	tracer Tracer
	moving bool
}

// NewSession builds a Session over a fixed cloud, down-sampling it to
// landmarks and building the RBC index once (spec §4.3's Landmark sampler
// composed with C-construction, a one-time setup cost amortized across
// however many moving clouds are later registered against it).
func NewSession(fixed point.PointCloud, opts Options) (*Session, error) {
	landmarks := point.SampleLandmarks(fixed)

	index, err := nnindex.Build(landmarks, opts.Nr, opts.Alpha)
	if err != nil {
		return nil, err
	}

	return &Session{opts: opts, fixed: landmarks, index: index}, nil
}

// SetTracer installs (or, with nil, removes) the session's tracing sink.
func (s *Session) SetTracer(t Tracer) {
	s.tracer = t
}

// Options returns the session's effective options.
func (s *Session) Options() Options {
	return s.opts
}

// SetMoving installs a new moving cloud, building a fresh Driver over it
// at the identity transform. A prior Driver (if any) is discarded — its
// accumulated transform does not carry over, matching spec §6's
// set_moving semantics of starting a new pairwise alignment.
func (s *Session) SetMoving(moving point.PointCloud) error {
	landmarks := point.SampleLandmarks(moving)

	driver, err := NewDriver(landmarks, s.index, StepConfig{
		RotationSolver: s.opts.RotationSolver,
		Weighting:      s.opts.Weighting,
		C:              s.opts.C,
	})
	if err != nil {
		return err
	}

	s.driver = driver
	s.moving = true
	return nil
}

// Register runs ICPStep (C11) iteratively (C12) until either both
// convergence thresholds are satisfied by the same iteration's incremental
// step, or MaxIterations is reached. Reaching the cap without convergence
// is reported via Converged == false, not an error (spec §3's
// NonConvergence is a reportable outcome, not necessarily a failure of the
// call) — callers that want NonConvergence treated as an error can check
// RegistrationResult.Converged themselves.
//
// A Degenerate failure aborts the loop immediately; the Driver's running
// transform at the point of failure is preserved and can still be read via
// TransformMoving, per spec §6's partial-progress failure semantics.
func (s *Session) Register() (RegistrationResult, error) {
	if !s.moving {
		return RegistrationResult{}, errInvalidIndex("Register called before SetMoving")
	}

	var metrics StepMetrics
	converged := false

	for i := 0; i < s.opts.MaxIterations; i++ {
		m, err := s.driver.Step()
		if err != nil {
			return RegistrationResult{T: s.driver.Current()}, err
		}
		metrics = m

		if s.tracer != nil {
			s.tracer.TraceIteration(i, m)
		}

		if m.DeltaAngleDeg < s.opts.AngleThresholdDeg && m.DeltaTranslate < s.opts.TranslationThresholdMm {
			converged = true
			return RegistrationResult{
				T:                  s.driver.Current(),
				Iterations:         i + 1,
				Converged:          true,
				DeltaAngleDeg:      m.DeltaAngleDeg,
				DeltaTranslationMm: m.DeltaTranslate,
			}, nil
		}
	}

	return RegistrationResult{
		T:                  s.driver.Current(),
		Iterations:         s.opts.MaxIterations,
		Converged:          converged,
		DeltaAngleDeg:      metrics.DeltaAngleDeg,
		DeltaTranslationMm: metrics.DeltaTranslate,
	}, nil
}

// TransformMoving applies the Driver's current accumulated transform to
// moving, the full-resolution cloud passed in by the caller. Unlike the
// Driver's internal landmark buffer, this operates on the full organized
// cloud so the caller gets back a registered point cloud, not just
// landmarks. The Session does not keep the cloud given to SetMoving, and
// nothing checks that moving is that same cloud.
func (s *Session) TransformMoving(moving point.PointCloud) (point.PointCloud, error) {
	if !s.moving {
		return point.PointCloud{}, errInvalidIndex("TransformMoving called before SetMoving")
	}
	transformed := transform.ApplyQuaternion(moving.Points, s.driver.Current())
	return point.NewPointCloud(transformed)
}
