// Package point defines the fixed-layout 8-component point and the
// organized-cloud/landmark/representative grids the registration core
// operates on.
package point

import (
	"fmt"

	"github.com/kwv/rgbdicp/rerr"
)

// Fixed dimensions of the organized sensor cloud and its landmark
// down-sampling (see spec §3: Data Model).
const (
	CloudWidth  = 640
	CloudHeight = 480

	LandmarkWidth  = 128
	LandmarkHeight = 128
	LandmarkCount  = LandmarkWidth * LandmarkHeight
)

// Point8 is the fixed 8-lane point: geometric xyz plus homogeneous w_g in
// lanes 0-3, photometric rgb plus w_p in lanes 4-7. w_g is 1 on valid
// input samples; x/y/z are in millimetres. All transforms preserve lanes
// 3-7 exactly.
type Point8 struct {
	X, Y, Z, Wg float32
	R, G, B, Wp float32
}

// IsZero reports whether the point's geometric coordinates are all zero,
// the convention this data model uses to mark an invalid sample. The core
// never filters these automatically (see spec §3 and §9 Open Questions);
// IsZero exists for callers that want to apply an opt-in validity mask.
func (p Point8) IsZero() bool {
	return p.X == 0 && p.Y == 0 && p.Z == 0
}

// Grid is a row-major W×H array of points. PointCloud and LandmarkSet are
// backed by Grid; RepresentativeSet is a flat ordered list instead.
type Grid struct {
	Width, Height int
	Points        []Point8
}

// At returns the point at (x, y) in row-major order.
func (g Grid) At(x, y int) Point8 {
	return g.Points[y*g.Width+x]
}

// Set writes the point at (x, y).
func (g Grid) Set(x, y int, p Point8) {
	g.Points[y*g.Width+x] = p
}

// Len returns the total point count.
func (g Grid) Len() int {
	return len(g.Points)
}

// PointCloud is an organized 640×480 grid of Point8, row-major, as captured
// from a depth-plus-color sensor. Zero geometric coordinates denote
// invalid samples; PointCloud does not filter them.
type PointCloud struct {
	Grid
}

// NewPointCloud validates points has exactly CloudWidth*CloudHeight
// elements and wraps it as an organized cloud.
func NewPointCloud(points []Point8) (PointCloud, error) {
	want := CloudWidth * CloudHeight
	if len(points) != want {
		return PointCloud{}, fmt.Errorf("point: cloud must have %d points, got %d: %w", want, len(points), rerr.ErrInvalidShape)
	}
	return PointCloud{Grid{Width: CloudWidth, Height: CloudHeight, Points: points}}, nil
}

// LandmarkSet is a deterministic 128×128 down-sampling of a PointCloud
// (cardinality exactly 16384), used as the actual ICP operand.
type LandmarkSet struct {
	Grid
}

// RepresentativeSet is an ordered Nr-subsampling of a LandmarkSet, used as
// RBC ball centres. Nr is a power of two and a multiple of four.
type RepresentativeSet struct {
	Points []Point8
}

// Len returns the representative count.
func (r RepresentativeSet) Len() int {
	return len(r.Points)
}
