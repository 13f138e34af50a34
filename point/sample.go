package point

import (
	"fmt"
	"math/bits"

	"github.com/kwv/rgbdicp/rerr"
)

// Fixed central-window geometry for SampleLandmarks (spec §4.3): rows
// 48..432, cols 64..576, stepping 4 in x and 3 in y with offsets (+2, +1).
const (
	landmarkRowStart = 48
	landmarkColStart = 64
	landmarkRowStep  = 3
	landmarkColStep  = 4
	landmarkRowOff   = 1
	landmarkColOff   = 2
)

// SampleLandmarks deterministically down-samples a 640×480 organized cloud
// to a 128×128 landmark grid by stepping a fixed central window. The
// output has exactly LandmarkCount points, in row-major (y, x) order.
func SampleLandmarks(cloud PointCloud) LandmarkSet {
	points := make([]Point8, 0, LandmarkCount)
	for ly := 0; ly < LandmarkHeight; ly++ {
		y := landmarkRowStart + landmarkRowOff + ly*landmarkRowStep
		for lx := 0; lx < LandmarkWidth; lx++ {
			x := landmarkColStart + landmarkColOff + lx*landmarkColStep
			points = append(points, cloud.At(x, y))
		}
	}
	return LandmarkSet{Grid{Width: LandmarkWidth, Height: LandmarkHeight, Points: points}}
}

// SampleRepresentatives picks nr representative points from a 128×128
// landmark grid, one per (128/nr_x)×(128/nr_y) sub-tile, taking the middle
// element of each tile. nr must be a power of two and a multiple of four
// (spec §4.3); violating either returns rerr.ErrInvalidArity wrapped with
// context.
func SampleRepresentatives(landmarks LandmarkSet, nr int) (RepresentativeSet, error) {
	if err := validateArity(nr); err != nil {
		return RepresentativeSet{}, err
	}

	nrY := tileHeightFactor(nr)
	nrX := nr / nrY

	if LandmarkWidth%nrX != 0 || LandmarkHeight%nrY != 0 {
		return RepresentativeSet{}, fmt.Errorf("point: nr=%d does not evenly tile a %dx%d grid: %w", nr, LandmarkWidth, LandmarkHeight, errInvalidArity(nr))
	}

	tileW := LandmarkWidth / nrX
	tileH := LandmarkHeight / nrY

	out := make([]Point8, 0, nr)
	for ty := 0; ty < nrY; ty++ {
		py := ty*tileH + tileH/2
		for tx := 0; tx < nrX; tx++ {
			px := tx*tileW + tileW/2
			out = append(out, landmarks.At(px, py))
		}
	}
	return RepresentativeSet{Points: out}, nil
}

// tileHeightFactor computes nr_y = 2^floor(log2(nr)/2) per spec §4.3.
func tileHeightFactor(nr int) int {
	log2 := bits.Len(uint(nr)) - 1 // nr is a power of two, so this is exact
	return 1 << uint(log2/2)
}

func validateArity(nr int) error {
	if nr <= 0 || nr%4 != 0 || nr&(nr-1) != 0 {
		return errInvalidArity(nr)
	}
	return nil
}

func errInvalidArity(nr int) error {
	return fmt.Errorf("point: nr=%d must be a power of two and a multiple of four: %w", nr, rerr.ErrInvalidArity)
}
