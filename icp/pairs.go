package icp

import "github.com/kwv/rgbdicp/point"

// Pair is one NN correspondence produced by the RBC query: an F-point
// matched to a transformed M-point, with the squared distance the index
// reported for the match.
type Pair struct {
	F, M   point.Point8
	SqDist float32
}
