package detection

import "math"

// Recognition thresholds. These are tuned against hand-drawn samples at the
// canonical 200x200 size and must not be re-derived.
const (
	canonicalSize        = 200.0
	minNormalizableSize  = 10.0
	simpleLineAngle      = 30.0
	bigAngle             = 40.0
	ellipseLargeAngle    = 50.0
	ellipseOrientation   = 0.7
	fullLineRatio        = 0.7
	axisRatio            = 0.1
	axisAbsolute         = 30.0
	joinedProximityParts = 7.0
	farAwayRatio         = 0.5
	straightLineAngleSum = 50.0
	objectMultiplier     = 1.1

	capBoxSize         = 200.0
	capAngle           = 14.0
	closedCapProximity = 20.0
	capAttachProximity = 30.0
)

// AcceptThreshold is the minimum classifier score a caller should accept.
// Connectors are always accepted.
const AcceptThreshold = 0.2

// Point is a sample on a drawn stroke. Break marks the first point of a new
// disjoint sub-path within the same stroke.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Break bool    `json:"break,omitempty"`
}

// BoundingBox is the axis-aligned box of a point set.
type BoundingBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether p lies inside the box, edges included.
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.W && p.Y >= b.Y && p.Y <= b.Y+b.H
}

// GetBbox returns the bounding box of points. An empty slice yields a zero box.
func GetBbox(points []Point) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	return BoundingBox{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// NormalizePoints rescales points so that bbox becomes exactly 200x200 at the
// origin, stretching each axis independently. Boxes with a side of 10 units or
// less are returned as a copy of the input with the original box.
func NormalizePoints(points []Point, bbox BoundingBox) ([]Point, BoundingBox) {
	if bbox.W <= minNormalizableSize || bbox.H <= minNormalizableSize {
		return clonePoints(points), bbox
	}

	rw := canonicalSize / bbox.W
	rh := canonicalSize / bbox.H

	normalized := make([]Point, len(points))
	for i, p := range points {
		normalized[i] = Point{
			X:     (p.X - bbox.X) * rw,
			Y:     (p.Y - bbox.Y) * rh,
			Break: p.Break,
		}
	}

	return normalized, BoundingBox{W: canonicalSize, H: canonicalSize}
}

// angleBetweenVectors returns the signed angle in radians rotating a onto b,
// in the range (-Pi, Pi]. Zero-length vectors give 0.
func angleBetweenVectors(ax, ay, bx, by float64) float64 {
	return math.Atan2(ax*by-ay*bx, ax*bx+ay*by)
}

// turningAngle returns the signed direction change in degrees at p when
// travelling prev -> p -> next. Collinear points give 0, a square corner ±90.
func turningAngle(prev, p, next Point) float64 {
	return angleBetweenVectors(p.X-prev.X, p.Y-prev.Y, next.X-p.X, next.Y-p.Y) * 180 / math.Pi
}

func distanceSquared(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

func clonePoints(points []Point) []Point {
	out := make([]Point, len(points))
	copy(out, points)
	return out
}
