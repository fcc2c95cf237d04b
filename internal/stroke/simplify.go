package stroke

import (
	"math"

	"github.com/ironsheep/smartshape-mcp/internal/detection"
)

// Epsilon limits for Simplify.
const (
	MinEpsilon     = 1.0
	MaxEpsilon     = 1000.0
	DefaultEpsilon = 5.0

	sameValueTolerance = 1e-6
)

// ClampEpsilon limits epsilon to [MinEpsilon, MaxEpsilon].
func ClampEpsilon(epsilon float64) float64 {
	return math.Max(MinEpsilon, math.Min(MaxEpsilon, epsilon))
}

// Dedupe removes points that repeat the coordinates of the point before them.
// A dropped point's break marker moves to the next kept point so sub-paths
// stay separated.
func Dedupe(points []detection.Point) []detection.Point {
	out := make([]detection.Point, 0, len(points))
	pendingBreak := false
	for i, p := range points {
		if i > 0 && sameValue(p.X, points[i-1].X) && sameValue(p.Y, points[i-1].Y) {
			pendingBreak = pendingBreak || p.Break
			continue
		}
		if pendingBreak {
			p.Break = true
			pendingBreak = false
		}
		out = append(out, p)
	}
	return out
}

func sameValue(a, b float64) bool {
	return math.Abs(a-b) < sameValueTolerance
}

// Simplify reduces each sub-path of the stroke with the Ramer-Douglas-Peucker
// algorithm: a point is kept only if it deviates more than epsilon from the
// chord of the span it lies in. Endpoints and break markers are always kept.
// Epsilon is clamped with ClampEpsilon.
func Simplify(points []detection.Point, epsilon float64) []detection.Point {
	epsilon = ClampEpsilon(epsilon)

	out := make([]detection.Point, 0, len(points))
	start := 0
	for i := 1; i <= len(points); i++ {
		if i == len(points) || points[i].Break {
			out = append(out, simplifySpan(points[start:i], epsilon)...)
			start = i
		}
	}
	return out
}

// simplifySpan runs Ramer-Douglas-Peucker on one sub-path without recursion.
func simplifySpan(points []detection.Point, epsilon float64) []detection.Point {
	if len(points) < 3 {
		out := make([]detection.Point, len(points))
		copy(out, points)
		return out
	}

	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true

	type span struct{ first, last int }
	stack := []span{{0, len(points) - 1}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		maxDistance := 0.0
		index := -1
		for i := s.first + 1; i < s.last; i++ {
			d := distanceToSegment(points[i], points[s.first], points[s.last])
			if d > maxDistance {
				maxDistance = d
				index = i
			}
		}

		if index >= 0 && maxDistance > epsilon {
			keep[index] = true
			stack = append(stack, span{s.first, index}, span{index, s.last})
		}
	}

	out := make([]detection.Point, 0, len(points))
	for i, p := range points {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// distanceToSegment returns the distance from p to the segment a-b.
func distanceToSegment(p, a, b detection.Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lengthSquared := dx*dx + dy*dy
	if lengthSquared == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lengthSquared
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
