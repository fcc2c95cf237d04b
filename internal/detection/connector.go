package detection

import (
	"math"
	"strings"
)

// Turn sequences at the end of a stroke, encoded one character per point:
// '1' for a left turn of at least 14 degrees, '2' for a right turn, '0' otherwise.
var (
	triangleCapSequences = []string{"1022", "2011", "222", "111", "011", "022"}
	arrowCapSequences    = []string{"102", "201", "001", "002"}
)

// ConnectorCapInfo describes a cap found at the tail of a single stroke.
type ConnectorCapInfo struct {
	// CapStartIndex is the index of the first point of the cap region.
	CapStartIndex int `json:"cap_start_index"`

	// ReplacementPoint is where the connector line ends once the cap
	// decoration is removed.
	ReplacementPoint Point `json:"replacement_point"`

	// CapType is the detected decoration.
	CapType CapType `json:"cap_type"`
}

// ConvertPointsToConnector reduces a stroke to a connector.
//
// Points are expressed relative to the bbox origin. If the stroke contains a
// break, everything from the first break on is a separately drawn cap;
// otherwise the cap is looked for in the tail of the stroke.
func ConvertPointsToConnector(points []Point, bbox BoundingBox) ShapeMatch {
	relative := make([]Point, len(points))
	breakIdx := -1
	for i, p := range points {
		relative[i] = Point{X: p.X - bbox.X, Y: p.Y - bbox.Y, Break: p.Break}
		if p.Break && i > 0 && breakIdx < 0 {
			breakIdx = i
		}
	}

	var connectorPoints []Point
	destinationCap := CapEmpty

	if breakIdx > 0 {
		connectorPoints = stripBreaks(relative[:breakIdx])
		destinationCap = analyzeDrawnCap(connectorPoints[len(connectorPoints)-1], relative[breakIdx:])
	} else if capInfo := AnalyzeConnectorDestinationCap(relative); capInfo != nil {
		connectorPoints = stripBreaks(relative[:capInfo.CapStartIndex])
		connectorPoints = append(connectorPoints, capInfo.ReplacementPoint)
		destinationCap = capInfo.CapType
	} else {
		connectorPoints = stripBreaks(relative)
	}

	return ShapeMatch{
		Shape: ShapeConnector,
		Score: 1.0,
		Connector: &ConnectorProps{
			Points:         connectorPoints,
			DestinationCap: destinationCap,
		},
	}
}

// analyzeDrawnCap classifies a cap drawn as its own sub-path. The cap counts
// only if the connector's last point lies inside the cap's box or near one of
// its points; a cap whose ends meet is a triangle, otherwise an arrow.
//
// The proximity distances are absolute and are not scaled by the stroke size.
func analyzeDrawnCap(lineEnd Point, capPoints []Point) CapType {
	if len(capPoints) <= 2 {
		return CapEmpty
	}

	capBox := GetBbox(capPoints)
	if capBox.W < 2 || capBox.H < 2 {
		return CapEmpty
	}

	capIsClosed := distanceSquared(capPoints[0], capPoints[len(capPoints)-1]) < closedCapProximity*closedCapProximity

	attached := capBox.Contains(lineEnd)
	for _, p := range capPoints {
		if attached {
			break
		}
		attached = distanceSquared(p, lineEnd) < capAttachProximity*capAttachProximity
	}

	if !attached {
		return CapEmpty
	}
	if capIsClosed {
		return CapTriangle
	}
	return CapArrow
}

// AnalyzeConnectorDestinationCap looks for a cap drawn as part of the stroke's
// tail. It walks back from the last point growing a bounding box until the
// box's width plus height exceeds 200 units; the points walked form the cap
// region. The replacement point is the cap region point furthest from the
// stroke's first point.
//
// Returns nil when the cap region does not start strictly inside the stroke.
func AnalyzeConnectorDestinationCap(points []Point) *ConnectorCapInfo {
	n := len(points)
	if n < 3 {
		return nil
	}

	first := points[0]
	last := points[n-1]

	minX, maxX := last.X, last.X
	minY, maxY := last.Y, last.Y
	furthest := last
	furthestDistance := distanceSquared(first, last)
	capStartIdx := 0

	for i := n - 2; i >= 0; i-- {
		p := points[i]
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)

		if d := distanceSquared(first, p); d > furthestDistance {
			furthest = p
			furthestDistance = d
		}

		if (maxX-minX)+(maxY-minY) > capBoxSize {
			capStartIdx = i
			break
		}
	}

	if capStartIdx <= 0 || capStartIdx >= n-1 {
		return nil
	}

	return &ConnectorCapInfo{
		CapStartIndex:    capStartIdx,
		ReplacementPoint: Point{X: furthest.X, Y: furthest.Y},
		CapType:          AnalyzeConnectorCap(points, capStartIdx, n-1),
	}
}

// AnalyzeConnectorCap classifies the points in [idxStart, idxEnd) by the
// sequence of turn directions at each of them.
func AnalyzeConnectorCap(points []Point, idxStart, idxEnd int) CapType {
	if idxStart < 1 {
		idxStart = 1
	}
	if idxEnd > len(points)-1 {
		idxEnd = len(points) - 1
	}

	var seq strings.Builder
	for i := idxStart; i < idxEnd; i++ {
		angle := turningAngle(points[i-1], points[i], points[i+1])
		switch {
		case angle <= -capAngle:
			seq.WriteByte('1')
		case angle >= capAngle:
			seq.WriteByte('2')
		default:
			seq.WriteByte('0')
		}
	}

	encoded := seq.String()
	if containsAny(encoded, triangleCapSequences) {
		return CapTriangle
	}
	if containsAny(encoded, arrowCapSequences) {
		return CapArrow
	}
	return CapEmpty
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func stripBreaks(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: p.X, Y: p.Y}
	}
	return out
}
