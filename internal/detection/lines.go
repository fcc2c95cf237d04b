package detection

import "math"

// LineAnalysis classifies a segment between two points relative to a bounding box
type LineAnalysis struct {
	IsVertical   bool  `json:"is_vertical"`
	IsHorizontal bool  `json:"is_horizontal"`
	IsFull       bool  `json:"is_full"`
	P1           Point `json:"p1"`
	P2           Point `json:"p2"`
}

// CurveInfo is the analysis of a single sub-curve
type CurveInfo struct {
	EndsFarAway         bool           `json:"ends_far_away"`
	IsJoined            bool           `json:"is_joined"`
	IsStraightLine      bool           `json:"is_straight_line"`
	Angles              []float64      `json:"angles"`
	SimpleLines         []LineAnalysis `json:"simple_lines"`
	VerticalFullLines   int            `json:"vertical_full_lines"`
	HorizontalFullLines int            `json:"horizontal_full_lines"`
	TotalFullLines      int            `json:"total_full_lines"`
}

// CreateLineAnalysis checks whether the segment p1-p2 is vertical, horizontal
// or diagonal and whether it spans most of the box.
func CreateLineAnalysis(p1, p2 Point, bbox BoundingBox) LineAnalysis {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y

	isVertical := false
	isHorizontal := false
	isFull := false

	if (bbox.W > 1 && math.Abs(dx/bbox.W) < axisRatio) || math.Abs(dx) < axisAbsolute {
		isVertical = true
		if bbox.H > 1 && math.Abs(dy/bbox.H) >= fullLineRatio {
			isFull = true
		}
	}

	if (bbox.H > 1 && math.Abs(dy/bbox.H) < axisRatio) || math.Abs(dy) < axisAbsolute {
		isHorizontal = true
		if bbox.W > 1 && math.Abs(dx/bbox.W) >= fullLineRatio {
			isFull = true
		}
	}

	// Diagonal lines are compared against the average box size
	if !isVertical && !isHorizontal {
		lengthSquared := dx*dx + dy*dy
		averageSize := (bbox.W + bbox.H) / 2
		if lengthSquared > 1 && averageSize > 1 {
			isFull = math.Sqrt(lengthSquared)/averageSize > fullLineRatio
		}
	}

	return LineAnalysis{
		IsVertical:   isVertical,
		IsHorizontal: isHorizontal,
		IsFull:       isFull,
		P1:           p1,
		P2:           p2,
	}
}

// AnalyzeCurve splits points into sub-curves at break markers and analyzes
// each one against the shared bbox. A break point starts the new sub-curve.
func AnalyzeCurve(points []Point, bbox BoundingBox) []CurveInfo {
	curves := make([][]Point, 0, 1)
	current := make([]Point, 0, len(points))

	for _, p := range points {
		if p.Break && len(current) > 0 {
			curves = append(curves, current)
			current = make([]Point, 0)
		}
		current = append(current, p)
	}
	curves = append(curves, current)

	infos := make([]CurveInfo, 0, len(curves))
	for _, c := range curves {
		infos = append(infos, AnalyzeSingleCurve(c, bbox))
	}
	return infos
}

// AnalyzeSingleCurve computes turning angles, closure, far-apart endpoints and
// the full-line counts of a single sub-curve.
func AnalyzeSingleCurve(points []Point, bbox BoundingBox) CurveInfo {
	info := CurveInfo{
		Angles:      make([]float64, 0, len(points)),
		SimpleLines: make([]LineAnalysis, 0),
	}
	if len(points) == 0 {
		return info
	}

	simpleLinePoints := []Point{points[0]}
	for i := 1; i < len(points)-1; i++ {
		angle := turningAngle(points[i-1], points[i], points[i+1])
		if math.Abs(angle) > simpleLineAngle {
			simpleLinePoints = append(simpleLinePoints, points[i])
		}
		info.Angles = append(info.Angles, angle)
	}

	first := points[0]
	last := points[len(points)-1]

	proximityMax := (bbox.W + bbox.H) / 2 / joinedProximityParts
	dSquared := distanceSquared(first, last)
	info.IsJoined = dSquared < proximityMax*proximityMax && len(points) > 2

	if dSquared > 0.1 {
		d := math.Sqrt(dSquared)
		info.EndsFarAway = (bbox.W > 1 && d/bbox.W >= farAwayRatio) || (bbox.H > 1 && d/bbox.H >= farAwayRatio)
	}

	if info.IsJoined {
		// the curve continues through the midpoint of its two ends
		mid := Point{X: (first.X + last.X) / 2, Y: (first.Y + last.Y) / 2}
		info.Angles = append(info.Angles, turningAngle(points[len(points)-2], mid, points[1]))
		simpleLinePoints = append(simpleLinePoints, last)
	}

	for i := 1; i < len(simpleLinePoints); i++ {
		info.addLine(CreateLineAnalysis(simpleLinePoints[i-1], simpleLinePoints[i], bbox))
	}

	if len(simpleLinePoints) <= 1 {
		sum := 0.0
		for _, a := range info.Angles {
			sum += a
		}
		if math.Abs(sum) <= straightLineAngleSum {
			info.IsStraightLine = true
			info.addLine(CreateLineAnalysis(first, last, bbox))
		}
	}

	return info
}

func (c *CurveInfo) addLine(line LineAnalysis) {
	if line.IsFull {
		c.TotalFullLines++
		if line.IsHorizontal {
			c.HorizontalFullLines++
		}
		if line.IsVertical {
			c.VerticalFullLines++
		}
	}
	c.SimpleLines = append(c.SimpleLines, line)
}
