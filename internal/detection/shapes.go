package detection

import "math"

// ShapeKind names a diagram primitive a stroke can be recognized as.
type ShapeKind string

// Recognized shapes. The string values match the editor's shape identifiers.
const (
	ShapeRect      ShapeKind = "rect"
	ShapeEllipse   ShapeKind = "ellipse"
	ShapeDiamond   ShapeKind = "basic_diamond"
	ShapeObject    ShapeKind = "uml_object"
	ShapeConnector ShapeKind = "connector"
)

// CapType is the decoration at the destination end of a connector.
type CapType string

// Connector destination caps.
const (
	CapEmpty    CapType = "empty"
	CapArrow    CapType = "arrow"
	CapTriangle CapType = "triangle"
)

// ShapeMatch is the result of classifying a stroke.
//
// Score is a classifier's own confidence, roughly 0.0 to 1.1. Scores are only
// comparable for ranking; they are not calibrated across classifiers.
// Connector matches always carry a score of 1.0.
type ShapeMatch struct {
	// Shape is the recognized primitive.
	Shape ShapeKind `json:"shape"`

	// Score is the classifier confidence.
	Score float64 `json:"score"`

	// Connector holds the connector geometry. It is non-nil if and only if
	// Shape is ShapeConnector.
	Connector *ConnectorProps `json:"shape_props,omitempty"`
}

// ConnectorProps describes a stroke reduced to a connector.
type ConnectorProps struct {
	// Points are the connector points relative to the stroke's bounding box
	// origin, in the stroke's original (non-normalized) scale.
	Points []Point `json:"points"`

	// DestinationCap is the decoration detected at the last point.
	DestinationCap CapType `json:"destination_cap"`
}

// Accepted reports whether a caller should turn the stroke into this shape.
func (m *ShapeMatch) Accepted(threshold float64) bool {
	if m == nil {
		return false
	}
	return m.Shape == ShapeConnector || m.Score > threshold
}

// WeightedScore accumulates weighted values and reports their weighted mean.
type WeightedScore struct {
	totalWeight float64
	totalValue  float64
}

// Add records value with the given weight and returns the accumulator for chaining.
func (w *WeightedScore) Add(weight, value float64) *WeightedScore {
	w.totalWeight += weight
	w.totalValue += weight * value
	return w
}

// Score returns the weighted mean of all added values, or 0 if nothing was added.
func (w *WeightedScore) Score() float64 {
	if w.totalWeight > 0 {
		return w.totalValue / w.totalWeight
	}
	return 0
}

// Classifier scores how well the analyzed stroke matches one shape.
//
// points are the normalized stroke points and curves the per-sub-curve
// analysis of those points. curves always has at least one element.
type Classifier func(points []Point, curves []CurveInfo) ShapeMatch

// Classifiers returns the shape classifiers in the order IdentifyShape runs them.
// On equal scores the earlier classifier wins.
func Classifiers() []Classifier {
	return []Classifier{
		CheckRect,
		CheckEllipse,
		CheckDiamond,
		CheckObject,
	}
}

// IsSameOrientation reports whether all angles turn the same way.
// Zero counts as a negative turn. An empty slice is considered the same orientation.
func IsSameOrientation(angles []float64) bool {
	sign := 0
	for _, angle := range angles {
		s := -1
		if angle > 0 {
			s = 1
		}
		if sign == 0 {
			sign = s
		} else if sign != s {
			return false
		}
	}
	return true
}

func bigAngles(angles []float64) []float64 {
	big := make([]float64, 0, 4)
	for _, a := range angles {
		if math.Abs(a) > bigAngle {
			big = append(big, a)
		}
	}
	return big
}

func choose(cond bool, yes, no float64) float64 {
	if cond {
		return yes
	}
	return no
}

// CheckRect scores the first sub-curve as a rectangle.
//
// A drawn rectangle has at most four big turns, all in the same direction and
// each close to 90 degrees, a closed outline, and two horizontal and two
// vertical full-length edges.
//
// Weights:
//   - 2: angle score, sum(|angle|/90)/4 over the big turns
//   - 2: closed outline (1) or open (-0.4)
//   - 1: exactly two horizontal full lines
//   - 1: exactly two vertical full lines
func CheckRect(_ []Point, curves []CurveInfo) ShapeMatch {
	return ShapeMatch{Shape: ShapeRect, Score: rectScore(curves[0])}
}

func rectScore(info CurveInfo) float64 {
	angleScore := 0.0
	big := bigAngles(info.Angles)
	if len(big) < 5 && IsSameOrientation(big) {
		for _, a := range big {
			angleScore += math.Abs(a) / 90
		}
		angleScore /= 4
	}

	return new(WeightedScore).
		Add(2, angleScore).
		Add(2, choose(info.IsJoined, 1, -0.4)).
		Add(1, choose(info.HorizontalFullLines == 2, 1, 0)).
		Add(1, choose(info.VerticalFullLines == 2, 1, 0)).
		Score()
}

// CheckEllipse scores a single-curve stroke as an ellipse.
//
// An ellipse turns almost always in one direction through many small angles
// and has no full-length axis-aligned edges. The angle score is only given
// when the stroke has exactly one sub-curve with more than six angles and more
// than 70% of the turn imbalance goes one way; it is then the fraction of
// angles of at most 50 degrees.
//
// Weights:
//   - 2: angle score
//   - 1: closed outline (1) or open (-0.4)
//   - 1: no horizontal full lines (0.5) or some (-0.2)
//   - 1: no vertical full lines (0.5) or some (-0.2)
func CheckEllipse(_ []Point, curves []CurveInfo) ShapeMatch {
	info := curves[0]

	angleScore := 0.0
	if len(curves) == 1 && len(info.Angles) > 6 {
		left, right, large := 0, 0, 0
		for _, a := range info.Angles {
			if a < 0 {
				left++
			} else {
				right++
			}
			if math.Abs(a) > ellipseLargeAngle {
				large++
			}
		}

		total := float64(left + right)
		imbalance := math.Abs(float64(left - right))
		if imbalance/total > ellipseOrientation {
			angleScore = (total - float64(large)) / total
		}
	}

	score := new(WeightedScore).
		Add(2, angleScore).
		Add(1, choose(info.IsJoined, 1, -0.4)).
		Add(1, choose(info.HorizontalFullLines == 0, 0.5, -0.2)).
		Add(1, choose(info.VerticalFullLines == 0, 0.5, -0.2)).
		Score()

	return ShapeMatch{Shape: ShapeEllipse, Score: score}
}

// CheckDiamond scores the first sub-curve as a diamond: a closed outline with
// exactly four big turns in one direction and four full-length diagonal edges.
// Axis-aligned full lines count against it.
func CheckDiamond(_ []Point, curves []CurveInfo) ShapeMatch {
	info := curves[0]
	big := bigAngles(info.Angles)

	score := new(WeightedScore).
		Add(2, choose(info.IsJoined, 1, -0.4)).
		Add(2, choose(len(big) == 4, 1, 0)).
		Add(1, choose(IsSameOrientation(big), 1, 0)).
		Add(2, choose(info.TotalFullLines == 4, 1, 0)).
		Add(1, choose(info.HorizontalFullLines == 0, 1, -0.5)).
		Add(1, choose(info.VerticalFullLines == 0, 1, -0.5)).
		Score()

	return ShapeMatch{Shape: ShapeDiamond, Score: score}
}

// CheckObject scores a two-stroke UML object: a rectangle followed by a
// separately drawn horizontal underline. The score is the rectangle score of
// the first sub-curve boosted by 10%, or 0 when the second sub-curve is not a
// single straight horizontal full line.
func CheckObject(_ []Point, curves []CurveInfo) ShapeMatch {
	score := 0.0
	if len(curves) == 2 && curves[1].IsStraightLine && curves[1].HorizontalFullLines == 1 {
		score = rectScore(curves[0]) * objectMultiplier
	}
	return ShapeMatch{Shape: ShapeObject, Score: score}
}

// StrokeAnalysis holds every intermediate result of recognizing a stroke.
type StrokeAnalysis struct {
	// Bbox is the bounding box of the raw stroke.
	Bbox BoundingBox `json:"bbox"`

	// NormalizedBbox is the box the analysis ran against, 200x200 unless the
	// stroke was too small to normalize.
	NormalizedBbox BoundingBox `json:"normalized_bbox"`

	// Curves is the analysis of each sub-curve.
	Curves []CurveInfo `json:"curves"`

	// Candidates are the classifier results in classifier order. Empty when
	// the stroke was reduced to a connector.
	Candidates []ShapeMatch `json:"candidates"`

	// Match is the selected result.
	Match *ShapeMatch `json:"match"`
}

// AnalyzeStroke runs the full recognition of points and keeps the
// intermediate results. It returns nil for an empty stroke.
//
// The input slice is never modified.
func AnalyzeStroke(points []Point) *StrokeAnalysis {
	if len(points) == 0 {
		return nil
	}

	bbox := GetBbox(points)
	normalized, normBox := NormalizePoints(points, bbox)
	curves := AnalyzeCurve(normalized, normBox)

	analysis := &StrokeAnalysis{
		Bbox:           bbox,
		NormalizedBbox: normBox,
		Curves:         curves,
		Candidates:     make([]ShapeMatch, 0, 4),
	}

	if curves[0].EndsFarAway {
		match := ConvertPointsToConnector(points, bbox)
		analysis.Match = &match
		return analysis
	}

	var best ShapeMatch
	for i, classify := range Classifiers() {
		result := classify(normalized, curves)
		analysis.Candidates = append(analysis.Candidates, result)
		if i == 0 || result.Score > best.Score {
			best = result
		}
	}
	analysis.Match = &best

	return analysis
}

// IdentifyShape classifies a freehand stroke.
//
// When the first sub-curve's endpoints are far apart the stroke is reduced to
// a connector with a detected destination cap. Otherwise every classifier is
// run and the best scoring match is returned, without applying any acceptance
// threshold; see AcceptThreshold and ShapeMatch.Accepted.
//
// Returns nil only for an empty stroke. The input slice is never modified.
func IdentifyShape(points []Point) *ShapeMatch {
	analysis := AnalyzeStroke(points)
	if analysis == nil {
		return nil
	}
	return analysis.Match
}
