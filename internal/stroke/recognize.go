package stroke

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/smartshape-mcp/internal/detection"
)

// ShapeCurve is the item shape a stroke keeps when no match is accepted.
const ShapeCurve = "curve"

var (
	// ErrEmptyStroke is returned for a stroke without points.
	ErrEmptyStroke = errors.New("stroke has no points")

	// ErrTooFewPoints is returned for a stroke that collapses to a single
	// point. The editor discards such strokes instead of creating an item.
	ErrTooFewPoints = errors.New("stroke has fewer than two distinct points")
)

// Options controls the recognition pipeline.
type Options struct {
	// Epsilon is the simplification tolerance, clamped to [1, 1000].
	Epsilon float64 `json:"epsilon" toml:"epsilon"`

	// AcceptThreshold is the minimum score a shape match needs to replace
	// the freeform curve. Connectors are always accepted.
	AcceptThreshold float64 `json:"accept_threshold" toml:"accept_threshold"`
}

// DefaultOptions returns the editor's default drawing options.
func DefaultOptions() Options {
	return Options{
		Epsilon:         DefaultEpsilon,
		AcceptThreshold: detection.AcceptThreshold,
	}
}

// Area is the placement of an item in the stroke's coordinate space.
type Area struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Item describes the diagram item a stroke turns into.
type Item struct {
	// Shape is a detection.ShapeKind value or "curve".
	Shape string `json:"shape"`

	// Area is the original (non-normalized) bounding box of the stroke.
	Area Area `json:"area"`

	// Points are set for connectors and curves, relative to Area's origin.
	Points []detection.Point `json:"points,omitempty"`

	// DestinationCap is set for connectors.
	DestinationCap detection.CapType `json:"destination_cap,omitempty"`
}

// Result is the outcome of recognizing one stroke.
type Result struct {
	// Item is the item to create.
	Item Item `json:"item"`

	// Match is the best classification, accepted or not.
	Match *detection.ShapeMatch `json:"match"`

	// Accepted reports whether Match was turned into Item.
	Accepted bool `json:"accepted"`

	// OriginalPoints and SimplifiedPoints are the point counts before and
	// after simplification.
	OriginalPoints   int `json:"original_points"`
	SimplifiedPoints int `json:"simplified_points"`
}

// Recognize runs a finished stroke through the editor's pipeline: duplicate
// points are removed and the stroke is classified. Unless it is a connector,
// it is then simplified and classified again. The match is accepted if it is
// a connector or scores above opts.AcceptThreshold.
//
// The input slice is not modified.
func Recognize(points []detection.Point, opts Options) (*Result, error) {
	if len(points) == 0 {
		return nil, ErrEmptyStroke
	}

	deduped := Dedupe(points)
	if len(deduped) < 2 {
		return nil, ErrTooFewPoints
	}

	// Connector caps are detected on the raw samples; simplification would
	// flatten the cap region away.
	analyzed := deduped
	match := detection.IdentifyShape(deduped)
	if match.Shape != detection.ShapeConnector {
		analyzed = Simplify(deduped, opts.Epsilon)
		match = detection.IdentifyShape(analyzed)
	}

	bbox := detection.GetBbox(analyzed)
	area := Area{X: bbox.X, Y: bbox.Y, W: bbox.W, H: bbox.H}

	result := &Result{
		Match:            match,
		Accepted:         match.Accepted(opts.AcceptThreshold),
		OriginalPoints:   len(points),
		SimplifiedPoints: len(analyzed),
	}

	switch {
	case !result.Accepted:
		result.Item = Item{Shape: ShapeCurve, Area: area, Points: relativeTo(analyzed, bbox)}
	case match.Connector != nil:
		result.Item = Item{
			Shape:          string(match.Shape),
			Area:           area,
			Points:         match.Connector.Points,
			DestinationCap: match.Connector.DestinationCap,
		}
	default:
		result.Item = Item{Shape: string(match.Shape), Area: area}
	}

	return result, nil
}

func relativeTo(points []detection.Point, bbox detection.BoundingBox) []detection.Point {
	out := make([]detection.Point, len(points))
	for i, p := range points {
		out[i] = detection.Point{X: p.X - bbox.X, Y: p.Y - bbox.Y, Break: p.Break}
	}
	return out
}

// BatchResult pairs a stroke's recognition result with its error.
type BatchResult struct {
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// RecognizeBatch recognizes independent strokes concurrently with at most
// workers goroutines. Results are in input order; a stroke that fails
// validation records its error without stopping the batch. Only context
// cancellation aborts the batch.
func RecognizeBatch(ctx context.Context, strokes [][]detection.Point, opts Options, workers int) ([]BatchResult, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]BatchResult, len(strokes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range strokes {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Recognize(strokes[i], opts)
			if err != nil {
				results[i] = BatchResult{Error: err.Error()}
				return nil
			}
			results[i] = BatchResult{Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch recognition cancelled: %w", err)
	}
	return results, nil
}
