package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/smartshape-mcp/internal/detection"
)

// PreviewOptions controls how a stroke preview is drawn. Zero values take
// the defaults of DefaultPreviewOptions.
type PreviewOptions struct {
	// Width and Height are the canvas size in pixels.
	Width  int `json:"width" toml:"width"`
	Height int `json:"height" toml:"height"`

	// Padding is the free margin around the stroke in pixels.
	Padding int `json:"padding" toml:"padding"`

	// StrokeWidth is the line width of the raw stroke in pixels.
	StrokeWidth float64 `json:"stroke_width" toml:"stroke_width"`

	// Background and StrokeColor are "#RRGGBB" colors.
	Background  string `json:"background" toml:"background"`
	StrokeColor string `json:"stroke_color" toml:"stroke_color"`

	// ShapeColor overrides the per-shape overlay color.
	ShapeColor string `json:"shape_color,omitempty" toml:"shape_color"`

	// Soft blurs the raw stroke slightly, like a pencil line.
	Soft bool `json:"soft" toml:"soft"`

	// GridSpacing draws a grid every GridSpacing pixels when positive.
	GridSpacing int `json:"grid_spacing" toml:"grid_spacing"`

	// ShowLabel writes the recognized shape and score in the top-left corner.
	ShowLabel bool `json:"show_label" toml:"show_label"`
}

// DefaultPreviewOptions returns the preview defaults.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{
		Width:       256,
		Height:      256,
		Padding:     16,
		StrokeWidth: 2,
		Background:  "#FFFFFF",
		StrokeColor: "#7F7F7F",
		ShowLabel:   true,
	}
}

func (o PreviewOptions) withDefaults() PreviewOptions {
	d := DefaultPreviewOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Padding <= 0 {
		o.Padding = d.Padding
	}
	if o.Padding*2 >= o.Width || o.Padding*2 >= o.Height {
		o.Padding = 0
	}
	if o.StrokeWidth <= 0 {
		o.StrokeWidth = d.StrokeWidth
	}
	if o.Background == "" {
		o.Background = d.Background
	}
	if o.StrokeColor == "" {
		o.StrokeColor = d.StrokeColor
	}
	return o
}

// PreviewResult contains a rendered stroke preview.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`

	// Shape is the overlaid shape, empty when no match was drawn.
	Shape string `json:"shape,omitempty"`

	// ShapeColor is the overlay color used, "#RRGGBB".
	ShapeColor string `json:"shape_color,omitempty"`
}

// transform maps stroke coordinates onto the canvas, keeping the aspect ratio
// and centering the stroke inside the padding.
type transform struct {
	scale, offX, offY float64
	bbox              detection.BoundingBox
}

func newTransform(bbox detection.BoundingBox, o PreviewOptions) transform {
	availW := float64(o.Width - 2*o.Padding)
	availH := float64(o.Height - 2*o.Padding)
	scale := math.Min(availW/math.Max(bbox.W, 1), availH/math.Max(bbox.H, 1))

	return transform{
		scale: scale,
		offX:  float64(o.Padding) + (availW-bbox.W*scale)/2,
		offY:  float64(o.Padding) + (availH-bbox.H*scale)/2,
		bbox:  bbox,
	}
}

// at maps an absolute stroke point.
func (t transform) at(x, y float64) vec {
	return vec{t.offX + (x-t.bbox.X)*t.scale, t.offY + (y-t.bbox.Y)*t.scale}
}

// RenderPreview draws the raw stroke and, when match is non-nil, the outline
// of the recognized shape over it, and returns the image as base64 PNG.
//
// Returns an error for an empty stroke, an unparsable color, or a PNG
// encoding failure.
func RenderPreview(points []detection.Point, match *detection.ShapeMatch, opts PreviewOptions) (*PreviewResult, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("cannot render an empty stroke")
	}
	o := opts.withDefaults()

	background, err := parseColor(o.Background, colorful.Color{R: 1, G: 1, B: 1})
	if err != nil {
		return nil, err
	}
	strokeCol, err := parseColor(o.StrokeColor, colorful.Color{R: 0.5, G: 0.5, B: 0.5})
	if err != nil {
		return nil, err
	}

	bbox := detection.GetBbox(points)
	t := newTransform(bbox, o)

	canvas := imaging.New(o.Width, o.Height, background)
	drawGrid(canvas, o.GridSpacing, gridColor(background, strokeCol))

	strokeLayer := strokePolylines(o.Width, o.Height, strokeLines(points, t), o.StrokeWidth, strokeCol)
	if o.Soft {
		canvas = imaging.Overlay(canvas, blur.Gaussian(strokeLayer, 1.0), image.Pt(0, 0), 1.0)
	} else {
		canvas = imaging.Overlay(canvas, strokeLayer, image.Pt(0, 0), 1.0)
	}

	result := &PreviewResult{
		Width:    o.Width,
		Height:   o.Height,
		MimeType: "image/png",
	}

	if match != nil {
		overlay := shapeColor(match.Shape)
		if o.ShapeColor != "" {
			if overlay, err = parseColor(o.ShapeColor, overlay); err != nil {
				return nil, err
			}
		}

		shapeLayer := strokePolylines(o.Width, o.Height, shapeLines(match, bbox, t), o.StrokeWidth+1, overlay)
		canvas = imaging.Overlay(canvas, shapeLayer, image.Pt(0, 0), 0.85)

		if o.ShowLabel {
			drawLabel(canvas, 4, 13, fmt.Sprintf("%s %.2f", match.Shape, match.Score), overlay)
		}

		result.Shape = string(match.Shape)
		result.ShapeColor = toHex(overlay)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	result.ImageBase64 = base64.StdEncoding.EncodeToString(buf.Bytes())

	return result, nil
}

// strokeLines splits the stroke into canvas polylines at break markers.
func strokeLines(points []detection.Point, t transform) [][]vec {
	lines := make([][]vec, 0, 1)
	var current []vec
	for _, p := range points {
		if p.Break && len(current) > 0 {
			lines = append(lines, current)
			current = nil
		}
		current = append(current, t.at(p.X, p.Y))
	}
	return append(lines, current)
}

// shapeLines returns the outline of the recognized shape covering the stroke's box.
func shapeLines(match *detection.ShapeMatch, bbox detection.BoundingBox, t transform) [][]vec {
	topLeft := t.at(bbox.X, bbox.Y)
	w, h := bbox.W*t.scale, bbox.H*t.scale
	x, y := topLeft.X, topLeft.Y

	rect := []vec{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}, {x, y}}

	switch match.Shape {
	case detection.ShapeRect:
		return [][]vec{rect}
	case detection.ShapeEllipse:
		return [][]vec{ellipsePolyline(x, y, w, h, 64)}
	case detection.ShapeDiamond:
		return [][]vec{{{x + w/2, y}, {x + w, y + h/2}, {x + w/2, y + h}, {x, y + h/2}, {x + w/2, y}}}
	case detection.ShapeObject:
		underline := []vec{{x + w*0.1, y + h*0.3}, {x + w*0.9, y + h*0.3}}
		return [][]vec{rect, underline}
	case detection.ShapeConnector:
		return connectorLines(match.Connector, bbox, t)
	}
	return nil
}

func connectorLines(props *detection.ConnectorProps, bbox detection.BoundingBox, t transform) [][]vec {
	if props == nil || len(props.Points) == 0 {
		return nil
	}

	line := make([]vec, len(props.Points))
	for i, p := range props.Points {
		line[i] = t.at(bbox.X+p.X, bbox.Y+p.Y)
	}
	lines := [][]vec{line}

	if len(line) > 1 && props.DestinationCap != detection.CapEmpty {
		tip := line[len(line)-1]
		from := line[len(line)-2]
		closed := props.DestinationCap == detection.CapTriangle
		if c := capPolyline(from, tip, 12, closed); c != nil {
			lines = append(lines, c)
		}
	}
	return lines
}
