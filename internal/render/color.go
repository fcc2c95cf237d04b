package render

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/smartshape-mcp/internal/detection"
)

// shapeHues spreads the recognized shapes around the HCL hue circle so that
// overlays of different kinds are easy to tell apart.
var shapeHues = map[detection.ShapeKind]float64{
	detection.ShapeRect:      250,
	detection.ShapeEllipse:   140,
	detection.ShapeDiamond:   40,
	detection.ShapeObject:    300,
	detection.ShapeConnector: 200,
}

// parseColor parses "#RGB" or "#RRGGBB". An empty string yields fallback.
func parseColor(hex string, fallback colorful.Color) (colorful.Color, error) {
	if hex == "" {
		return fallback, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return c, nil
}

// shapeColor returns the overlay color for a shape kind.
func shapeColor(kind detection.ShapeKind) colorful.Color {
	hue, ok := shapeHues[kind]
	if !ok {
		return colorful.Hcl(0, 0, 0.4)
	}
	return colorful.Hcl(hue, 0.7, 0.55).Clamped()
}

// gridColor is a faint tint of the stroke color over the background.
func gridColor(background, stroke colorful.Color) color.Color {
	return background.BlendLab(stroke, 0.15).Clamped()
}

// toHex formats a color as "#RRGGBB".
func toHex(c colorful.Color) string {
	return c.Clamped().Hex()
}
