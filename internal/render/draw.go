package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// vec is a point in canvas pixels.
type vec struct {
	X, Y float64
}

// strokePolylines rasterizes each polyline as a series of quads of the given
// width into a new transparent layer of size w x h. All quads share one
// winding direction, so overlapping joints do not cancel out.
func strokePolylines(w, h int, lines [][]vec, width float64, c color.Color) *image.RGBA {
	layer := image.NewRGBA(image.Rect(0, 0, w, h))

	r := vector.NewRasterizer(w, h)
	r.DrawOp = draw.Src

	half := width / 2
	drew := false
	for _, line := range lines {
		if len(line) == 1 {
			addQuad(r, line[0], vec{line[0].X + 0.01, line[0].Y}, half)
			drew = true
		}
		for i := 1; i < len(line); i++ {
			addQuad(r, line[i-1], line[i], half)
			drew = true
		}
	}

	if drew {
		r.Draw(layer, layer.Bounds(), image.NewUniform(c), image.Point{})
	}
	return layer
}

// addQuad adds the rectangle covering segment a-b with the given half width,
// extended by half a width at both ends to fill joints.
func addQuad(r *vector.Rasterizer, a, b vec, half float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	ux, uy := dx/length*half, dy/length*half
	nx, ny := -uy, ux

	ax, ay := a.X-ux, a.Y-uy
	bx, by := b.X+ux, b.Y+uy

	r.MoveTo(float32(ax+nx), float32(ay+ny))
	r.LineTo(float32(bx+nx), float32(by+ny))
	r.LineTo(float32(bx-nx), float32(by-ny))
	r.LineTo(float32(ax-nx), float32(ay-ny))
	r.ClosePath()
}

// drawGrid draws vertical and horizontal lines every spacing pixels.
func drawGrid(img draw.Image, spacing int, c color.Color) {
	if spacing <= 0 {
		return
	}
	bounds := img.Bounds()

	for x := bounds.Min.X + spacing; x < bounds.Max.X; x += spacing {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			img.Set(x, y, c)
		}
	}
	for y := bounds.Min.Y + spacing; y < bounds.Max.Y; y += spacing {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

// drawLabel writes text with its baseline at (x, y) using the 7x13 basic font.
func drawLabel(img draw.Image, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// ellipsePolyline approximates the ellipse inscribed in the box with n segments.
func ellipsePolyline(x, y, w, h float64, n int) []vec {
	cx, cy := x+w/2, y+h/2
	line := make([]vec, 0, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		line = append(line, vec{cx + w/2*math.Cos(a), cy + h/2*math.Sin(a)})
	}
	return line
}

// capPolyline returns the decoration at tip for a connector arriving from
// direction (from -> tip). Arrows are open, triangles closed.
func capPolyline(from, tip vec, size float64, closed bool) []vec {
	dx := tip.X - from.X
	dy := tip.Y - from.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return nil
	}
	ux, uy := dx/length, dy/length

	// wings at 30 degrees off the reversed direction
	cos30, sin30 := math.Cos(math.Pi/6), math.Sin(math.Pi/6)
	left := vec{
		tip.X - size*(ux*cos30-uy*sin30),
		tip.Y - size*(uy*cos30+ux*sin30),
	}
	right := vec{
		tip.X - size*(ux*cos30+uy*sin30),
		tip.Y - size*(uy*cos30-ux*sin30),
	}

	if closed {
		return []vec{tip, left, right, tip}
	}
	return []vec{left, tip, right}
}
