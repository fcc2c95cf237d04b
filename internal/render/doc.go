// Package render draws freehand strokes and their recognized shapes into
// PNG previews.
//
// A preview places the raw stroke on a canvas, scaled to fit inside the
// padding with its aspect ratio kept, and overlays the outline of the
// recognized shape in a per-kind color. Connectors are drawn along their
// simplified points with the detected destination cap at the tip.
//
// # Layers
//
// Strokes and outlines are rasterized with golang.org/x/image/vector into
// transparent layers and composed with disintegration/imaging. Soft strokes
// are blurred with bild before composition. Colors are chosen in HCL space
// with go-colorful.
//
// All functions are stateless and safe for concurrent use.
package render
