// Package stroke turns finished freehand strokes into diagram items.
//
// It is the editor-side half of shape recognition: the detection package
// classifies points, this package prepares the points the way the drawing
// tool does and decides what to create from the result.
//
// # Pipeline
//
//  1. Dedupe: consecutive points with the same coordinates are dropped
//  2. Connector check: the raw stroke is classified first, since cap
//     detection needs every sample of the stroke's tail
//  3. Simplify and classify: other strokes are reduced per sub-path with
//     Ramer-Douglas-Peucker using the drawing epsilon (default 5, clamped to
//     [1, 1000]) and classified again
//  4. Accept: connectors always, shapes only when their score exceeds the
//     acceptance threshold (default 0.2)
//  5. Place: the item covers the stroke's original bounding box; rejected
//     strokes stay freeform curves
//
// RecognizeBatch runs the pipeline over many strokes with a bounded worker
// pool. Scheme sample files can be loaded and replayed with VerifySamples.
package stroke
