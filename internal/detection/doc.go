// Package detection recognizes diagram primitives in freehand strokes.
//
// A stroke is the ordered sequence of points a user draws before releasing
// the pointer. IdentifyShape classifies it as a rectangle, ellipse, diamond,
// UML object (a rectangle with a separately drawn underline) or a connector
// with an optional arrow or triangle cap at its destination.
//
// # Pipeline
//
//  1. Bounding box: GetBbox over all points
//  2. Normalization: the stroke is stretched to a canonical 200x200 box so
//     that the angle and length thresholds apply at any drawing size
//  3. Curve analysis: the stroke is split into sub-curves on break markers;
//     each sub-curve gets its turning angles, simplified lines, closure and
//     full-length line counts
//  4. Branch: if the first sub-curve's endpoints are far apart the stroke is
//     a connector and its cap is detected; otherwise every classifier is
//     scored and the best match wins
//
// # Angles
//
// Angles are signed turning angles in degrees at each interior point: the
// change of direction between the incoming and outgoing segment. A straight
// run gives 0, a square corner ±90. The sign tells the rotation direction.
//
// # Scores
//
// Each classifier reports a weighted mean of its own criteria, roughly 0.0 to
// 1.1. Scores are only used for ranking. IdentifyShape applies no threshold;
// callers should use ShapeMatch.Accepted with AcceptThreshold. Connector
// matches are always scored 1.0.
//
// # Coordinate System
//
// Points use the editor's local coordinates: X increases rightward and Y
// increases downward. Connector points are returned relative to the stroke's
// bounding box origin, in the original scale.
//
// # Concurrency
//
// All functions are pure and never modify their input, so strokes can be
// recognized concurrently.
package detection
