// Package geom provides the 2D primitives used by the placement engine.
//
// Everything in this package is pure: no function mutates its inputs, logs, or
// returns an error for degenerate geometry. Callers decide how loudly to report
// a degraded result.
//
// # Coordinate System
//
// Document space is y-down, as in SVG: +X points right and +Y points down.
// Angles are in degrees and measured with atan2(dy, dx) in document space, so
// 0° points right, 90° points down and -90° points up. [Rotate] builds the
// matrix [cos sin -sin cos 0 0], which turns +X toward +Y; on screen a positive
// angle is a clockwise turn.
//
// # Matrices
//
// [Matrix] stores an affine map in SVG order [a b c d e f]:
//
//	x' = a·x + c·y + e
//	y' = b·x + d·y + f
//
// m.Mul(o) applies o first and m second, matching how a parent transform wraps
// a child transform in a scene tree.
//
// # Centroids
//
// [Centroid] walks a fallback ladder and always returns a point:
//
//  1. Shoelace centroid of the closed polygon.
//  2. Bounding-box center of the vertices.
//  3. Arithmetic mean of the finite vertices.
//
// The [CentroidResult] records which rung produced the point so the caller can
// log the degradation. [CompositeCentroid] combines the centroids of several
// polygons by area, for regions drawn as separate shapes.
//
// # Rotation
//
// [RotationAngle] returns the signed angle that turns the vector from → to onto
// a target [Direction], normalized into (-180, 180]. With target [Up]:
//
//	to due north of from  →   0°
//	to due east of from   → -90°
//	to due west of from   →  90°
//	to due south of from  → 180°
package geom
