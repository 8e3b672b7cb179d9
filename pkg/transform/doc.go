// Package transform measures and rescales scene subtrees whose geometry sits
// under arbitrarily nested transforms.
//
// # Cumulative Scale
//
// [CumulativeScale] composes the 2×2 linear parts of a transform chain and
// decomposes the result into horizontal and vertical scale factors. Axis
// aligned chains decompose exactly. Rotation combined with uniform scale is
// also exact. Rotation combined with non-uniform scale is flagged
// Approximate: when the scale is applied last the factors are the scales of
// the canonical axes, otherwise the lengths of the transformed basis vectors.
// Skewed chains, which fit neither form, report basis vector lengths plus an
// UNSUPPORTED_TRANSFORM warning; the factors are still usable.
//
// # Measurement
//
// Bounds are only trustworthy in canonical space, so [Measure] never reads
// them in place. It acquires a [Scratch] group directly under the document
// root, clones every requested subtree into it with the clone's transform set
// to the original's cumulative transform, reads the group's bounds and
// releases the scratch group on every exit path:
//
//	s, err := transform.Acquire(doc)
//	if err != nil {
//	    return err
//	}
//	defer s.Release()
//
// After Release the document has the same nodes and transforms as before.
//
// # Stroke Compensation
//
// Once a scale s has been baked into a subtree, [CompensateStroke] divides
// every stroke width below it by s so the rendered line weight is unchanged.
// [NormalizeStroke] instead sets every stroke to a fixed rendered width given
// each node's own cumulative scale.
package transform
