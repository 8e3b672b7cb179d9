// Package placement rotates, scales and positions the units of a scene so
// each one fills a target box, and re-places a copy of every unit's green
// into a second box.
//
// # Units
//
// A unit is a group in the document, resolved by index through a [Resolver].
// Its terrain is the set of subtrees whose extent is fitted; its green is an
// optional subtree that orients the unit and is cloned into the detail box.
// [LabelResolver] finds units the way hand-authored course documents name
// them: "hole_01" groups holding a "green_01" path plus "fairways" and
// "bunkers" groups.
//
// # Per-unit State Machine
//
// Every unit walks the same states in order:
//
//	Pending → Rotated → Measured → Fitted → GreenExtracted → GreenMeasured → GreenFitted → Done
//
// Any step may move the unit to Failed instead. A failed unit is rolled back
// to the state it had before the engine touched it, and the run continues
// with the next unit. Units are processed strictly in increasing index order
// on the calling goroutine; the document is not safe for concurrent use.
//
// # Fitting
//
// [Fit] computes a single scale that makes the measured box fill the buffered
// part of a [TargetBox] along its limiting axis, and a translation that
// centers it. Width and height are always scaled by the same factor.
//
// # Canonical Space
//
// Every rotation and fit is computed in canonical (root) space and pushed
// down into the unit's local transform as P⁻¹·M·P·L, where P is the
// cumulative transform of the unit's parent and L its current local
// transform. Units under a singular parent transform cannot be placed.
//
// # Reports
//
// [Engine.Run] never stops at a failed unit. It returns a [Report] with one
// [UnitReport] per unit holding the final state, the applied rotation and
// scales, and every warning and error met along the way.
package placement
