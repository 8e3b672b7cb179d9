// Package scene provides the in-memory document tree the placement engine
// operates on.
//
// A [Document] owns a tree of [Node] values rooted at an identity-transformed
// group. Every node carries its own local transform; the composition of all
// transforms from the root down to a node is its cumulative transform, which
// maps the node's local coordinates into canonical (root) space.
//
// # Node Kinds
//
// Node kinds form a closed set ([KindGroup], [KindPath], [KindRect],
// [KindEllipse], [KindText]). What a node can do is described by its
// [Capabilities] rather than probed at runtime:
//
//	kind     vertex data  children  stroke
//	group         -          ✓        -
//	path          ✓          -        ✓
//	rect          ✓          -        ✓
//	ellipse       ✓          -        ✓
//	text          -          -        ✓
//
// Text has no vertex data; its bounds are estimated from the font size.
//
// # Mutation
//
// Structural changes go through the document ([Document.Append],
// [Document.Insert], [Document.Detach], [Document.SetTransform]) so the id
// index stays consistent. Node ids are unique within a document; nodes with an
// empty id are anonymous and not indexed.
//
// # Traversal
//
// Tree walks ([Walk], ancestor chains, bounds, JSON decoding) use explicit
// stacks or loops so arbitrarily deep documents cannot exhaust the goroutine
// stack.
//
// # Serialization
//
// Documents are exchanged as JSON ([Decode], [Encode], [ReadFile],
// [WriteFile]). Transforms are six-element SVG matrices; a missing transform
// means identity.
package scene
