// Package container provides the polymorphic traversal strategy for the
// four container shapes the walkers understand: ordered sequences
// (slices), sets (map[K]struct{}), associative maps and fixed-size
// arrays. Each Adapter knows how to walk one shape and rebuild it from
// rewritten elements, so the materializer and the reinserter never
// branch on container types inline.
package container
