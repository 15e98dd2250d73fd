// Package lazy provides the built-in placeholder substrate: value types
// that stand in for not-yet-loaded graph nodes, and the capability
// implementation the walkers consume to detect, resolve and construct
// them.
//
// A detached placeholder mimics the externally observable behavior of a
// lazily-loaded reference after its session is gone: the identity key is
// always accessible, everything else fails with *UninitializedError.
package lazy
