/*
Package fieldpath provides a structured, type-safe representation for
node addresses within an object graph, based on the canonical format
"$.field.field".

A path is a dot-separated sequence of selectors starting at the root
marker "$", e.g. "$.Throughs.Child". The special path "$" denotes the
root node itself; when a walk records it, it is the only path of that
walk, since a placeholder root makes every sub-path meaningless.

This package enforces the address schema and centralizes all formatting,
parsing and serialization logic so the materializer and the reinserter
round-trip the same addresses.
*/
package fieldpath
