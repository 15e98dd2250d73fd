// Package fieldref abstracts field access behind a small capability so
// the graph walkers never touch reflection directly: enumerate the
// mutable fields of a type, read or write a field by reference, and
// instantiate a fresh value. Unexported fields are treated as immutable
// and are never enumerated or rewritten.
package fieldref
