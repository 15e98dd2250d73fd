/*
Package reinserter restores placeholders into a materialized object
graph. Given the field paths recorded by the materializer, it navigates
each path and replaces the identity-only stand-in (or typed nil
container) found there with a fresh placeholder, undoing the
materialization for exactly those slots.

A path that no longer fits the graph fails loudly with *MismatchError;
there is no partial or best-effort application.
*/
package reinserter
