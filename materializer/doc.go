/*
Package materializer converts a lazily-loaded object graph into a fully
materialized one. It walks the graph depth-first, swaps every
placeholder for its real value, and for the placeholders that have no
value yet it builds an identity-only stand-in and records the field path
where the placeholder sat. The recorded paths are the input to the
reinserter package, which restores the placeholders later.

The placeholder scheme is abstracted behind the Substrate interface;
package lazy supplies the default implementation.
*/
package materializer
