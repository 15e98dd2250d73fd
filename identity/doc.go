/*
Package identity discovers and accesses the identity key of entity
types: the minimal value that uniquely names an entity instance,
independent of its other fields.

Bindings from type to identity field are explicit and injected at
construction time. Three sources exist:

  - Register: direct programmatic binding.
  - FromTags / WithTagDiscovery: convention-based discovery from the
    `detach:"identity"` struct tag.
  - LoadManifests: declarative HCL manifests validated against
    registered Go types before any binding takes effect.
*/
package identity
