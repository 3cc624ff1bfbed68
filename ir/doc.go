// Package ir provides the in-memory value model for XTon documents.
//
// A document decodes to a tree of [*Node]. Objects keep their entries in
// insertion order and each child records its parent, its index and, for
// object members, its key. Numbers remember whether they were produced as
// integers or floats so that the encoder can render them faithfully.
//
// The package also offers ordering ([Compare], [Equal]) and a small path
// language ([ParsePath], [Node.GetPath], [Node.ListPath]) used by the
// command line tools.
package ir
