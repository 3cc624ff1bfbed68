// Package eval evaluates expr-lang expressions against XTon documents.
//
// Expressions see the variables of an [Env] plus these functions:
//
//	whereami()       path of the node being expanded
//	getpath(path)    value at path from the document root
//	listpath(path)   values matching path, which may use [*]
//	getenv(name)     OS environment variable
//	xton(v)          v encoded as XTon text
//
// Strings in a document may embed expressions as $[expr]. A string that
// is exactly one expression is replaced by the expression's value; other
// strings get the XTon text of each value spliced in.
package eval
