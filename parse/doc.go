// Package parse decodes XTon text into [ir.Node] trees.
//
// The parser is a recursive descent over the [token.Tokenizer]. At each
// position a literal keyword is tried first, then a number, then a bare
// key or string. A bare token immediately followed by '-' is the key of
// a single entry object written without brackets:
//
//	name-value          an object with one entry
//	<a-1/b-'x y'>       an object with two entries
//	[a/25.3/\none]      an array
//
// Every failure is a [*token.DecodeError]; no partial tree is returned.
package parse
