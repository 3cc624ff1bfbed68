// Package gomap converts between Go values and XTon nodes.
//
// [ToIR] walks a Go value with reflection. Struct fields are named by
// their `xton` tag, for example
//
//	type Server struct {
//		Host  string `xton:"host"`
//		Port  int    `xton:"port,omitempty"`
//		Debug bool   `xton:"-"`
//	}
//
// Types may take over their own conversion by implementing [IRMarshaler]
// and [IRUnmarshaler]; encoding.TextMarshaler and TextUnmarshaler are
// honoured as well. [Object] is an ordered map for documents whose key
// order matters.
//
// [FromIR] decodes into a pointer. [ToAny] produces the generic form used
// by Unmarshal into an any.
package gomap
