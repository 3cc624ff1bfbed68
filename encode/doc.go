// Package encode renders [ir.Node] trees as XTon text.
//
// Scalars are written as \none, \true, \false, integer-class numbers
// without a decimal point, float-class numbers always with one, and text
// bare unless it is empty, contains a reserved character or looks like a
// number. An object with a single entry whose key can be written bare
// uses the unbracketed key-value form at any depth; every other object
// is bracketed with '<' and '>'.
//
// Values outside the model, such as NaN, cyclic trees or non-text keys,
// fail with errors wrapping [ErrUnrepresentable].
package encode
