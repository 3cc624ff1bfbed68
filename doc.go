// Package xton reads and writes XTon, a compact text format for nested
// data.
//
// XTon covers the same values as JSON with delimiters that rarely need
// quoting in plain alphanumeric text:
//
//	<name-xton/tags-[fast/compact]/ratio-0.5/stable-\true/owner-\none>
//
// An object with one entry may drop its brackets, so q-<a-\none> is an
// object holding another object.
//
// [Marshal] and [Unmarshal] convert Go values with reflection through
// package gomap. [Encoder] and [Decoder] hold reusable configuration,
// including a hook for values that have no XTon form. The lower level
// packages parse and encode work on [ir.Node] trees directly.
package xton
