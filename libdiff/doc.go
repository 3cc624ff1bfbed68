// Package libdiff computes differences between XTon documents.
//
// Diff reports structural changes keyed by path. Object fields and array
// elements are aligned with a sequence diff so that an insertion in the
// middle of an array shows as one insertion rather than a change to every
// later element. Text renders a character level diff of two encodings.
package libdiff
