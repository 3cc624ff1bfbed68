// Package patch applies RFC 6902 JSON Patch and RFC 7386 JSON Merge Patch
// documents to XTon documents.
//
// Patches may be given as JSON text or as XTon values with the same
// shape. Documents pass through JSON on the way, so results follow JSON's
// value model: numbers that are whole become integer-class, and merge
// patch results have their object keys sorted.
package patch

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/signadot/xton-format/go-xton/convert"
	"github.com/signadot/xton-format/go-xton/debug"
	"github.com/signadot/xton-format/go-xton/ir"
)

// JSONPatch applies the JSON Patch operations in ops to doc.
func JSONPatch(doc *ir.Node, ops []byte) (*ir.Node, error) {
	p, err := jsonpatch.DecodePatch(ops)
	if err != nil {
		return nil, fmt.Errorf("bad json patch: %w", err)
	}
	d, err := convert.ToJSON(doc)
	if err != nil {
		return nil, err
	}
	if debug.Convert() {
		debug.Logf("json patch %d ops on %s\n", len(p), debug.XTon{Node: doc})
	}
	out, err := p.Apply(d)
	if err != nil {
		return nil, fmt.Errorf("json patch: %w", err)
	}
	return convert.FromJSON(out)
}

// Apply applies a JSON Patch given as an XTon array of operations, such
// as [<op-replace/path-\/a/value-1>].
func Apply(doc, ops *ir.Node) (*ir.Node, error) {
	if ops.Type != ir.ArrayType {
		return nil, fmt.Errorf("json patch must be an array, got %s", ops.Type)
	}
	d, err := convert.ToJSON(ops)
	if err != nil {
		return nil, err
	}
	return JSONPatch(doc, d)
}

// Merge applies the merge patch p to doc: objects merge recursively,
// nulls delete and anything else replaces.
func Merge(doc, p *ir.Node) (*ir.Node, error) {
	d, err := convert.ToJSON(doc)
	if err != nil {
		return nil, err
	}
	pd, err := convert.ToJSON(p)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(d, pd)
	if err != nil {
		return nil, fmt.Errorf("merge patch: %w", err)
	}
	return convert.FromJSON(out)
}

// CreateMerge returns the merge patch turning from into to. Both must be
// objects.
func CreateMerge(from, to *ir.Node) (*ir.Node, error) {
	fd, err := convert.ToJSON(from)
	if err != nil {
		return nil, err
	}
	td, err := convert.ToJSON(to)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.CreateMergePatch(fd, td)
	if err != nil {
		return nil, fmt.Errorf("create merge patch: %w", err)
	}
	return convert.FromJSON(out)
}
