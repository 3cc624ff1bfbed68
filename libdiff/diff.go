package libdiff

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/ir"
)

// Change is one difference. From is nil for an insertion and To is nil
// for a deletion. Path is in the "from" document for deletions and
// replacements and in the "to" document for insertions.
type Change struct {
	Path string
	From *ir.Node
	To   *ir.Node
}

func (c Change) Kind() string {
	switch {
	case c.From == nil:
		return "insert"
	case c.To == nil:
		return "delete"
	}
	return "replace"
}

func (c Change) String() string {
	var b strings.Builder
	b.WriteString(c.Kind())
	b.WriteByte(' ')
	b.WriteString(c.Path)
	if c.From != nil {
		b.WriteString(" from ")
		b.WriteString(text(c.From))
	}
	if c.To != nil {
		b.WriteString(" to ")
		b.WriteString(text(c.To))
	}
	return b.String()
}

func text(node *ir.Node) string {
	s, err := encode.String(node)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}

// Diff returns the changes turning from into to, in document order. Equal
// documents give no changes. Numbers compare by value regardless of
// class.
func Diff(from, to *ir.Node) []Change {
	return diff(nil, ir.Path{}, from, to)
}

func diff(dst []Change, path ir.Path, from, to *ir.Node) []Change {
	switch {
	case from.Type != to.Type:
		return append(dst, Change{Path: path.String(), From: from, To: to})
	case from.Type == ir.ObjectType:
		return diffObject(dst, path, from, to)
	case from.Type == ir.ArrayType:
		return diffArray(dst, path, from, to)
	case !ir.Equal(from, to):
		return append(dst, Change{Path: path.String(), From: from, To: to})
	}
	return dst
}

func fieldStep(path ir.Path, f string) ir.Path {
	return append(path[:len(path):len(path)], ir.Step{Field: &f})
}

func indexStep(path ir.Path, i int) ir.Path {
	return append(path[:len(path):len(path)], ir.Step{Index: &i})
}

// runes maps each key to a rune so that sequences of keys can be diffed
// as strings.
type runes map[string]rune

func (m runes) of(keys []string) []rune {
	rs := make([]rune, len(keys))
	for i, k := range keys {
		r, ok := m[k]
		if !ok {
			r = rune(len(m))
			m[k] = r
		}
		rs[i] = r
	}
	return rs
}

func fieldKeys(node *ir.Node) []string {
	keys := make([]string, len(node.Fields))
	for i, f := range node.Fields {
		keys[i] = f.String
	}
	return keys
}

func diffObject(dst []Change, path ir.Path, from, to *ir.Node) []Change {
	m := runes{}
	ds := diffpatch.New().DiffMainRunes(m.of(fieldKeys(from)), m.of(fieldKeys(to)), false)
	fi, ti := 0, 0
	for _, d := range ds {
		n := len([]rune(d.Text))
		for range n {
			switch d.Type {
			case diffpatch.DiffDelete:
				dst = append(dst, Change{Path: fieldStep(path, from.Fields[fi].String).String(), From: from.Values[fi]})
				fi++
			case diffpatch.DiffInsert:
				dst = append(dst, Change{Path: fieldStep(path, to.Fields[ti].String).String(), To: to.Values[ti]})
				ti++
			case diffpatch.DiffEqual:
				dst = diff(dst, fieldStep(path, from.Fields[fi].String), from.Values[fi], to.Values[ti])
				fi++
				ti++
			}
		}
	}
	return dst
}

// summary identifies an element for alignment: leaves by value and
// containers by type only, so that edited containers still align.
func summary(node *ir.Node) string {
	if node.Type.IsLeaf() {
		return node.Type.String() + ":" + text(node)
	}
	return node.Type.String()
}

func diffArray(dst []Change, path ir.Path, from, to *ir.Node) []Change {
	fs := make([]string, len(from.Values))
	for i, v := range from.Values {
		fs[i] = summary(v)
	}
	ts := make([]string, len(to.Values))
	for i, v := range to.Values {
		ts[i] = summary(v)
	}
	m := runes{}
	ds := diffpatch.New().DiffMainRunes(m.of(fs), m.of(ts), false)
	fi, ti := 0, 0
	for _, d := range ds {
		n := len([]rune(d.Text))
		for range n {
			switch d.Type {
			case diffpatch.DiffDelete:
				dst = append(dst, Change{Path: indexStep(path, fi).String(), From: from.Values[fi]})
				fi++
			case diffpatch.DiffInsert:
				dst = append(dst, Change{Path: indexStep(path, ti).String(), To: to.Values[ti]})
				ti++
			case diffpatch.DiffEqual:
				dst = diff(dst, indexStep(path, fi), from.Values[fi], to.Values[ti])
				fi++
				ti++
			}
		}
	}
	return dst
}

// Reverse returns the changes turning to back into from.
func Reverse(changes []Change) []Change {
	res := make([]Change, len(changes))
	for i, c := range changes {
		res[i] = Change{Path: c.Path, From: c.To, To: c.From}
	}
	return res
}

// ToIR renders changes as an array of objects with fields path, from
// and to, omitting the side that is absent.
func ToIR(changes []Change) *ir.Node {
	res := ir.FromSlice(nil)
	for _, c := range changes {
		kvs := []ir.KeyVal{
			{Key: "op", Val: ir.FromString(c.Kind())},
			{Key: "path", Val: ir.FromString(c.Path)},
		}
		if c.From != nil {
			kvs = append(kvs, ir.KeyVal{Key: "from", Val: c.From.Clone()})
		}
		if c.To != nil {
			kvs = append(kvs, ir.KeyVal{Key: "to", Val: c.To.Clone()})
		}
		res.Append(ir.FromKeyVals(kvs))
	}
	return res
}
