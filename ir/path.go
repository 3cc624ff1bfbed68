package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Path returns the location of y relative to its root, for example
// "$.servers[2].host".
func (y *Node) Path() string {
	if y.Parent == nil {
		return "$"
	}
	switch y.Parent.Type {
	case ObjectType:
		return y.Parent.Path() + "." + pathField(y.ParentField)
	case ArrayType:
		return y.Parent.Path() + "[" + strconv.Itoa(y.ParentIndex) + "]"
	default:
		panic("parent but not in container")
	}
}

func pathField(f string) string {
	if f != "" && strings.IndexAny(f, "'.*$[]") == -1 {
		return f
	}
	return "'" + strings.ReplaceAll(f, "'", "\\'") + "'"
}

// Step is one selector of a Path.
type Step struct {
	Field    *string
	Index    *int
	IndexAll bool
	Subtree  bool
}

func (s Step) String() string {
	switch {
	case s.Subtree:
		return "."
	case s.IndexAll:
		return "[*]"
	case s.Field != nil:
		return "." + pathField(*s.Field)
	case s.Index != nil:
		return "[" + strconv.Itoa(*s.Index) + "]"
	}
	return ""
}

// Path is a parsed selector such as $.a[0].'b.c' or $..name.
type Path []Step

func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for i, s := range p {
		// a subtree step shares its second '.' with a following field
		if s.Subtree && (i+1 == len(p) || p[i+1].Field == nil) {
			b.WriteString("..")
			continue
		}
		b.WriteString(s.String())
	}
	return b.String()
}

func ParsePath(p string) (Path, error) {
	if len(p) == 0 || p[0] != '$' {
		return nil, fmt.Errorf("%w: %q should start with '$'", ErrPath, p)
	}
	res := Path{}
	rest := p[1:]
	for rest != "" {
		var (
			step Step
			err  error
		)
		step, rest, err = parseStep(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrPath, p, err)
		}
		res = append(res, step)
	}
	return res, nil
}

func parseStep(frag string) (Step, string, error) {
	switch frag[0] {
	case '.':
		if strings.HasPrefix(frag, "..") {
			if len(frag) == 2 || frag[2] == '[' {
				return Step{Subtree: true}, frag[2:], nil
			}
			return Step{Subtree: true}, frag[1:], nil
		}
		field, rest, err := parseField(frag[1:])
		if err != nil {
			return Step{}, "", err
		}
		return Step{Field: &field}, rest, nil
	case '[':
		i := strings.IndexByte(frag, ']')
		if i == -1 {
			return Step{}, "", fmt.Errorf("expected '[' <index> ']'")
		}
		body := frag[1:i]
		if body == "*" {
			return Step{IndexAll: true}, frag[i+1:], nil
		}
		u64, err := strconv.ParseUint(body, 10, 32)
		if err != nil {
			return Step{}, "", fmt.Errorf("bad index %q", body)
		}
		index := int(u64)
		return Step{Index: &index}, frag[i+1:], nil
	default:
		return Step{}, "", fmt.Errorf("expected '.' or '[' at %q", frag)
	}
}

func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of string")
	}
	if frag[0] != '\'' {
		i := strings.IndexAny(frag, ".[")
		if i == 0 {
			return "", "", fmt.Errorf("empty field")
		}
		if i == -1 {
			return frag, "", nil
		}
		return frag[:i], frag[i:], nil
	}
	escaped := false
	res := make([]byte, 0, len(frag))
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch {
		case c == '\\' && !escaped:
			escaped = true
		case c == '\'' && !escaped:
			return string(res), frag[i+1:], nil
		default:
			escaped = false
			res = append(res, c)
		}
	}
	return "", "", fmt.Errorf("end of string scanning for \"'\"")
}

// GetPath returns the single node selected by path, or nil if an object
// along the way lacks the field. Wildcards are rejected; use ListPath.
func (y *Node) GetPath(path string) (*Node, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	res := y
	for _, s := range p {
		switch {
		case s.IndexAll, s.Subtree:
			return nil, fmt.Errorf("%w: %s not allowed in get", ErrPath, s)
		case s.Index != nil:
			if res.Type != ArrayType {
				return nil, fmt.Errorf("%w: %s: expected array, got %s", ErrNoPath, res.Path(), res.Type)
			}
			if *s.Index >= len(res.Values) {
				return nil, fmt.Errorf("%w: %s: index %d out of bounds (len %d)", ErrNoPath, res.Path(), *s.Index, len(res.Values))
			}
			res = res.Values[*s.Index]
		case s.Field != nil:
			if res.Type != ObjectType {
				return nil, fmt.Errorf("%w: %s: expected object, got %s", ErrNoPath, res.Path(), res.Type)
			}
			res = Get(res, *s.Field)
			if res == nil {
				return nil, nil
			}
		}
	}
	return res, nil
}

// ListPath appends to dst every node matched by path.
func (y *Node) ListPath(dst []*Node, path string) ([]*Node, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return y.listPath(dst, p), nil
}

func (y *Node) listPath(dst []*Node, p Path) []*Node {
	if len(p) == 0 {
		return append(dst, y)
	}
	s, rest := p[0], p[1:]
	switch {
	case s.Subtree:
		_ = y.Visit(func(node *Node, isPost bool) (bool, error) {
			if isPost {
				return false, nil
			}
			dst = node.listPath(dst, rest)
			return !node.Type.IsLeaf(), nil
		})
	case s.Field != nil:
		if y.Type != ObjectType {
			return dst
		}
		if v := Get(y, *s.Field); v != nil {
			dst = v.listPath(dst, rest)
		}
	case s.Index != nil:
		if y.Type == ArrayType && *s.Index < len(y.Values) {
			dst = y.Values[*s.Index].listPath(dst, rest)
		}
	case s.IndexAll:
		if y.Type != ArrayType {
			return dst
		}
		for _, v := range y.Values {
			dst = v.listPath(dst, rest)
		}
	}
	return dst
}
