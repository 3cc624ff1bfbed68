package eval

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/signadot/xton-format/go-xton/debug"
	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/gomap"
	"github.com/signadot/xton-format/go-xton/ir"
	"github.com/signadot/xton-format/go-xton/parse"
)

// Env holds the variables visible to expressions.
type Env map[string]any

// DocVar is the variable bound to the whole document by EvalNode.
const DocVar = "doc"

// Set assigns a dotted path in env from an argument of the form
// "a.b=value". The value is read as XTon; if it does not parse it is
// taken as a plain string.
func (env Env) Set(arg string) error {
	key, val, ok := strings.Cut(arg, "=")
	if !ok || key == "" {
		return fmt.Errorf("argument %q expected key=val", arg)
	}
	var v any = val
	if node, err := parse.ParseString(val); err == nil {
		v = gomap.ToAny(node)
	}
	parts := strings.Split(key, ".")
	m := map[string]any(env)
	for _, part := range parts[:len(parts)-1] {
		sub, ok := m[part].(map[string]any)
		if !ok {
			sub = map[string]any{}
			m[part] = sub
		}
		m = sub
	}
	m[parts[len(parts)-1]] = v
	return nil
}

// Eval evaluates expression against env.
func Eval(expression string, env Env) (any, error) {
	return evalIn(expression, env, nil)
}

func evalIn(expression string, env Env, doc *ir.Node) (any, error) {
	if env == nil {
		env = Env{}
	}
	opts := append([]expr.Option{expr.Env(map[string]any(env))}, exprOpts(doc)...)
	prg, err := expr.Compile(expression, opts...)
	if err != nil {
		return nil, err
	}
	res, err := expr.Run(prg, map[string]any(env))
	if err != nil {
		return nil, err
	}
	if debug.Eval() {
		debug.Logf("eval %q gave %#v\n", expression, res)
	}
	return res, nil
}

// EvalNode evaluates expression with doc bound to DocVar and returns the
// result as a node.
func EvalNode(expression string, doc *ir.Node, env Env) (*ir.Node, error) {
	scope := Env{}
	for k, v := range env {
		scope[k] = v
	}
	scope[DocVar] = gomap.ToAny(doc)
	res, err := evalIn(expression, scope, doc)
	if err != nil {
		return nil, err
	}
	return gomap.ToIR(res)
}

// ExpandString replaces each $[expr] in v with the XTon text of its
// value. Inside an expression \] is a literal ] and \\ a literal \. An
// unclosed expression is left as is.
func ExpandString(v string, env Env) (string, error) {
	return expandString(v, env, nil)
}

func expandString(v string, env Env, doc *ir.Node) (string, error) {
	var out strings.Builder
	for {
		start := strings.Index(v, "$[")
		if start < 0 {
			out.WriteString(v)
			return out.String(), nil
		}
		key, n, ok := scanExpr(v[start+2:])
		if !ok {
			out.WriteString(v)
			return out.String(), nil
		}
		out.WriteString(v[:start])
		x, err := evalIn(key, env, doc)
		if err != nil {
			return "", fmt.Errorf("error evaluating %q: %w", key, err)
		}
		s, err := anyToText(x)
		if err != nil {
			return "", fmt.Errorf("could not encode result of %q: %w", key, err)
		}
		out.WriteString(s)
		v = v[start+2+n:]
	}
}

// scanExpr reads an expression body up to its closing bracket, returning
// the unescaped body and the number of bytes consumed.
func scanExpr(s string) (string, int, bool) {
	var key strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 < len(s) {
				i++
				key.WriteByte(s[i])
				continue
			}
			key.WriteByte(c)
		case ']':
			return strings.TrimSpace(key.String()), i + 1, true
		default:
			key.WriteByte(c)
		}
	}
	return "", 0, false
}

func anyToText(x any) (string, error) {
	if s, ok := x.(string); ok {
		return s, nil
	}
	node, err := gomap.ToIR(x)
	if err != nil {
		return "", err
	}
	return encode.String(node)
}

// ExpandEnv returns a copy of doc with the expressions in its strings and
// object keys expanded. Expressions see env and, as DocVar, the original
// document.
func ExpandEnv(doc *ir.Node, env Env) (*ir.Node, error) {
	scope := Env{}
	for k, v := range env {
		scope[k] = v
	}
	scope[DocVar] = gomap.ToAny(doc)
	return expandNode(doc, scope)
}

func expandNode(node *ir.Node, env Env) (*ir.Node, error) {
	switch node.Type {
	case ir.StringType:
		s := node.String
		if strings.HasPrefix(s, "$[") {
			if key, n, ok := scanExpr(s[2:]); ok && n == len(s)-2 {
				x, err := evalIn(key, env, node)
				if err != nil {
					return nil, fmt.Errorf("error evaluating %q at %s: %w", key, node.Path(), err)
				}
				return gomap.ToIR(x)
			}
		}
		xs, err := expandString(s, env, node)
		if err != nil {
			return nil, err
		}
		return ir.FromString(xs), nil
	case ir.ArrayType:
		res := ir.FromSlice(nil)
		for _, v := range node.Values {
			xv, err := expandNode(v, env)
			if err != nil {
				return nil, err
			}
			res.Append(xv)
		}
		return res, nil
	case ir.ObjectType:
		res := ir.FromKeyVals(nil)
		for i, f := range node.Fields {
			key, err := expandString(f.String, env, node.Values[i])
			if err != nil {
				return nil, err
			}
			xv, err := expandNode(node.Values[i], env)
			if err != nil {
				return nil, err
			}
			res.Put(key, xv)
		}
		return res, nil
	}
	return node.Clone(), nil
}
