package eval

import (
	"os"

	"github.com/expr-lang/expr"

	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/gomap"
	"github.com/signadot/xton-format/go-xton/ir"
)

// exprOpts are the functions available to expressions evaluated in the
// context of doc.
func exprOpts(doc *ir.Node) []expr.Option {
	return []expr.Option{
		expr.Function("whereami", func(params ...any) (any, error) {
			if doc == nil {
				return "$", nil
			}
			return doc.Path(), nil
		},
			new(func() string)),
		expr.Function("getpath", func(params ...any) (any, error) {
			if doc == nil {
				return nil, nil
			}
			res, err := doc.Root().GetPath(params[0].(string))
			if err != nil {
				return nil, err
			}
			return gomap.ToAny(res), nil
		},
			new(func(string) any)),
		expr.Function("listpath", func(params ...any) (any, error) {
			if doc == nil {
				return []any{}, nil
			}
			nodes, err := doc.Root().ListPath(nil, params[0].(string))
			if err != nil {
				return nil, err
			}
			res := make([]any, len(nodes))
			for i, node := range nodes {
				res[i] = gomap.ToAny(node)
			}
			return res, nil
		},
			new(func(string) []any)),
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		},
			new(func(string) string)),
		expr.Function("xton", func(params ...any) (any, error) {
			node, err := gomap.ToIR(params[0])
			if err != nil {
				return nil, err
			}
			return encode.String(node)
		},
			new(func(any) string)),
	}
}
