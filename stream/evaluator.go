package stream

import (
	"fmt"

	"github.com/tapline/tapline/combinator"
	"github.com/tapline/tapline/filter"
	"github.com/tapline/tapline/row"
	"github.com/tapline/tapline/template"
)

// TokenExpr wraps a compiled template with its repetition modifiers
// (spec §3's token expression). It is immutable after config load.
type TokenExpr struct {
	Tag   string
	Many  bool
	Count *int
	Nodes []template.Node
	// Vars holds the per-template `vars` post-bind directives (spec's
	// token-expression field table): Vars[name] is a filter applied to
	// the bound value of name once Combine returns, the same dispatch
	// an inline Expr(_, Filter(...)) node gets.
	Vars map[string]string
}

// NewTokenExpr compiles tag under syn and wraps it with its repetition
// modifiers. count, when non-nil, takes precedence over many (a token
// expression configuring both is treated as count mode). filters must
// recognise every Filter name the template uses and every vars
// directive's filter name, or compilation fails (spec §7 kind 1) rather
// than letting an unknown filter surface as a silent runtime mismatch.
func NewTokenExpr(tag string, many bool, count *int, vars map[string]string, syn template.Syntax, filters *filter.Registry) (*TokenExpr, error) {
	nodes, err := template.ParseTemplate(tag, syn)
	if err != nil {
		return nil, err
	}
	if err := template.ValidateFilters(nodes, filters.Known); err != nil {
		return nil, err
	}
	for _, name := range vars {
		if !filters.Known(name) {
			return nil, &template.ParseError{Message: fmt.Sprintf("unknown filter %q in vars directive", name)}
		}
	}
	return &TokenExpr{Tag: tag, Many: many, Count: count, Nodes: nodes, Vars: vars}, nil
}

// applyVars runs the vars post-bind directives against a freshly bound
// row, in place.
func (expr *TokenExpr) applyVars(bound row.Row, filters *filter.Registry) {
	for name, fname := range expr.Vars {
		val, ok := bound[name]
		if !ok {
			continue
		}
		if fn, ok := filters.Lookup(fname); ok {
			bound[name] = fn(val, nil)
		}
	}
}

// Evaluate applies expr against rx, honouring many/count (spec §4.3). It
// returns whether EndOfStream was observed while pulling lines and every
// row the combinator produced.
func Evaluate(expr *TokenExpr, rx <-chan InputToken, filters *filter.Registry) (terminated bool, rows []row.Row) {
	pull := func() (string, bool) {
		tok, open := <-rx
		if !open || tok.EndOfStream {
			terminated = true
			return "", false
		}
		return tok.Line, true
	}

	line, ok := pull()
	if !ok {
		return terminated, nil
	}

	_, bound, err := combinator.Combine(expr.Nodes, line, filters, pull)
	if err != nil {
		// Default-mode match miss: the line is discarded, zero rows
		// offered, and the next template proceeds (spec §7, kind 2).
		return terminated, nil
	}
	expr.applyVars(bound, filters)
	rows = append(rows, bound)

	switch {
	case expr.Count != nil:
		for i := 0; i < *expr.Count-1; i++ {
			l, ok := pull()
			if !ok {
				return terminated, rows
			}
			_, b, err := combinator.Combine(expr.Nodes, l, filters, pull)
			if err != nil {
				// Failures on subsequent lines are silently skipped;
				// the line is consumed and discarded (spec §4.3).
				continue
			}
			expr.applyVars(b, filters)
			rows = append(rows, b)
		}
		return terminated, rows

	case expr.Many:
		for {
			l, ok := pull()
			if !ok {
				return terminated, rows
			}
			_, b, err := combinator.Combine(expr.Nodes, l, filters, pull)
			if err != nil {
				return terminated, rows
			}
			expr.applyVars(b, filters)
			rows = append(rows, b)
		}

	default:
		return terminated, rows
	}
}
