// Package combinator implements C2, the per-line binder: it walks a
// compiled node list against one input line (and, for Loop nodes, a
// handful of lines pulled from upstream) and produces the Row of
// captured bindings.
package combinator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tapline/tapline/filter"
	"github.com/tapline/tapline/row"
	"github.com/tapline/tapline/template"
)

// MatchError reports that a Lit node did not find its literal text at
// the current input position (spec §7.2's "Eof"/match-miss kind).
type MatchError struct {
	Kind     string
	Expected string
	Input    string
}

func (e *MatchError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("combinator: %s", e.Kind)
	}
	return fmt.Sprintf("combinator: expected %q, got %q", e.Expected, e.Input)
}

// LineSource pulls the next line of input, mirroring the original
// combinator's ability to read further lines out of the upstream
// channel mid-combine for Loop bodies. The second return is false once
// the source is exhausted.
type LineSource func() (string, bool)

// noMoreLines is used when a Combine caller has no further input to
// offer (plain single-line binding, no Loop in scope).
func noMoreLines() (string, bool) { return "", false }

// Combine binds nodes against input, returning the unconsumed
// remainder of input, the accumulated Row and an error if a Lit node
// failed to match. lines may be nil, in which case Loop nodes see an
// immediately exhausted source.
func Combine(nodes []template.Node, input string, filters *filter.Registry, lines LineSource) (string, row.Row, error) {
	if lines == nil {
		lines = noMoreLines
	}
	out := row.Row{}
	cur := input
	for idx, node := range nodes {
		switch n := node.Kind.(type) {
		case template.LitNode:
			lit := n.Source()
			if !strings.HasPrefix(cur, lit) {
				return cur, out, &MatchError{Kind: "lit-mismatch", Expected: lit, Input: firstLine(cur)}
			}
			cur = cur[len(lit):]

		case template.ExprNode:
			rest, bound, err := bindExpr(n.Expr, cur, boundaryAfter(nodes, idx), filters)
			if err != nil {
				return cur, out, err
			}
			cur = rest
			out.Merge(bound)

		case template.CondNode:
			branch, ok := selectBranch(n.Branches, out)
			if ok {
				_, sub, err := Combine(branch.Body, cur, filters, lines)
				if err != nil {
					return cur, out, err
				}
				out.Merge(sub)
			}
			// A Cond node never advances the outer cursor itself; only
			// its selected branch's own Lit/Expr nodes would have, and
			// that consumption is local to the recursive Combine call
			// above (matching the original's discard-the-remainder
			// behaviour for nested token parses).

		case template.LoopNode:
			start, end := rangeBounds(n.Iter, out)
			for i := start; i < end; i++ {
				_, sub, err := Combine(n.Body, cur, filters, lines)
				if err == nil {
					prefix := fmt.Sprintf("i%d_", i)
					for k, v := range sub {
						out[prefix+k] = v
					}
				}
				next, ok := lines()
				if !ok {
					cur = ""
					break
				}
				cur = next
			}
		}
	}
	return cur, out, nil
}

// boundaryAfter returns the literal text the node following idx
// requires, so a Var/Filter capture knows where to stop (spec §4.2:
// "consume up to the earliest occurrence of either a newline or the
// following Lit node's literal string"). It returns "" when the next
// node isn't a Lit, meaning only a newline bounds the capture.
func boundaryAfter(nodes []template.Node, idx int) string {
	if idx+1 >= len(nodes) {
		return ""
	}
	if lit, ok := nodes[idx+1].Kind.(template.LitNode); ok {
		return lit.Source()
	}
	return ""
}

// captureUpTo consumes cur up to (not including) the first occurrence
// of a newline or, if boundary is non-empty, the boundary string,
// whichever comes first. If neither is found the entire remainder is
// captured; the combinator never fails a capture on exhausted input,
// only a Lit mismatch is a hard error (spec §4.2, §7.2).
func captureUpTo(cur, boundary string) (captured, rest string) {
	for i := range cur {
		if cur[i:][0] == '\n' {
			return cur[:i], cur[i:]
		}
		if boundary != "" && strings.HasPrefix(cur[i:], boundary) {
			return cur[:i], cur[i:]
		}
	}
	return cur, ""
}

// bindExpr handles the two Expr shapes that can occur inside a Node's
// ExprNode: a bare Var, or a Filter wrapping a Var (spec §4.2, §4.6).
func bindExpr(expr template.Kind, cur, boundary string, filters *filter.Registry) (string, row.Row, error) {
	out := row.Row{}
	switch e := expr.(type) {
	case template.VarExpr:
		val, rest := captureUpTo(cur, boundary)
		out[e.Name] = val
		return rest, out, nil

	case template.FilterExpr:
		if len(e.Args) == 0 {
			return cur, out, fmt.Errorf("combinator: filter %q has no target variable", e.Name)
		}
		target, ok := e.Args[0].(template.VarExpr)
		if !ok {
			return cur, out, fmt.Errorf("combinator: filter %q's first argument is not a variable", e.Name)
		}
		val, rest := captureUpTo(cur, boundary)
		if e.Name == "skip" {
			return rest, out, nil
		}
		fn, ok := filters.Lookup(e.Name)
		if !ok {
			return cur, out, &filter.UnknownFilterError{Name: e.Name}
		}
		out[target.Name] = fn(val, filterArgStrings(e.Args[1:]))
		return rest, out, nil

	default:
		return cur, out, fmt.Errorf("combinator: unsupported expression node %T", expr)
	}
}

func filterArgStrings(args []template.Kind) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if s, ok := literalString(a); ok {
			out = append(out, s)
		}
	}
	return out
}

func literalString(k template.Kind) (string, bool) {
	switch v := k.(type) {
	case template.StrLitExpr:
		return v.Value, true
	case template.CharLitExpr:
		return v.Value, true
	case template.NumLitExpr:
		return v.Value, true
	case template.BoolLitExpr:
		return v.Value, true
	default:
		return "", false
	}
}

// firstLine trims a diagnostic Input field to its first line so error
// messages don't dump an entire remaining buffer.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// selectBranch walks a Cond's branches in order and returns the first
// whose condition is satisfied (or the first unconditioned else, spec
// §4.2). This deliberately departs from the original implementation,
// which iterates every branch without stopping and whose match arm
// for a bare else condition falls into a no-op default — see
// DESIGN.md's Open Question entry.
func selectBranch(branches []template.Branch, bound row.Row) (template.Branch, bool) {
	for _, b := range branches {
		if b.Condition == nil {
			return b, true
		}
		if evalCond(b.Condition, bound) {
			return b, true
		}
	}
	return template.Branch{}, false
}

func evalCond(k template.Kind, bound row.Row) bool {
	switch e := k.(type) {
	case template.BoolLitExpr:
		return e.Value == "true"
	case template.NumLitExpr:
		return e.Value != "0"
	case template.StrLitExpr, template.CharLitExpr:
		s, _ := literalString(e)
		return s != ""
	case template.VarExpr:
		return bound[e.Name] != ""
	case template.UnaryExpr:
		if e.Op == "!" {
			return !evalCond(e.Inner, bound)
		}
		return false
	case template.BinOpExpr:
		switch e.Op {
		case "&&":
			return evalCond(e.Left, bound) && evalCond(e.Right, bound)
		case "||":
			return evalCond(e.Left, bound) || evalCond(e.Right, bound)
		case "==":
			l, okl := operandString(e.Left, bound)
			r, okr := operandString(e.Right, bound)
			return okl && okr && l == r
		case "!=":
			l, okl := operandString(e.Left, bound)
			r, okr := operandString(e.Right, bound)
			return okl && okr && l != r
		case "<", "<=", ">", ">=":
			l, okl := operandFloat(e.Left, bound)
			r, okr := operandFloat(e.Right, bound)
			if !okl || !okr {
				return false
			}
			switch e.Op {
			case "<":
				return l < r
			case "<=":
				return l <= r
			case ">":
				return l > r
			default:
				return l >= r
			}
		default:
			return false
		}
	default:
		return false
	}
}

func operandString(k template.Kind, bound row.Row) (string, bool) {
	switch e := k.(type) {
	case template.VarExpr:
		v, ok := bound[e.Name]
		return v, ok
	default:
		return literalString(k)
	}
}

func operandFloat(k template.Kind, bound row.Row) (float64, bool) {
	s, ok := operandString(k, bound)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// rangeBounds evaluates a Loop's Range(start..end) iterable, treating
// unparsable or missing bounds as an empty range rather than
// panicking (spec §4.2, §7.2: the combinator never panics).
func rangeBounds(k template.Kind, bound row.Row) (uint64, uint64) {
	r, ok := k.(template.RangeExpr)
	if !ok {
		return 0, 0
	}
	return evalUint(r.Start, bound), evalUint(r.End, bound)
}

func evalUint(k template.Kind, bound row.Row) uint64 {
	s, ok := operandString(k, bound)
	if !ok {
		return 0
	}
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
