package template

import "fmt"

// ValidateFilters walks a compiled node list and reports the first Filter
// expression whose name known does not recognise. A template naming an
// unknown filter is a compile-time error (spec §7 kind 1): it must be
// rejected before any input is read, not left to surface as a silent
// combinator-level mismatch indistinguishable from an ordinary
// non-matching line.
func ValidateFilters(nodes []Node, known func(name string) bool) error {
	for _, n := range nodes {
		if err := validateNodeFilters(n, known); err != nil {
			return err
		}
	}
	return nil
}

func validateNodeFilters(n Node, known func(name string) bool) error {
	switch k := n.Kind.(type) {
	case ExprNode:
		return validateExprFilters(k.Expr, known)
	case CondNode:
		for _, br := range k.Branches {
			if br.Condition != nil {
				if err := validateExprFilters(br.Condition, known); err != nil {
					return err
				}
			}
			if err := ValidateFilters(br.Body, known); err != nil {
				return err
			}
		}
	case LoopNode:
		if err := validateExprFilters(k.Iter, known); err != nil {
			return err
		}
		if err := ValidateFilters(k.Body, known); err != nil {
			return err
		}
	}
	return nil
}

func validateExprFilters(e Kind, known func(name string) bool) error {
	switch k := e.(type) {
	case FilterExpr:
		if !known(k.Name) {
			return &ParseError{Message: fmt.Sprintf("unknown filter %q", k.Name)}
		}
		for _, arg := range k.Args {
			if err := validateExprFilters(arg, known); err != nil {
				return err
			}
		}
	case UnaryExpr:
		return validateExprFilters(k.Inner, known)
	case BinOpExpr:
		if err := validateExprFilters(k.Left, known); err != nil {
			return err
		}
		return validateExprFilters(k.Right, known)
	case RangeExpr:
		if err := validateExprFilters(k.Start, known); err != nil {
			return err
		}
		return validateExprFilters(k.End, known)
	}
	return nil
}
