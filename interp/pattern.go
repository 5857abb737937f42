package interp

import "github.com/corvidae/patl/internal/ast"

// matches implements §4.5: MatchEverything is always true; an
// expression pattern that is a bare regex literal is tested against
// $0 directly (not evaluated generically, which would yield
// Uninitialized and coerce to false); any other expression is
// evaluated and coerced to boolean. Begin/End never match during
// normal record processing.
func (ip *Interp) matches(pat ast.Pattern) (bool, error) {
	switch pat.Kind {
	case ast.PatternEverything:
		return true, nil
	case ast.PatternBegin, ast.PatternEnd:
		return false, nil
	case ast.PatternExpr:
		if lit, ok := pat.Expr.(*ast.RegexLit); ok {
			return lit.Re.MatchString(ip.record), nil
		}
		v, err := ip.evalExpr(pat.Expr)
		if err != nil {
			return false, err
		}
		return v.ToBool(), nil
	default:
		return false, newError("unhandled pattern kind %v", pat.Kind)
	}
}

func (ip *Interp) runItemsForLine() error {
	for _, item := range ip.prog.Items {
		matched, err := ip.matches(item.Pattern)
		if err != nil {
			return err
		}
		if matched {
			if err := ip.execAction(item.Action); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ip *Interp) runBeginItems() error {
	for _, item := range ip.prog.Items {
		if item.Pattern.Kind == ast.PatternBegin {
			if err := ip.execAction(item.Action); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ip *Interp) runEndItems() error {
	for _, item := range ip.prog.Items {
		if item.Pattern.Kind == ast.PatternEnd {
			if err := ip.execAction(item.Action); err != nil {
				return err
			}
		}
	}
	return nil
}
