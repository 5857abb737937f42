package interp

import (
	"fmt"
	"strings"

	"github.com/corvidae/patl/internal/ast"
)

// execAction runs a sequence of statements in order, stopping at the
// first error.
func (ip *Interp) execAction(a ast.Action) error {
	for _, s := range a {
		if err := ip.execStmt(s); err != nil {
			return err
		}
	}
	return nil
}

// execStmt type-switches over every ast.Stmt concrete type (§4.4).
func (ip *Interp) execStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.PrintStmt:
		return ip.execPrint(n)
	case *ast.AssignStmt:
		return ip.execAssign(n)
	case *ast.IfStmt:
		return ip.execIf(n)
	case *ast.WhileStmt:
		return ip.execWhile(n)
	case *ast.DoWhileStmt:
		return ip.execDoWhile(n)
	case *ast.ExprStmt:
		_, err := ip.evalExpr(n.Expr)
		return err
	default:
		return newError("unhandled statement node %T", s)
	}
}

func (ip *Interp) execPrint(n *ast.PrintStmt) error {
	parts := make([]string, len(n.Args))
	for i, arg := range n.Args {
		v, err := ip.evalExpr(arg)
		if err != nil {
			return err
		}
		parts[i] = v.ToString()
	}
	line := strings.Join(parts, ip.ofs())
	_, err := fmt.Fprintf(ip.out, "%s\n", line)
	return err
}

func (ip *Interp) execAssign(n *ast.AssignStmt) error {
	v, err := ip.evalExpr(n.Value)
	if err != nil {
		return err
	}
	return ip.setAssignable(n.Target, v)
}

func (ip *Interp) execIf(n *ast.IfStmt) error {
	cond, err := ip.evalExpr(n.Cond)
	if err != nil {
		return err
	}
	if cond.ToBool() {
		return ip.execAction(n.Then)
	}
	return ip.execAction(n.Else)
}

func (ip *Interp) execWhile(n *ast.WhileStmt) error {
	for {
		cond, err := ip.evalExpr(n.Cond)
		if err != nil {
			return err
		}
		if !cond.ToBool() {
			return nil
		}
		if err := ip.execAction(n.Body); err != nil {
			return err
		}
	}
}

func (ip *Interp) execDoWhile(n *ast.DoWhileStmt) error {
	for {
		if err := ip.execAction(n.Body); err != nil {
			return err
		}
		cond, err := ip.evalExpr(n.Cond)
		if err != nil {
			return err
		}
		if !cond.ToBool() {
			return nil
		}
	}
}
