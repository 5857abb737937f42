package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidae/patl/internal/ast"
)

func TestParseMatchEverythingPrint(t *testing.T) {
	prog, err := Parse(`{ print($0); }`)
	require.NoError(t, err)
	require.Len(t, prog.Items, 1)
	assert.Equal(t, ast.PatternEverything, prog.Items[0].Pattern.Kind)
	require.Len(t, prog.Items[0].Action, 1)
	printStmt, ok := prog.Items[0].Action[0].(*ast.PrintStmt)
	require.True(t, ok, "expected *ast.PrintStmt")
	require.Len(t, printStmt.Args, 1)
	field, ok := printStmt.Args[0].(*ast.FieldRef)
	require.True(t, ok, "expected *ast.FieldRef")
	num, ok := field.Index.(*ast.NumberLit)
	require.True(t, ok, "expected *ast.NumberLit")
	assert.Equal(t, int64(0), num.Value.Int)
}

func TestParseBeginAssignPrint(t *testing.T) {
	prog, err := Parse(`BEGIN { x = 1 + 2; print(x); }`)
	require.NoError(t, err)
	require.Len(t, prog.Items, 1)
	assert.Equal(t, ast.PatternBegin, prog.Items[0].Pattern.Kind)
	require.Len(t, prog.Items[0].Action, 2)

	assign, ok := prog.Items[0].Action[0].(*ast.AssignStmt)
	require.True(t, ok, "expected *ast.AssignStmt")
	variable, ok := assign.Target.(*ast.Variable)
	require.True(t, ok, "expected *ast.Variable target")
	assert.Equal(t, "x", variable.Name)
	math, ok := assign.Value.(*ast.BinaryMath)
	require.True(t, ok, "expected *ast.BinaryMath")
	assert.Equal(t, ast.Add, math.Op)
}

func TestParseIfElse(t *testing.T) {
	prog, err := Parse(`{ if ($1 < $2) { print("less"); } else { print("notless"); } }`)
	require.NoError(t, err)
	require.Len(t, prog.Items[0].Action, 1)
	ifStmt, ok := prog.Items[0].Action[0].(*ast.IfStmt)
	require.True(t, ok, "expected *ast.IfStmt")
	cmp, ok := ifStmt.Cond.(*ast.BinaryCompare)
	require.True(t, ok, "expected *ast.BinaryCompare")
	assert.Equal(t, ast.Lt, cmp.Op)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)
}

func TestParseWhileLoop(t *testing.T) {
	prog, err := Parse(`{ i = 0; while (i < 3) { print(i); i = i + 1; } }`)
	require.NoError(t, err)
	require.Len(t, prog.Items[0].Action, 2)
	while, ok := prog.Items[0].Action[1].(*ast.WhileStmt)
	require.True(t, ok, "expected *ast.WhileStmt")
	require.Len(t, while.Body, 2)
}

func TestParseFunctionDefinitionAndCall(t *testing.T) {
	prog, err := Parse(`function inc(n) { n = n + 1; print(n); } { inc($1); }`)
	require.NoError(t, err)
	require.Contains(t, prog.Functions, "inc")
	fn := prog.Functions["inc"]
	assert.Equal(t, []string{"n"}, fn.Params)
	require.Len(t, prog.Items, 1)
	exprStmt, ok := prog.Items[0].Action[0].(*ast.ExprStmt)
	require.True(t, ok, "expected *ast.ExprStmt")
	call, ok := exprStmt.Expr.(*ast.Call)
	require.True(t, ok, "expected *ast.Call")
	assert.Equal(t, "inc", call.Name)
	require.Len(t, call.Args, 1)
}

func TestParseRegexPattern(t *testing.T) {
	prog, err := Parse(`/^ab/ { print("hit"); }`)
	require.NoError(t, err)
	require.Equal(t, ast.PatternExpr, prog.Items[0].Pattern.Kind)
	lit, ok := prog.Items[0].Pattern.Expr.(*ast.RegexLit)
	require.True(t, ok, "expected *ast.RegexLit")
	assert.Equal(t, "^ab", lit.Pattern)
	assert.True(t, lit.Re.MatchString("abc"))
	assert.False(t, lit.Re.MatchString("xy"))
}

func TestParseDivisionIsNotRegex(t *testing.T) {
	prog, err := Parse(`BEGIN { x = 10 / 2; print(x); }`)
	require.NoError(t, err)
	assign := prog.Items[0].Action[0].(*ast.AssignStmt)
	math, ok := assign.Value.(*ast.BinaryMath)
	require.True(t, ok, "expected division to parse as *ast.BinaryMath, not a regex literal")
	assert.Equal(t, ast.Div, math.Op)
}

func TestParseNegationCollapsing(t *testing.T) {
	prog, err := Parse(`BEGIN { print(!!!x); }`)
	require.NoError(t, err)
	printStmt := prog.Items[0].Action[0].(*ast.PrintStmt)
	not, ok := printStmt.Args[0].(*ast.Not)
	require.True(t, ok, "expected a single collapsed *ast.Not for an odd run of '!'")
	_, innerIsNot := not.Expr.(*ast.Not)
	assert.False(t, innerIsNot, "three '!' should collapse to exactly one Not node")
}

func TestParseIncrementDecrement(t *testing.T) {
	prog, err := Parse(`{ i++; ++i; }`)
	require.NoError(t, err)
	require.Len(t, prog.Items[0].Action, 2)

	post, ok := prog.Items[0].Action[0].(*ast.ExprStmt).Expr.(*ast.Increment)
	require.True(t, ok, "expected *ast.Increment")
	assert.False(t, post.Prefix)
	assert.True(t, post.Incr)

	pre, ok := prog.Items[0].Action[1].(*ast.ExprStmt).Expr.(*ast.Increment)
	require.True(t, ok, "expected *ast.Increment")
	assert.True(t, pre.Prefix)
}

func TestParseBareIntegerFollowedByExponentLikeIdent(t *testing.T) {
	// "5e2" lexes as NUMBER "5" then IDENT "e2" (see lexer's
	// TestScanIntegerDoesNotConsumeExponentSuffix), so it parses as an
	// assignment of the integer 5 followed by a second, unrelated
	// bare-expression statement referencing the uninitialized variable
	// "e2" — not as a single literal that silently loses its suffix.
	prog, err := Parse(`BEGIN { x = 5e2; }`)
	require.NoError(t, err)
	require.Len(t, prog.Items[0].Action, 2)

	assign, ok := prog.Items[0].Action[0].(*ast.AssignStmt)
	require.True(t, ok, "expected *ast.AssignStmt")
	num, ok := assign.Value.(*ast.NumberLit)
	require.True(t, ok, "expected *ast.NumberLit")
	assert.Equal(t, int64(5), num.Value.Int)

	exprStmt, ok := prog.Items[0].Action[1].(*ast.ExprStmt)
	require.True(t, ok, "expected *ast.ExprStmt")
	variable, ok := exprStmt.Expr.(*ast.Variable)
	require.True(t, ok, "expected *ast.Variable")
	assert.Equal(t, "e2", variable.Name)
}

func TestParseErrorOnMalformedScript(t *testing.T) {
	_, err := Parse(`{ print( }`)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}
