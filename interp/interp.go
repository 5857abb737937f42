// Package interp implements patl's tree-walking evaluator and the
// record/variable runtime: field splitting, the two-tier variable
// store, special-variable side effects, and the per-record driver
// (§3, §4.3–§4.7, §5). It follows goawk's interp package shape —
// a single Interp/Config pair and an ExecProgram entry point — but
// threads (value, error) and error results through the call stack
// instead of goawk's panic-based bailout, since a plain tree-walking
// recursion has no dispatch loop to unwind from.
package interp

import (
	"io"
	"math"
	"regexp"

	"github.com/corvidae/patl/internal/ast"
)

// Interp holds everything one program run needs: the parsed program,
// the variable store, the current record and its field split, the
// regex cache for dynamically-compiled match operands, and the output
// sink.
type Interp struct {
	prog *ast.Program
	vars *Variables

	record string
	fields []string

	fieldSep *fieldSplitter

	regexCache map[string]*regexp.Regexp

	out io.Writer
}

func newInterp(prog *ast.Program, config *Config) (*Interp, error) {
	ip := &Interp{
		prog:       prog,
		vars:       NewVariables(),
		regexCache: map[string]*regexp.Regexp{},
		out:        config.Output,
	}
	ip.vars.Set("OFS", ast.Str(" "))
	ip.vars.Set("NR", ast.Number(ast.Int(0)))
	ip.vars.Set("FNR", ast.Number(ast.Int(0)))
	ip.vars.Set("ARGC", ast.Number(ast.Int(int64(len(config.Args)))))

	fs := config.FieldSeparator
	if fs == "" {
		fs = " "
	}
	if err := ip.setFieldSep(fs); err != nil {
		return nil, err
	}
	ip.vars.Set("FS", ast.Str(fs))

	for _, assignment := range config.Vars {
		name, value, ok := splitNameValue(assignment)
		if !ok {
			return nil, newError("invalid -v assignment %q, expected NAME=VALUE", assignment)
		}
		if err := ip.setVariable(name, ast.Str(value)); err != nil {
			return nil, err
		}
	}

	ip.setRecord("")
	return ip, nil
}

func splitNameValue(s string) (name, value string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

// setVariable is the single path through which any named variable is
// written, so that FS's recompile-on-write side effect (§3) fires
// regardless of whether the write came from a script AssignStmt, a
// -v flag, or the -F flag. The side effect only fires when the write
// actually lands in the global scope: a function parameter named FS
// shadows the global for the duration of the call (§3's two-tier
// scoping), and an assignment to that local must not leak out and
// recompile the real field separator.
func (ip *Interp) setVariable(name string, v ast.Value) error {
	if name == "FS" && !ip.vars.IsLocal(name) {
		if err := ip.setFieldSep(v.ToString()); err != nil {
			return err
		}
	}
	ip.vars.Set(name, v)
	return nil
}

func (ip *Interp) lookupFunction(name string) (*ast.FunctionDef, bool) {
	fn, ok := ip.prog.Functions[name]
	return fn, ok
}

// compileDynamicRegex compiles and caches a regex built from a runtime
// string value, as opposed to a literal compiled once at parse time
// (§3's invariant: "string-typed right-hand sides of ~/!~ compile
// lazily"). The cache keeps repeated matches in a loop cheap without
// forcing every evaluation to recompile.
func (ip *Interp) compileDynamicRegex(pattern string) (*regexp.Regexp, error) {
	if re, ok := ip.regexCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, newError("invalid regex %q: %s", pattern, err)
	}
	ip.regexCache[pattern] = re
	return re, nil
}

func floorToInt(f float64) int {
	return int(math.Floor(f))
}
