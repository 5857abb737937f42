package interp

import "github.com/corvidae/patl/internal/ast"

// Variables is the two-tier variable store of §3: a global mapping
// plus a stack of per-call frames, of which only the top is ever
// consulted for locals. A frame is pre-populated with a map entry for
// every declared parameter name (even when bound to Uninitialized) so
// that "does the current frame declare this name" is a plain map
// membership check, which is what implements "only declared parameter
// names are local".
type Variables struct {
	globals map[string]ast.Value
	frames  []map[string]ast.Value
}

func NewVariables() *Variables {
	return &Variables{globals: map[string]ast.Value{}}
}

func (v *Variables) top() map[string]ast.Value {
	if len(v.frames) == 0 {
		return nil
	}
	return v.frames[len(v.frames)-1]
}

// Get implements the lookup rule: frame first if it declares the
// name, else global, else Uninitialized.
func (v *Variables) Get(name string) ast.Value {
	if f := v.top(); f != nil {
		if val, ok := f[name]; ok {
			return val
		}
	}
	if val, ok := v.globals[name]; ok {
		return val
	}
	return ast.Uninitialized
}

// Set implements the assignment rule: store in the top frame if it
// declares the name, else store globally.
func (v *Variables) Set(name string, val ast.Value) {
	if f := v.top(); f != nil {
		if _, ok := f[name]; ok {
			f[name] = val
			return
		}
	}
	v.globals[name] = val
}

// IsLocal reports whether name is declared as a parameter of the
// current call frame, i.e. whether a Set(name, ...) would shadow the
// global rather than write through to it. Callers that attach a side
// effect to a particular global variable name (FS's recompile, say)
// use this to gate that effect on the write actually reaching the
// global scope.
func (v *Variables) IsLocal(name string) bool {
	f := v.top()
	if f == nil {
		return false
	}
	_, ok := f[name]
	return ok
}

// PushFrame and PopFrame bracket a function call; PushFrame's argument
// must already contain an entry for every parameter name.
func (v *Variables) PushFrame(f map[string]ast.Value) {
	v.frames = append(v.frames, f)
}

func (v *Variables) PopFrame() {
	v.frames = v.frames[:len(v.frames)-1]
}

// Depth reports the function-call stack depth; it is 0 at top level,
// and so before and after each process_file call.
func (v *Variables) Depth() int {
	return len(v.frames)
}
