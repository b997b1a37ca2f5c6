package ir

import (
	"sort"
	"strings"
)

// VerificationError is the panic value NewProgram raises when the verifier
// finds the assembled program ill-formed. Message is the accumulated,
// newline-joined error text from package verify.
type VerificationError struct {
	Message string
}

func (e *VerificationError) Error() string {
	return "program failed verification:\n" + e.Message
}

// StructType maps field name to field type for one named struct.
type StructType map[string]Type

// Program is the top-level container: a name-keyed struct-type table and a
// name-keyed function table. Constructing a Program runs the verifier
// (package verify, wired in via the Verify function variable below to
// avoid an import cycle); a non-empty verification result aborts
// construction with the accumulated error text attached.
type Program struct {
	structs   map[string]StructType
	funcs     map[string]*Function
	funcPtrs  map[string]*Variable // function name -> its @name global, once taken
}

// Verify is called by NewProgram to check the freshly assembled program.
// It is a package-level variable, not a direct import of package verify,
// because verify imports ir for the data model it walks; wiring it this
// way keeps ir free of a dependency on its own verifier. package verify's
// init sets this on import; callers that only want the bare data model
// without pulling in the verifier never pay for it.
var Verify func(p *Program) string

// NewProgram builds a program from a struct-type table and a function
// list, then verifies it. Panics on a duplicate function name (a
// programmer error distinct from a verification failure) and on a
// non-empty verifier result (verification failures carry the accumulated
// text: programs either fully exist or do not exist).
func NewProgram(structs map[string]StructType, funcs []*Function) *Program {
	p := &Program{
		structs: make(map[string]StructType, len(structs)),
		funcs:   make(map[string]*Function, len(funcs)),
	}
	for name, st := range structs {
		p.structs[name] = st
	}
	for _, f := range funcs {
		if _, dup := p.funcs[f.name]; dup {
			panic("ir: duplicate function name: " + f.name)
		}
		if f.program != nil {
			panic("ir: function already belongs to a program: " + f.name)
		}
		f.program = p
		p.funcs[f.name] = f
	}

	p.funcPtrs = collectFuncPtrs(p)

	if Verify != nil {
		if msg := Verify(p); msg != "" {
			panic(&VerificationError{Message: msg})
		}
	}

	return p
}

// collectFuncPtrs scans every instruction operand for "@<name>" globals
// referring to a defined function, and returns the name -> variable
// mapping Program caches after construction. Built here, not by the
// verifier, so it is available even to callers who construct programs with
// Verify unset (e.g. unit tests of the data model alone).
func collectFuncPtrs(p *Program) map[string]*Variable {
	out := map[string]*Variable{}
	for _, f := range p.funcs {
		for _, bb := range f.blocks {
			for _, inst := range bb.body {
				for _, o := range inst.Operands() {
					if !o.IsVar() || !o.Var.IsGlobal() || o.Var.IsNullptr() {
						continue
					}
					name := strings.TrimPrefix(o.Var.Name(), "@")
					if _, isFunc := p.funcs[name]; !isFunc {
						continue
					}
					out[name] = o.Var
				}
			}
		}
	}
	return out
}

// Struct looks up a struct type by name. ok is false if undefined.
func (p *Program) Struct(name string) (StructType, bool) {
	st, ok := p.structs[name]
	return st, ok
}

// StructNames returns every defined struct name, sorted.
func (p *Program) StructNames() []string {
	names := make([]string, 0, len(p.structs))
	for n := range p.structs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Func looks up a function by name. Panics if absent.
func (p *Program) Func(name string) *Function {
	f, ok := p.funcs[name]
	if !ok {
		panic("ir: no such function: " + name)
	}
	return f
}

// HasFunc reports whether name names a defined function.
func (p *Program) HasFunc(name string) bool {
	_, ok := p.funcs[name]
	return ok
}

// Funcs returns the program's functions in name order.
func (p *Program) Funcs() []*Function {
	names := make([]string, 0, len(p.funcs))
	for n := range p.funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]*Function, len(names))
	for i, n := range names {
		out[i] = p.funcs[n]
	}
	return out
}

// FuncPtrs returns the name -> global-variable map of functions whose
// address has been taken anywhere in the program (an "@<name>" reference).
func (p *Program) FuncPtrs() map[string]*Variable {
	return p.funcPtrs
}
