package parse

import "github.com/hardekbc/ir260/ir"

// scope resolves NAME:TYPE occurrences to shared *ir.Variable objects,
// following the same variable-identity rules as the rest of the package:
// one table per function for locals, cleared
// between functions; one table process-wide (for the lifetime of a single
// from_string call) for "@name" globals; and a third, keyed by type rather
// than name, for "@nullptr" (distinct nullptr types are distinct objects).
type scope struct {
	locals   map[string]*ir.Variable
	globals  map[string]*ir.Variable
	nullptrs map[string]*ir.Variable
}

func newScope() *scope {
	return &scope{
		locals:   map[string]*ir.Variable{},
		globals:  map[string]*ir.Variable{},
		nullptrs: map[string]*ir.Variable{},
	}
}

// resetLocals clears the local-variable table, called between functions.
func (s *scope) resetLocals() {
	s.locals = map[string]*ir.Variable{}
}

// resolve returns the shared variable for (name, typ), creating it on
// first occurrence. A later occurrence of the same identity (same name,
// same scope) at a different type is a fatal parse error.
func (s *scope) resolve(name string, typ ir.Type) (*ir.Variable, error) {
	table, key := s.tableFor(name, typ)

	if v, ok := table[key]; ok {
		if !v.Type().Equal(typ) {
			return nil, &TypeMismatchError{Name: name, Have: v.Type(), Want: typ}
		}
		return v, nil
	}

	v := ir.NewVariable(name, typ)
	table[key] = v
	return v, nil
}

func (s *scope) tableFor(name string, typ ir.Type) (map[string]*ir.Variable, string) {
	switch {
	case name == "@nullptr":
		return s.nullptrs, typ.String()
	case isGlobalName(name):
		return s.globals, name
	default:
		return s.locals, name
	}
}

func isGlobalName(name string) bool {
	return len(name) > 0 && name[0] == '@'
}

// TypeMismatchError reports a variable occurrence whose type disagrees with
// an earlier occurrence sharing the same identity.
type TypeMismatchError struct {
	Name       string
	Have, Want ir.Type
}

func (e *TypeMismatchError) Error() string {
	return "variable " + e.Name + " previously used at type " + e.Have.String() +
		", now used at type " + e.Want.String()
}
