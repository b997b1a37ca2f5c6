package ir

import (
	"strconv"
	"strings"
)

// Variable is an immutable (name, type) pair. Variables are shared by
// pointer: two distinct *Variable objects with the same name and type are
// two different variables. Callers obtain variables as read-only shared
// references; the parser folds same-name-same-scope textual occurrences
// onto the same object (see package parse).
type Variable struct {
	name string
	typ  Type
}

// NewVariable builds a Variable. Panics if name is empty; this is a
// contract violation, not a recoverable condition — library preconditions
// fatal with a descriptive message rather than returning an error.
func NewVariable(name string, typ Type) *Variable {
	if name == "" {
		panic("ir: variable name must not be empty")
	}
	return &Variable{name: name, typ: typ}
}

// Name returns the variable's name, including any leading "@" for globals.
func (v *Variable) Name() string { return v.name }

// Type returns the variable's static type.
func (v *Variable) Type() Type { return v.typ }

// IsGlobal reports whether the variable's name begins with "@".
func (v *Variable) IsGlobal() bool {
	return strings.HasPrefix(v.name, "@")
}

// IsNullptr reports whether v is (or looks like) a "@nullptr" global.
func (v *Variable) IsNullptr() bool {
	return v.name == "@nullptr"
}

func (v *Variable) String() string {
	return v.name + ":" + v.typ.String()
}

// Operand is either a variable reference or a signed integer constant.
// Exactly one of Var or (the implicit) constant form is active; test with
// IsConst.
type Operand struct {
	Var   *Variable
	Const int64
	isVar bool
}

// VarOperand wraps a non-nil variable reference as an operand. Panics on a
// nil variable: constructing an operand from nothing is a contract
// violation.
func VarOperand(v *Variable) Operand {
	if v == nil {
		panic("ir: nil variable operand")
	}
	return Operand{Var: v, isVar: true}
}

// ConstOperand wraps a signed integer constant as an operand.
func ConstOperand(c int64) Operand {
	return Operand{Const: c}
}

// IsConst reports whether the operand is an integer constant rather than a
// variable reference.
func (o Operand) IsConst() bool { return !o.isVar }

// IsVar reports whether the operand is a variable reference.
func (o Operand) IsVar() bool { return o.isVar }

// Type returns the operand's static type: Int for constants, the
// referenced variable's type otherwise.
func (o Operand) Type() Type {
	if o.isVar {
		return o.Var.Type()
	}
	return Int
}

func (o Operand) String() string {
	if o.isVar {
		return o.Var.String()
	}
	return strconv.FormatInt(o.Const, 10)
}
