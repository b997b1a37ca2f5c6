// Package ir implements the in-memory representation of the IR: types,
// values, instructions, and the containment hierarchy of basic blocks,
// functions, and programs, plus the visitor framework analyses are written
// against and a chainable builder for constructing programs by hand.
package ir

import (
	"strings"
)

// Base is the base (non-pointer) part of a Type.
type Base int

const (
	// BaseInt is the only primitive base type.
	BaseInt Base = iota
	// BaseStruct names a struct type resolved via the enclosing Program's
	// struct table.
	BaseStruct
	// BaseFunc is a function signature: a return type plus param types.
	BaseFunc
)

// Signature is a function's (return type, param types) pair, used as the
// Base payload of a BaseFunc Type.
type Signature struct {
	Ret    Type
	Params []Type
}

// Equal reports whether two signatures are structurally identical.
func (s Signature) Equal(o Signature) bool {
	if !s.Ret.Equal(o.Ret) || len(s.Params) != len(o.Params) {
		return false
	}
	for i, p := range s.Params {
		if !p.Equal(o.Params[i]) {
			return false
		}
	}
	return true
}

func (s Signature) String() string {
	var b strings.Builder
	b.WriteString(s.Ret.String())
	b.WriteByte('[')
	for i, p := range s.Params {
		if i != 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Type is a value type: an indirection count over a base. Indirection 0
// with BaseInt is the only primitive; any indirection >= 1 is a pointer.
type Type struct {
	Indirection int
	Base        Base
	StructName  string
	Func        Signature
}

// Int is the Int base type with zero indirection.
var Int = Type{Base: BaseInt}

// NewStruct builds a Type naming a struct, with zero indirection.
func NewStruct(name string) Type {
	return Type{Base: BaseStruct, StructName: name}
}

// NewFunc builds a Type for a function signature, with zero indirection.
// Per spec, a bare function type is never a top-level value type; it must
// be behind at least one pointer to be held in a variable.
func NewFunc(ret Type, params ...Type) Type {
	return Type{Base: BaseFunc, Func: Signature{Ret: ret, Params: params}}
}

// PtrTo returns t with one more level of indirection.
func (t Type) PtrTo() Type {
	t.Indirection++
	return t
}

// Deref returns t with one less level of indirection. Panics if t is not
// already a pointer; callers must check IsPtr first.
func (t Type) Deref() Type {
	if t.Indirection < 1 {
		panic("ir: Deref of non-pointer type " + t.String())
	}
	t.Indirection--
	return t
}

// IsInt reports whether t is the bare Int primitive.
func (t Type) IsInt() bool {
	return t.Indirection == 0 && t.Base == BaseInt
}

// IsPtr reports whether t has at least one level of indirection.
func (t Type) IsPtr() bool {
	return t.Indirection >= 1
}

// IsStructPtr reports whether t is exactly one pointer to a struct.
func (t Type) IsStructPtr() bool {
	return t.Indirection == 1 && t.Base == BaseStruct
}

// IsFunctionPtr reports whether t is exactly one pointer to a function
// signature.
func (t Type) IsFunctionPtr() bool {
	return t.Indirection == 1 && t.Base == BaseFunc
}

// IsTopLevel reports whether t may be held directly by a variable: Int or
// any pointer, never a raw struct or function.
func (t Type) IsTopLevel() bool {
	return t.IsInt() || t.IsPtr()
}

// Equal reports structural equality.
func (t Type) Equal(o Type) bool {
	if t.Indirection != o.Indirection || t.Base != o.Base {
		return false
	}
	switch t.Base {
	case BaseStruct:
		return t.StructName == o.StructName
	case BaseFunc:
		return t.Func.Equal(o.Func)
	default:
		return true
	}
}

// Hash returns a hash consistent with Equal, for use as a map key
// substitute where Type itself (not comparable, because Signature holds a
// slice) cannot be used directly as a map key.
func (t Type) Hash() string {
	return t.String()
}

func (t Type) String() string {
	var b strings.Builder
	switch t.Base {
	case BaseInt:
		b.WriteString("int")
	case BaseStruct:
		b.WriteString(t.StructName)
	case BaseFunc:
		b.WriteString(t.Func.String())
	}
	for i := 0; i < t.Indirection; i++ {
		b.WriteByte('*')
	}
	return b.String()
}

// baseStructsIn collects every struct name mentioned anywhere in t
// (including inside function param/return types), for the verifier's
// "struct exists" check.
func baseStructsIn(t Type, out []string) []string {
	switch t.Base {
	case BaseStruct:
		out = append(out, t.StructName)
	case BaseFunc:
		out = baseStructsIn(t.Func.Ret, out)
		for _, p := range t.Func.Params {
			out = baseStructsIn(p, out)
		}
	}
	return out
}

// StructNames returns every struct name referenced anywhere in t.
func (t Type) StructNames() []string {
	return baseStructsIn(t, nil)
}
