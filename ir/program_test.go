package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgramDuplicateFunctionNamePanics(t *testing.T) {
	f1 := entryOnlyFunc("f")
	f2 := entryOnlyFunc("f")
	assert.Panics(t, func() { NewProgram(nil, []*Function{f1, f2}) })
}

func TestNewProgramFunctionAlreadyOwnedPanics(t *testing.T) {
	f := entryOnlyFunc("f")
	_ = NewProgram(nil, []*Function{f})
	other := entryOnlyFunc("g")
	assert.Panics(t, func() { NewProgram(nil, []*Function{f, other}) })
}

func TestProgramFuncsSortedByName(t *testing.T) {
	p := NewProgram(nil, []*Function{entryOnlyFunc("zeta"), entryOnlyFunc("alpha")})

	var names []string
	for _, f := range p.Funcs() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"alpha", "zeta"}, names)
}

func TestProgramFuncPanicsIfAbsent(t *testing.T) {
	p := NewProgram(nil, []*Function{entryOnlyFunc("f")})
	assert.Panics(t, func() { p.Func("nope") })
	assert.False(t, p.HasFunc("nope"))
}

func TestCollectFuncPtrs(t *testing.T) {
	callee := entryOnlyFunc("callee")

	fp := NewVariable("@callee", NewFunc(Int).PtrTo())
	x := NewVariable("x", Int)
	entry := NewBasicBlock(EntryLabel, []*Inst{
		NewICall(x, fp, nil),
		NewRet(VarOperand(x)),
	})
	caller := NewFunction("caller", Int, nil, []*BasicBlock{entry})

	p := NewProgram(nil, []*Function{callee, caller})

	require.Contains(t, p.FuncPtrs(), "callee")
	assert.Same(t, fp, p.FuncPtrs()["callee"])
}

func TestStructNamesSorted(t *testing.T) {
	p := NewProgram(map[string]StructType{
		"zeta":  {"a": Int},
		"alpha": {"a": Int},
	}, []*Function{entryOnlyFunc("f")})

	assert.Equal(t, []string{"alpha", "zeta"}, p.StructNames())
}
