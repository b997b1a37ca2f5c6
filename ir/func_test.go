package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryOnlyFunc(name string) *Function {
	x := NewVariable("x", Int)
	entry := NewBasicBlock(EntryLabel, []*Inst{
		NewAlloc(x),
		NewRet(ConstOperand(0)),
	})
	return NewFunction(name, Int, nil, []*BasicBlock{entry})
}

func TestNewFunctionEmptyNamePanics(t *testing.T) {
	entry := NewBasicBlock(EntryLabel, []*Inst{NewRet(ConstOperand(0))})
	assert.Panics(t, func() { NewFunction("", Int, nil, []*BasicBlock{entry}) })
}

func TestNewFunctionNoBlocksPanics(t *testing.T) {
	assert.Panics(t, func() { NewFunction("f", Int, nil, nil) })
}

func TestNewFunctionDuplicateLabelPanics(t *testing.T) {
	a := NewBasicBlock(EntryLabel, []*Inst{NewRet(ConstOperand(0))})
	b := NewBasicBlock(EntryLabel, []*Inst{NewRet(ConstOperand(1))})
	assert.Panics(t, func() { NewFunction("f", Int, nil, []*BasicBlock{a, b}) })
}

func TestFunctionBlocksAreLabelSorted(t *testing.T) {
	entry := NewBasicBlock(EntryLabel, []*Inst{NewJump("zeta")})
	zeta := NewBasicBlock("zeta", []*Inst{NewJump("alpha")})
	alpha := NewBasicBlock("alpha", []*Inst{NewRet(ConstOperand(0))})

	f := NewFunction("f", Int, nil, []*BasicBlock{entry, zeta, alpha})

	var labels []string
	for _, bb := range f.Blocks() {
		labels = append(labels, bb.Label())
	}
	assert.Equal(t, []string{"alpha", "entry", "zeta"}, labels)
}

func TestFunctionEntryPanicsWhenMissing(t *testing.T) {
	bb := NewBasicBlock("start", []*Inst{NewRet(ConstOperand(0))})
	f := NewFunction("f", Int, nil, []*BasicBlock{bb})
	assert.Panics(t, func() { f.Entry() })
}

func TestFunctionCopy(t *testing.T) {
	f := entryOnlyFunc("f")
	cp := f.Copy()

	require.NotSame(t, f, cp)
	assert.Same(t, f, f.Entry().Parent())
	assert.Same(t, cp, cp.Entry().Parent())
	assert.Nil(t, cp.Parent())
}
