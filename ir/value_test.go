package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewVariableEmptyNamePanics(t *testing.T) {
	assert.Panics(t, func() { NewVariable("", Int) })
}

func TestVariableString(t *testing.T) {
	v := NewVariable("x", Int.PtrTo())
	assert.Equal(t, "x:int*", v.String())
}

func TestVariableIsGlobal(t *testing.T) {
	assert.True(t, NewVariable("@x", Int).IsGlobal())
	assert.False(t, NewVariable("x", Int).IsGlobal())
}

func TestVariableIsNullptr(t *testing.T) {
	assert.True(t, NewVariable("@nullptr", Int.PtrTo()).IsNullptr())
	assert.False(t, NewVariable("@x", Int.PtrTo()).IsNullptr())
}

func TestNilVariableOperandPanics(t *testing.T) {
	assert.Panics(t, func() { VarOperand(nil) })
}

func TestOperandTypeAndString(t *testing.T) {
	v := NewVariable("x", Int)
	vo := VarOperand(v)
	assert.True(t, vo.IsVar())
	assert.False(t, vo.IsConst())
	assert.Equal(t, Int, vo.Type())
	assert.Equal(t, "x:int", vo.String())

	co := ConstOperand(-5)
	assert.True(t, co.IsConst())
	assert.Equal(t, Int, co.Type())
	assert.Equal(t, "-5", co.String())
}
