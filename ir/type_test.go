package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	assert.Equal(t, "int", Int.String())
	assert.Equal(t, "int*", Int.PtrTo().String())
	assert.Equal(t, "foo", NewStruct("foo").String())
	assert.Equal(t, "foo*", NewStruct("foo").PtrTo().String())
}

func TestFunctionTypeString(t *testing.T) {
	// int**[int,int*,bar*[int,int]*]*
	inner := NewFunc(NewStruct("bar").PtrTo(), Int, Int).PtrTo()
	ft := NewFunc(Int.PtrTo().PtrTo(), Int, Int.PtrTo(), inner).PtrTo()

	assert.Equal(t, "int**[int,int*,bar*[int,int]*]*", ft.String())
}

func TestDeref(t *testing.T) {
	require.True(t, Int.PtrTo().IsPtr())
	assert.Equal(t, Int, Int.PtrTo().Deref())
}

func TestDerefNonPointerPanics(t *testing.T) {
	assert.Panics(t, func() { Int.Deref() })
}

func TestTypeEqual(t *testing.T) {
	assert.True(t, Int.Equal(Int))
	assert.False(t, Int.Equal(Int.PtrTo()))
	assert.True(t, NewStruct("foo").Equal(NewStruct("foo")))
	assert.False(t, NewStruct("foo").Equal(NewStruct("bar")))

	f1 := NewFunc(Int, Int, Int)
	f2 := NewFunc(Int, Int, Int)
	f3 := NewFunc(Int, Int)
	assert.True(t, f1.Equal(f2))
	assert.False(t, f1.Equal(f3))
}

func TestIsTopLevel(t *testing.T) {
	assert.True(t, Int.IsTopLevel())
	assert.True(t, Int.PtrTo().IsTopLevel())
	assert.False(t, NewStruct("foo").IsTopLevel())
	assert.False(t, NewFunc(Int).IsTopLevel())
	assert.True(t, NewFunc(Int).PtrTo().IsTopLevel())
}

func TestStructNames(t *testing.T) {
	ft := NewFunc(NewStruct("a"), NewStruct("b"), Int)
	assert.ElementsMatch(t, []string{"a", "b"}, ft.StructNames())
	assert.Empty(t, Int.StructNames())
}
