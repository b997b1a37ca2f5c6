package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hardekbc/ir260/ir"
	"github.com/hardekbc/ir260/printer"
)

func goldenProgram() *ir.Program {
	x := ir.NewVariable("x", ir.NewStruct("point").PtrTo())
	fx := ir.NewVariable("fx", ir.Int.PtrTo())
	one := ir.NewVariable("one", ir.Int)
	sum := ir.NewVariable("sum", ir.Int)
	cond := ir.NewVariable("cond", ir.Int)

	entry := ir.NewBasicBlock(ir.EntryLabel, []*ir.Inst{
		ir.NewGep(fx, x, ir.ConstOperand(0), "x"),
		ir.NewLoad(one, fx),
		ir.NewArith(sum, ir.Add, ir.VarOperand(one), ir.ConstOperand(1)),
		ir.NewCmp(cond, ir.Gt, ir.VarOperand(sum), ir.ConstOperand(0)),
		ir.NewBranch(ir.VarOperand(cond), "yes", "no"),
	})
	yes := ir.NewBasicBlock("yes", []*ir.Inst{
		ir.NewRet(ir.VarOperand(sum)),
	})
	no := ir.NewBasicBlock("no", []*ir.Inst{
		ir.NewRet(ir.ConstOperand(0)),
	})

	f := ir.NewFunction("classify", ir.Int, []*ir.Variable{x}, []*ir.BasicBlock{entry, yes, no})

	return ir.NewProgram(map[string]ir.StructType{
		"point": {"x": ir.Int, "y": ir.Int},
	}, []*ir.Function{f})
}

func TestProgramRoundTrip(t *testing.T) {
	p := goldenProgram()
	text := printer.Print(p)

	got, err := ProgramFromString(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, text, printer.Print(got))
}

func TestFunctionFromString(t *testing.T) {
	text := "function add_one(x:int) -> int {\n" +
		"entry:\n" +
		"  y:int = $arith add x:int 1\n" +
		"  $ret y:int\n" +
		"}\n"

	f, err := FunctionFromString(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, "add_one", f.Name())
	assert.Equal(t, ir.Int, f.Ret())
	assert.Len(t, f.Params(), 1)
}

func TestInstructionFromStringHasNoParent(t *testing.T) {
	i, err := InstructionFromString(context.Background(), "x:int = $copy 5")
	require.NoError(t, err)
	assert.Nil(t, i.Parent())
	assert.Equal(t, ir.OpCopy, i.Op())
}

func TestGepWithFieldFollowedByAnotherInstruction(t *testing.T) {
	text := "x:point* = $alloc\n" +
		"fp:int* = $gep x:point* 0 x\n" +
		"n:point* = $gep x:point* 1\n" +
		"$ret 0\n"

	bb, err := BasicBlockishFromString(t, text)
	require.NoError(t, err)
	require.Equal(t, 4, bb.Len())

	gep1 := bb.Inst(1).Gep()
	assert.Equal(t, "x", gep1.Field)

	gep2 := bb.Inst(2).Gep()
	assert.Equal(t, "", gep2.Field)
}

// BasicBlockishFromString parses a bare instruction sequence by wrapping it
// in a synthetic labelled block, since the gep-lookahead behavior under
// test only depends on instruction-to-instruction boundaries, not on a
// specific block label.
func BasicBlockishFromString(t *testing.T, body string) (*ir.BasicBlock, error) {
	t.Helper()
	return BasicBlockFromString(context.Background(), "entry:\n"+body)
}

func TestNullptrIdentityDistinctByType(t *testing.T) {
	text := "function f() -> int {\n" +
		"entry:\n" +
		"  a:int* = $copy @nullptr:int*\n" +
		"  b:foo* = $copy @nullptr:foo*\n" +
		"  c:int* = $copy @nullptr:int*\n" +
		"  $ret 0\n" +
		"}\n"

	f, err := FunctionFromString(context.Background(), text)
	require.NoError(t, err)

	copyInst := f.Entry().Inst(0).Copy()
	assert.True(t, copyInst.Rhs.IsVar())
	assert.True(t, copyInst.Rhs.Var.IsNullptr())

	otherType := f.Entry().Inst(1).Copy()
	sameType := f.Entry().Inst(2).Copy()
	assert.NotSame(t, copyInst.Rhs.Var, otherType.Rhs.Var)
	assert.Same(t, copyInst.Rhs.Var, sameType.Rhs.Var)
}

func TestVariableTypeMismatchIsAnError(t *testing.T) {
	text := "function f() -> int {\n" +
		"entry:\n" +
		"  x:int = $copy 1\n" +
		"  y:int* = $copy x:int*\n" +
		"  $ret 0\n" +
		"}\n"

	_, err := FunctionFromString(context.Background(), text)
	require.Error(t, err)
}

func TestMalformedProgramReturnsError(t *testing.T) {
	_, err := ProgramFromString(context.Background(), "function f( -> int { entry: $ret 0 }")
	require.Error(t, err)
}

func TestDuplicateStructFieldNameIsAnError(t *testing.T) {
	text := "struct point { x:int x:int }\n" +
		"function f() -> int {\n" +
		"entry:\n" +
		"  $ret 0\n" +
		"}\n"

	_, err := ProgramFromString(context.Background(), text)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field name")
}

func TestBlockWithNonAssigningFirstInstructionParses(t *testing.T) {
	text := "function f() -> int {\n" +
		"entry:\n" +
		"  cond:int = $copy 1\n" +
		"  $branch cond:int yes no\n" +
		"yes:\n" +
		"  $ret 1\n" +
		"no:\n" +
		"  $ret 0\n" +
		"}\n"

	f, err := FunctionFromString(context.Background(), text)
	require.NoError(t, err)
	assert.True(t, f.HasBlock("yes"))
	assert.True(t, f.HasBlock("no"))
	assert.Equal(t, ir.OpRet, f.Block("yes").Inst(0).Op())
	assert.Equal(t, ir.OpRet, f.Block("no").Inst(0).Op())
}
