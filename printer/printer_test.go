package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hardekbc/ir260/ir"
)

func simpleAddOneProgram() *ir.Program {
	x := ir.NewVariable("x", ir.Int)
	y := ir.NewVariable("y", ir.Int)

	entry := ir.NewBasicBlock(ir.EntryLabel, []*ir.Inst{
		ir.NewArith(y, ir.Add, ir.VarOperand(x), ir.ConstOperand(1)),
		ir.NewRet(ir.VarOperand(y)),
	})
	f := ir.NewFunction("add_one", ir.Int, []*ir.Variable{x}, []*ir.BasicBlock{entry})

	return ir.NewProgram(nil, []*ir.Function{f})
}

func TestPrintFunction(t *testing.T) {
	p := simpleAddOneProgram()

	want := "function add_one(x:int) -> int {\n" +
		"entry:\n" +
		"  y:int = $arith add x:int 1\n" +
		"  $ret y:int\n" +
		"}\n"

	assert.Equal(t, want, Print(p))
}

func TestPrintStructBeforeFunction(t *testing.T) {
	x := ir.NewVariable("x", ir.NewStruct("point").PtrTo())
	entry := ir.NewBasicBlock(ir.EntryLabel, []*ir.Inst{
		ir.NewRet(ir.ConstOperand(0)),
	})
	f := ir.NewFunction("f", ir.Int, []*ir.Variable{x}, []*ir.BasicBlock{entry})

	p := ir.NewProgram(map[string]ir.StructType{
		"point": {"x": ir.Int, "y": ir.Int},
	}, []*ir.Function{f})

	want := "struct point {\n" +
		"  x:int\n" +
		"  y:int\n" +
		"}\n" +
		"\n" +
		"function f(x:point*) -> int {\n" +
		"entry:\n" +
		"  $ret 0\n" +
		"}\n"

	assert.Equal(t, want, Print(p))
}

func TestPrintDeterministicAcrossRuns(t *testing.T) {
	p := simpleAddOneProgram()
	assert.Equal(t, Print(p), Print(p))
}

func TestPrintGepWithAndWithoutField(t *testing.T) {
	st := ir.NewVariable("s", ir.NewStruct("point").PtrTo())
	fld := ir.NewVariable("fp", ir.Int.PtrTo())
	idx := ir.NewVariable("ip", ir.NewStruct("point").PtrTo())

	entry := ir.NewBasicBlock(ir.EntryLabel, []*ir.Inst{
		ir.NewGep(fld, st, ir.ConstOperand(0), "x"),
		ir.NewGep(idx, st, ir.ConstOperand(1), ""),
		ir.NewRet(ir.ConstOperand(0)),
	})
	f := ir.NewFunction("f", ir.Int, []*ir.Variable{st}, []*ir.BasicBlock{entry})
	p := ir.NewProgram(map[string]ir.StructType{"point": {"x": ir.Int}}, []*ir.Function{f})

	out := Print(p)
	assert.Contains(t, out, "fp:int* = $gep s:point* 0 x\n")
	assert.Contains(t, out, "ip:point* = $gep s:point* 1\n")
}
