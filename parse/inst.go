package parse

import (
	"github.com/hardekbc/ir260/ir"
	"github.com/hardekbc/ir260/tok"
)

// parseInstruction reads one instruction, dispatching on whether the next
// reserved word is one of the four non-assigning opcodes or the current
// token is a "lhs:type = opcode ..." assignment.
func parseInstruction(t *tok.Tokenizer, sc *scope) *ir.Inst {
	if t.IsNextReserved() {
		return parseNoLhsInstruction(t, sc)
	}
	return parseAssigningInstruction(t, sc)
}

func parseNoLhsInstruction(t *tok.Tokenizer, sc *scope) *ir.Inst {
	line := t.Line()
	op := t.ConsumeRaw()

	switch op {
	case ir.OpStore.String():
		dst := parseVarRef(t, sc)
		value := parseOperand(t, sc)
		return ir.NewStore(dst, value)
	case ir.OpJump.String():
		label := t.ConsumeToken()
		return ir.NewJump(label)
	case ir.OpBranch.String():
		cond := parseOperand(t, sc)
		labelTrue := t.ConsumeToken()
		labelFalse := t.ConsumeToken()
		return ir.NewBranch(cond, labelTrue, labelFalse)
	case ir.OpRet.String():
		retVal := parseOperand(t, sc)
		return ir.NewRet(retVal)
	default:
		fatal(line, "unexpected reserved word %q at start of instruction", op)
		panic("unreachable")
	}
}

func parseAssigningInstruction(t *tok.Tokenizer, sc *scope) *ir.Inst {
	lhs := parseVarRef(t, sc)
	t.Consume("=")

	line := t.Line()
	op := t.ConsumeRaw()

	switch op {
	case ir.OpArith.String():
		aop := parseArithOp(t)
		op1 := parseOperand(t, sc)
		op2 := parseOperand(t, sc)
		return ir.NewArith(lhs, aop, op1, op2)
	case ir.OpCmp.String():
		rop := parseCmpOp(t)
		op1 := parseOperand(t, sc)
		op2 := parseOperand(t, sc)
		return ir.NewCmp(lhs, rop, op1, op2)
	case ir.OpPhi.String():
		t.Consume("(")
		ops := parseOperandList(t, sc)
		t.Consume(")")
		return ir.NewPhi(lhs, ops)
	case ir.OpCopy.String():
		rhs := parseOperand(t, sc)
		return ir.NewCopy(lhs, rhs)
	case ir.OpAlloc.String():
		return ir.NewAlloc(lhs)
	case ir.OpAddrOf.String():
		rhs := parseVarRef(t, sc)
		return ir.NewAddrOf(lhs, rhs)
	case ir.OpLoad.String():
		src := parseVarRef(t, sc)
		return ir.NewLoad(lhs, src)
	case ir.OpGep.String():
		srcPtr := parseVarRef(t, sc)
		index := parseOperand(t, sc)
		field := parseOptionalGepField(t)
		return ir.NewGep(lhs, srcPtr, index, field)
	case ir.OpSelect.String():
		cond := parseOperand(t, sc)
		trueOp := parseOperand(t, sc)
		falseOp := parseOperand(t, sc)
		return ir.NewSelect(lhs, cond, trueOp, falseOp)
	case ir.OpCall.String():
		callee := t.ConsumeToken()
		t.Consume("(")
		args := parseOperandList(t, sc)
		t.Consume(")")
		return ir.NewCall(lhs, callee, args)
	case ir.OpICall.String():
		funcPtr := parseVarRef(t, sc)
		t.Consume("(")
		args := parseOperandList(t, sc)
		t.Consume(")")
		return ir.NewICall(lhs, funcPtr, args)
	default:
		fatal(line, "unknown or non-assigning opcode %q after '='", op)
		panic("unreachable")
	}
}

// parseOptionalGepField implements the gep field-name lookahead: after
// src_ptr and index, an extra raw token is a field name only if what
// follows is neither end-of-input, a reserved word (the next instruction),
// a delimiter (a block/function closer), nor the start of a "name:type ="
// occurrence (PeekAhead(1) == ":", which would mean we're already looking
// at the next instruction's lhs).
func parseOptionalGepField(t *tok.Tokenizer) string {
	if t.EndOfInput() || t.IsNextReserved() {
		return ""
	}
	if t.IsNextDelimiter() {
		return ""
	}
	if t.PeekAhead(1) == ":" {
		return ""
	}
	return t.ConsumeRaw()
}

func parseArithOp(t *tok.Tokenizer) ir.ArithOp {
	line := t.Line()
	word := t.ConsumeToken()
	switch word {
	case "add":
		return ir.Add
	case "sub":
		return ir.Sub
	case "mul":
		return ir.Mul
	case "div":
		return ir.Div
	default:
		fatal(line, "unknown arith operator %q", word)
		panic("unreachable")
	}
}

func parseCmpOp(t *tok.Tokenizer) ir.CmpOp {
	line := t.Line()
	word := t.ConsumeToken()
	switch word {
	case "eq":
		return ir.Eq
	case "neq":
		return ir.Neq
	case "lt":
		return ir.Lt
	case "gt":
		return ir.Gt
	case "lte":
		return ir.Lte
	case "gte":
		return ir.Gte
	default:
		fatal(line, "unknown comparison operator %q", word)
		panic("unreachable")
	}
}
