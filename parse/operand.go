package parse

import (
	"github.com/hardekbc/ir260/ir"
	"github.com/hardekbc/ir260/tok"
)

// parseVarRef reads a "NAME:TYPE" occurrence and resolves it through sc to
// its shared *ir.Variable.
func parseVarRef(t *tok.Tokenizer, sc *scope) *ir.Variable {
	name := t.ConsumeToken()
	t.Consume(":")
	typ := parseType(t)

	v, err := sc.resolve(name, typ)
	if err != nil {
		fatal(t.Line(), "%s", err.Error())
	}
	return v
}

// isVarRef reports whether the next tokens spell a variable reference
// rather than an integer literal: decided by whether the token after next
// is ":".
func isVarRef(t *tok.Tokenizer) bool {
	return t.PeekAhead(1) == ":"
}

// parseOperand reads either a variable reference or an integer constant.
func parseOperand(t *tok.Tokenizer, sc *scope) ir.Operand {
	if isVarRef(t) {
		return ir.VarOperand(parseVarRef(t, sc))
	}
	return ir.ConstOperand(parseInt(t))
}

// parseOperandList reads a comma-separated, possibly-empty operand list up
// to (but not consuming) the closing ")".
func parseOperandList(t *tok.Tokenizer, sc *scope) []ir.Operand {
	if t.Peek(")") {
		return nil
	}

	ops := []ir.Operand{parseOperand(t, sc)}
	for t.TryConsume(",") {
		ops = append(ops, parseOperand(t, sc))
	}
	return ops
}
