package parse

import (
	"github.com/hardekbc/ir260/ir"
	"github.com/hardekbc/ir260/tok"
)

// parseFunctionDef reads "function NAME ( params ) -> RETTYPE { blocks }".
// Locals are scoped per function: sc's local table is reset on entry, while
// its global and nullptr tables persist across the whole parse.
func parseFunctionDef(t *tok.Tokenizer, sc *scope) *ir.Function {
	sc.resetLocals()

	t.Consume("function")
	name := t.ConsumeToken()

	t.Consume("(")
	params := parseParamList(t, sc)
	t.Consume(")")

	t.Consume("->")
	ret := parseType(t)

	t.Consume("{")
	blocks := parseFunctionBody(t, sc)
	t.Consume("}")

	return ir.NewFunction(name, ret, params, blocks)
}

func parseParamList(t *tok.Tokenizer, sc *scope) []*ir.Variable {
	if t.Peek(")") {
		return nil
	}

	params := []*ir.Variable{parseVarRef(t, sc)}
	for t.TryConsume(",") {
		params = append(params, parseVarRef(t, sc))
	}
	return params
}
