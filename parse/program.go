package parse

import (
	"github.com/hardekbc/ir260/ir"
	"github.com/hardekbc/ir260/tok"
)

// parseProgram reads zero or more struct definitions followed by one or
// more function definitions.
func parseProgram(t *tok.Tokenizer, sc *scope) *ir.Program {
	structs := map[string]ir.StructType{}

	for t.Peek("struct") {
		name, st := parseStructDef(t)
		if _, dup := structs[name]; dup {
			fatal(t.Line(), "duplicate struct type: %s", name)
		}
		structs[name] = st
	}

	var funcs []*ir.Function
	for !t.EndOfInput() {
		funcs = append(funcs, parseFunctionDef(t, sc))
	}

	if len(funcs) == 0 {
		fatal(t.Line(), "program with no functions")
	}

	return ir.NewProgram(structs, funcs)
}

// parseStructDef reads "struct NAME { field:TYPE ... }".
func parseStructDef(t *tok.Tokenizer) (string, ir.StructType) {
	t.Consume("struct")
	name := t.ConsumeToken()
	t.Consume("{")

	fields := ir.StructType{}
	for !t.Peek("}") {
		line := t.Line()
		field := t.ConsumeToken()
		t.Consume(":")
		if _, dup := fields[field]; dup {
			fatal(line, "duplicate field name: %s.%s", name, field)
		}
		fields[field] = parseType(t)
	}
	t.Consume("}")

	return name, fields
}
