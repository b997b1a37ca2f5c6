package parse

import (
	"strconv"

	"github.com/hardekbc/ir260/ir"
	"github.com/hardekbc/ir260/tok"
)

// parseType reads one type:
//
//	type := base ("*")* | base "[" type-list? "]" ("*")*
//
// which is ambiguous as written unless read as: parse a simple type (a base
// plus its stars) first; if a "[" immediately follows, the simple type just
// parsed is reinterpreted as the return type of a function signature, whose
// parameter list follows in brackets, with its own trailing stars applying
// to the resulting function-pointer type. This is the only reading that
// round-trips a type like "int**[int,int*,bar*[int,int]*]*" back to the
// same string when re-serialized via Type.String.
func parseType(t *tok.Tokenizer) ir.Type {
	simple := parseSimpleType(t)

	if !t.Peek("[") {
		return simple
	}

	t.Consume("[")
	params := parseTypeList(t)
	t.Consume("]")

	ft := ir.NewFunc(simple, params...)
	stars := parseStars(t)
	ft.Indirection = stars
	return ft
}

// parseSimpleType reads a base (an int literal keyword "int" or a struct
// name) followed by zero or more "*".
func parseSimpleType(t *tok.Tokenizer) ir.Type {
	base := t.ConsumeToken()

	var typ ir.Type
	if base == "int" {
		typ = ir.Int
	} else {
		typ = ir.NewStruct(base)
	}

	typ.Indirection = parseStars(t)
	return typ
}

func parseStars(t *tok.Tokenizer) int {
	n := 0
	for t.TryConsume("*") {
		n++
	}
	return n
}

// parseTypeList reads a comma-separated, possibly-empty list of types up to
// (but not consuming) the closing "]".
func parseTypeList(t *tok.Tokenizer) []ir.Type {
	if t.Peek("]") {
		return nil
	}

	types := []ir.Type{parseType(t)}
	for t.TryConsume(",") {
		types = append(types, parseType(t))
	}
	return types
}

// parseInt reads a signed integer literal as a raw token: tok has no notion
// of numbers, so "-5" and "42" both arrive as a single opaque word.
func parseInt(t *tok.Tokenizer) int64 {
	word := t.ConsumeRaw()
	n, err := strconv.ParseInt(word, 10, 64)
	if err != nil {
		fatal(t.Line(), "invalid integer literal %q", word)
	}
	return n
}
