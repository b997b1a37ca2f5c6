// Package parse implements the textual parser: the inverse of
// package printer, reading the same grammar back into an in-memory
// *ir.Program (or a standalone function, basic block, or instruction, for
// callers and tests that want a smaller unit). Parsing runs the same
// verifier as ir.NewProgram; a syntactically valid but ill-formed program is
// reported the same way a hand-built one would be.
package parse

import (
	"context"
	"strconv"

	"github.com/nikandfor/errors"
	"github.com/nikandfor/loc"
	"github.com/nikandfor/tlog"

	"github.com/hardekbc/ir260/ir"
	"github.com/hardekbc/ir260/tok"
)

// ParseError is the panic value (and, at the public entry points below, the
// returned error) for a malformed textual program: an unexpected token, an
// unknown opcode where one was required, or a variable used at two
// different types. It always carries the source line. Failures detected by
// the tokenizer itself are not wrapped in a ParseError: they surface as the
// tokenizer's own *tok.SyntaxError.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return "parse error on line " + strconv.Itoa(e.Line) + ": " + e.Message
}

func fatal(line int, format string, args ...any) {
	e := errors.New(format, args...)
	tlog.Printw("parse: fatal", "line", line, "err", e, "from", loc.Callers(1, 4))
	panic(&ParseError{Line: line, Message: e.Error()})
}

// options returns the tok.Options grammar: whitespace = space, newline
// and tab, delimiters as listed, reserved words = every opcode's "$..."
// spelling, all fifteen of them.
func options() tok.Options {
	reserved := map[string]bool{}
	for _, op := range []ir.Opcode{
		ir.OpArith, ir.OpCmp, ir.OpPhi, ir.OpCopy, ir.OpAlloc, ir.OpAddrOf,
		ir.OpLoad, ir.OpStore, ir.OpGep, ir.OpSelect, ir.OpCall, ir.OpICall,
		ir.OpRet, ir.OpJump, ir.OpBranch,
	} {
		reserved[op.String()] = true
	}

	return tok.Options{
		Whitespace: map[byte]bool{' ': true, '\n': true, '\t': true},
		Delimiters: []string{":", ",", "=", "->", "*", "[", "]", "{", "}", "(", ")"},
		Reserved:   reserved,
	}
}

// recoverParse converts a *ParseError, a *ir.VerificationError, or any of
// ir's own contract-violation panics (plain strings) into a returned error,
// mirroring Builder.FinalizeProgram's boundary: internals panic, the public
// entry point is where a caller-facing error is manufactured.
func recoverParse(err *error) {
	r := recover()
	if r == nil {
		return
	}
	switch e := r.(type) {
	case *ParseError:
		*err = e
	case *ir.VerificationError:
		*err = e
	case *tok.SyntaxError:
		*err = e
	case string:
		*err = errors.New("%s", e)
	default:
		panic(r)
	}
}

// ProgramFromString parses a whole program: zero or more struct
// definitions followed by one or more function definitions.
func ProgramFromString(ctx context.Context, text string) (p *ir.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse: program")
	defer tr.Finish("err", &err)

	defer recoverParse(&err)

	t := tok.New(text, options())
	sc := newScope()

	p = parseProgram(t, sc)

	tlog.SpanFromContext(ctx).Printw("parsed program", "funcs", len(p.Funcs()), "structs", len(p.StructNames()))

	return p, nil
}

// FunctionFromString parses a single function definition. Every grammar
// level (instruction, basic block, function, program) gets its own
// from-string entry point for standalone use in tests and tools.
func FunctionFromString(ctx context.Context, text string) (f *ir.Function, err error) {
	defer recoverParse(&err)

	t := tok.New(text, options())
	sc := newScope()

	f = parseFunctionDef(t, sc)
	if !t.EndOfInput() {
		fatal(t.Line(), "unexpected trailing input after function")
	}
	return f, nil
}

// BasicBlockFromString parses a single labelled basic block.
func BasicBlockFromString(ctx context.Context, text string) (bb *ir.BasicBlock, err error) {
	defer recoverParse(&err)

	t := tok.New(text, options())
	sc := newScope()

	bb = parseBasicBlock(t, sc)
	if !t.EndOfInput() {
		fatal(t.Line(), "unexpected trailing input after basic block")
	}
	return bb, nil
}

// InstructionFromString parses a single instruction, standalone: the
// resulting *ir.Inst has no parent basic block.
func InstructionFromString(ctx context.Context, text string) (i *ir.Inst, err error) {
	defer recoverParse(&err)

	t := tok.New(text, options())
	sc := newScope()

	i = parseInstruction(t, sc)
	if !t.EndOfInput() {
		fatal(t.Line(), "unexpected trailing input after instruction")
	}
	return i, nil
}
