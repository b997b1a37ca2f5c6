package parse

import (
	"github.com/hardekbc/ir260/ir"
	"github.com/hardekbc/ir260/tok"
)

// parseBlockLabel reads a bare "label:" header.
func parseBlockLabel(t *tok.Tokenizer) string {
	label := t.ConsumeToken()
	t.Consume(":")
	return label
}

// parseBlockBody reads instructions until one is a terminator, which ends
// the block — mirroring the terminator-driven read loop rather than
// guessing the boundary from lookahead: a block's own well-formedness
// (exactly one terminator, in last position) is what marks its end, not
// any fixed token shape, since a block's first instruction need not be an
// assigning one ($ret, $jump, and $branch all open a block just as validly
// as an assignment does).
func parseBlockBody(t *tok.Tokenizer, sc *scope) []*ir.Inst {
	var body []*ir.Inst
	for {
		inst := parseInstruction(t, sc)
		body = append(body, inst)
		if inst.IsTerminator() {
			return body
		}
	}
}

// parseBasicBlock reads one labelled block and its terminator-ended
// instruction sequence, for BasicBlockFromString's standalone use.
func parseBasicBlock(t *tok.Tokenizer, sc *scope) *ir.BasicBlock {
	label := parseBlockLabel(t)
	return ir.NewBasicBlock(label, parseBlockBody(t, sc))
}

// parseFunctionBody reads the "{ ... }"-enclosed sequence of basic blocks
// making up a function, stopping at (but not consuming) the closing "}".
func parseFunctionBody(t *tok.Tokenizer, sc *scope) []*ir.BasicBlock {
	var blocks []*ir.BasicBlock

	for !t.Peek("}") {
		label := parseBlockLabel(t)
		blocks = append(blocks, ir.NewBasicBlock(label, parseBlockBody(t, sc)))
	}

	return blocks
}
