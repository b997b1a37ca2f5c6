package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type orderVisitor struct {
	NoopVisitor
	seq []string
}

func (o *orderVisitor) VisitProgram(*Program)              { o.seq = append(o.seq, "program") }
func (o *orderVisitor) VisitStructType(n string, _ StructType) { o.seq = append(o.seq, "struct:"+n) }
func (o *orderVisitor) VisitFunction(f *Function)           { o.seq = append(o.seq, "func:"+f.Name()) }
func (o *orderVisitor) VisitBasicBlock(bb *BasicBlock)      { o.seq = append(o.seq, "block:"+bb.Label()) }
func (o *orderVisitor) VisitInstGeneric(i *Inst)            { o.seq = append(o.seq, "gen:"+i.Op().String()) }
func (o *orderVisitor) VisitInstAlloc(i *Inst)              { o.seq = append(o.seq, "kind:alloc") }
func (o *orderVisitor) VisitInstRet(i *Inst)                { o.seq = append(o.seq, "kind:ret") }
func (o *orderVisitor) VisitInstPostGeneric(i *Inst)        { o.seq = append(o.seq, "postgen") }
func (o *orderVisitor) VisitBasicBlockPost(bb *BasicBlock)  { o.seq = append(o.seq, "blockpost:"+bb.Label()) }
func (o *orderVisitor) VisitFunctionPost(f *Function)       { o.seq = append(o.seq, "funcpost:"+f.Name()) }
func (o *orderVisitor) VisitProgramPost(*Program)           { o.seq = append(o.seq, "programpost") }

func TestWalkOrder(t *testing.T) {
	p := NewProgram(map[string]StructType{"s": {"a": Int}}, []*Function{entryOnlyFunc("f")})

	ov := &orderVisitor{}
	Walk(ov, p)

	assert.Equal(t, []string{
		"program",
		"struct:s",
		"func:f",
		"block:entry",
		"gen:$alloc", "kind:alloc", "postgen",
		"gen:$ret", "kind:ret", "postgen",
		"blockpost:entry",
		"funcpost:f",
		"programpost",
	}, ov.seq)
}

func TestWorkVisitorAccumulatesErrors(t *testing.T) {
	p := NewProgram(nil, []*Function{entryOnlyFunc("f")})

	w := &WorkVisitor{
		OnInst: func(i *Inst) error {
			if i.Op() == OpRet {
				return assert.AnError
			}
			return nil
		},
	}

	err := WalkWork(w, p)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Len(t, w.Errs(), 1)
}
