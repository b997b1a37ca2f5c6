package ir

import (
	"fmt"
	"io"
)

// Visitor receives one callback per structural level of the IR, in a
// fixed pre/post order: program, then each struct type in name
// order, then each function in name order (function, then each of its
// blocks in label order — block, then each instruction in body order as
// generic-pre/kind-specific/generic-post, then block-post — then
// function-post), then program-post.
//
// Every analysis in this project is written as a Visitor implementation;
// most only care about a handful of instruction kinds, so embed
// NoopVisitor (or use WorkVisitor, below) rather than implementing every
// method.
type Visitor interface {
	VisitProgram(p *Program)
	VisitStructType(name string, st StructType)
	VisitFunction(f *Function)
	VisitBasicBlock(bb *BasicBlock)
	VisitInstGeneric(i *Inst)
	VisitInstArith(i *Inst)
	VisitInstCmp(i *Inst)
	VisitInstPhi(i *Inst)
	VisitInstCopy(i *Inst)
	VisitInstAlloc(i *Inst)
	VisitInstAddrOf(i *Inst)
	VisitInstLoad(i *Inst)
	VisitInstStore(i *Inst)
	VisitInstGep(i *Inst)
	VisitInstSelect(i *Inst)
	VisitInstCall(i *Inst)
	VisitInstICall(i *Inst)
	VisitInstRet(i *Inst)
	VisitInstJump(i *Inst)
	VisitInstBranch(i *Inst)
	VisitInstPostGeneric(i *Inst)
	VisitBasicBlockPost(bb *BasicBlock)
	VisitFunctionPost(f *Function)
	VisitProgramPost(p *Program)
}

// NoopVisitor implements Visitor with every method a no-op. Embed it in a
// concrete visitor to only override the calls that matter, the way the
// teacher's back.Arch implementations only implement the methods a given
// backend needs.
type NoopVisitor struct{}

func (NoopVisitor) VisitProgram(*Program)          {}
func (NoopVisitor) VisitStructType(string, StructType) {}
func (NoopVisitor) VisitFunction(*Function)        {}
func (NoopVisitor) VisitBasicBlock(*BasicBlock)    {}
func (NoopVisitor) VisitInstGeneric(*Inst)         {}
func (NoopVisitor) VisitInstArith(*Inst)           {}
func (NoopVisitor) VisitInstCmp(*Inst)             {}
func (NoopVisitor) VisitInstPhi(*Inst)             {}
func (NoopVisitor) VisitInstCopy(*Inst)            {}
func (NoopVisitor) VisitInstAlloc(*Inst)           {}
func (NoopVisitor) VisitInstAddrOf(*Inst)          {}
func (NoopVisitor) VisitInstLoad(*Inst)            {}
func (NoopVisitor) VisitInstStore(*Inst)           {}
func (NoopVisitor) VisitInstGep(*Inst)             {}
func (NoopVisitor) VisitInstSelect(*Inst)          {}
func (NoopVisitor) VisitInstCall(*Inst)            {}
func (NoopVisitor) VisitInstICall(*Inst)           {}
func (NoopVisitor) VisitInstRet(*Inst)             {}
func (NoopVisitor) VisitInstJump(*Inst)            {}
func (NoopVisitor) VisitInstBranch(*Inst)          {}
func (NoopVisitor) VisitInstPostGeneric(*Inst)     {}
func (NoopVisitor) VisitBasicBlockPost(*BasicBlock) {}
func (NoopVisitor) VisitFunctionPost(*Function)    {}
func (NoopVisitor) VisitProgramPost(*Program)      {}

// dispatchInst calls the kind-specific method matching i.Op(), sandwiched
// (by the caller, Walk) between VisitInstGeneric and VisitInstPostGeneric.
func dispatchInst(v Visitor, i *Inst) {
	switch i.Op() {
	case OpArith:
		v.VisitInstArith(i)
	case OpCmp:
		v.VisitInstCmp(i)
	case OpPhi:
		v.VisitInstPhi(i)
	case OpCopy:
		v.VisitInstCopy(i)
	case OpAlloc:
		v.VisitInstAlloc(i)
	case OpAddrOf:
		v.VisitInstAddrOf(i)
	case OpLoad:
		v.VisitInstLoad(i)
	case OpStore:
		v.VisitInstStore(i)
	case OpGep:
		v.VisitInstGep(i)
	case OpSelect:
		v.VisitInstSelect(i)
	case OpCall:
		v.VisitInstCall(i)
	case OpICall:
		v.VisitInstICall(i)
	case OpRet:
		v.VisitInstRet(i)
	case OpJump:
		v.VisitInstJump(i)
	case OpBranch:
		v.VisitInstBranch(i)
	default:
		panic("ir: unknown opcode in traversal")
	}
}

// Walk drives v over p in the fixed order described on Visitor.
func Walk(v Visitor, p *Program) {
	v.VisitProgram(p)

	for _, name := range p.StructNames() {
		st, _ := p.Struct(name)
		v.VisitStructType(name, st)
	}

	for _, f := range p.Funcs() {
		v.VisitFunction(f)

		for _, bb := range f.Blocks() {
			v.VisitBasicBlock(bb)

			for _, inst := range bb.Insts() {
				v.VisitInstGeneric(inst)
				dispatchInst(v, inst)
				v.VisitInstPostGeneric(inst)
			}

			v.VisitBasicBlockPost(bb)
		}

		v.VisitFunctionPost(f)
	}

	v.VisitProgramPost(p)
}

// DebugVisitor wraps another Visitor, printing an enter/exit marker line to
// Out around every call it forwards. It holds no state of its own beyond
// the wrapped visitor and the output sink.
type DebugVisitor struct {
	Visitor
	Out io.Writer
}

func (d DebugVisitor) trace(name string, args ...any) func() {
	fmt.Fprintf(d.Out, "enter %s %v\n", name, args)
	return func() {
		fmt.Fprintf(d.Out, "exit %s %v\n", name, args)
	}
}

func (d DebugVisitor) VisitProgram(p *Program) {
	defer d.trace("VisitProgram")()
	d.Visitor.VisitProgram(p)
}

func (d DebugVisitor) VisitStructType(name string, st StructType) {
	defer d.trace("VisitStructType", name)()
	d.Visitor.VisitStructType(name, st)
}

func (d DebugVisitor) VisitFunction(f *Function) {
	defer d.trace("VisitFunction", f.Name())()
	d.Visitor.VisitFunction(f)
}

func (d DebugVisitor) VisitBasicBlock(bb *BasicBlock) {
	defer d.trace("VisitBasicBlock", bb.Label())()
	d.Visitor.VisitBasicBlock(bb)
}

func (d DebugVisitor) VisitInstGeneric(i *Inst) {
	defer d.trace("VisitInstGeneric", i.Op())()
	d.Visitor.VisitInstGeneric(i)
}

func (d DebugVisitor) VisitInstArith(i *Inst) {
	defer d.trace("VisitInstArith")()
	d.Visitor.VisitInstArith(i)
}

func (d DebugVisitor) VisitInstCmp(i *Inst) {
	defer d.trace("VisitInstCmp")()
	d.Visitor.VisitInstCmp(i)
}

func (d DebugVisitor) VisitInstPhi(i *Inst) {
	defer d.trace("VisitInstPhi")()
	d.Visitor.VisitInstPhi(i)
}

func (d DebugVisitor) VisitInstCopy(i *Inst) {
	defer d.trace("VisitInstCopy")()
	d.Visitor.VisitInstCopy(i)
}

func (d DebugVisitor) VisitInstAlloc(i *Inst) {
	defer d.trace("VisitInstAlloc")()
	d.Visitor.VisitInstAlloc(i)
}

func (d DebugVisitor) VisitInstAddrOf(i *Inst) {
	defer d.trace("VisitInstAddrOf")()
	d.Visitor.VisitInstAddrOf(i)
}

func (d DebugVisitor) VisitInstLoad(i *Inst) {
	defer d.trace("VisitInstLoad")()
	d.Visitor.VisitInstLoad(i)
}

func (d DebugVisitor) VisitInstStore(i *Inst) {
	defer d.trace("VisitInstStore")()
	d.Visitor.VisitInstStore(i)
}

func (d DebugVisitor) VisitInstGep(i *Inst) {
	defer d.trace("VisitInstGep")()
	d.Visitor.VisitInstGep(i)
}

func (d DebugVisitor) VisitInstSelect(i *Inst) {
	defer d.trace("VisitInstSelect")()
	d.Visitor.VisitInstSelect(i)
}

func (d DebugVisitor) VisitInstCall(i *Inst) {
	defer d.trace("VisitInstCall")()
	d.Visitor.VisitInstCall(i)
}

func (d DebugVisitor) VisitInstICall(i *Inst) {
	defer d.trace("VisitInstICall")()
	d.Visitor.VisitInstICall(i)
}

func (d DebugVisitor) VisitInstRet(i *Inst) {
	defer d.trace("VisitInstRet")()
	d.Visitor.VisitInstRet(i)
}

func (d DebugVisitor) VisitInstJump(i *Inst) {
	defer d.trace("VisitInstJump")()
	d.Visitor.VisitInstJump(i)
}

func (d DebugVisitor) VisitInstBranch(i *Inst) {
	defer d.trace("VisitInstBranch")()
	d.Visitor.VisitInstBranch(i)
}

func (d DebugVisitor) VisitInstPostGeneric(i *Inst) {
	defer d.trace("VisitInstPostGeneric", i.Op())()
	d.Visitor.VisitInstPostGeneric(i)
}

func (d DebugVisitor) VisitBasicBlockPost(bb *BasicBlock) {
	defer d.trace("VisitBasicBlockPost", bb.Label())()
	d.Visitor.VisitBasicBlockPost(bb)
}

func (d DebugVisitor) VisitFunctionPost(f *Function) {
	defer d.trace("VisitFunctionPost", f.Name())()
	d.Visitor.VisitFunctionPost(f)
}

func (d DebugVisitor) VisitProgramPost(p *Program) {
	defer d.trace("VisitProgramPost")()
	d.Visitor.VisitProgramPost(p)
}

// WorkVisitor is convenience sugar over Visitor for analyses that only
// care about instructions and don't want to implement all fifteen
// dispatch methods plus the four structural ones. It has one handler,
// OnInst, called for every instruction whatever its kind (a handler that
// cares about particular kinds switches on i.Op() itself); if OnInst is
// unset the walk does nothing. Errors from handlers are accumulated (not
// short-circuited, matching the verifier's own accumulate-everything
// stance) and available via Err after WalkWork returns.
type WorkVisitor struct {
	NoopVisitor

	OnInst func(i *Inst) error // called for every instruction, any kind

	errs []error
}

func (w *WorkVisitor) VisitInstGeneric(i *Inst) {
	if w.OnInst == nil {
		return
	}
	if err := w.OnInst(i); err != nil {
		w.errs = append(w.errs, err)
	}
}

// Err returns the first accumulated handler error, if any.
func (w *WorkVisitor) Err() error {
	if len(w.errs) == 0 {
		return nil
	}
	return w.errs[0]
}

// Errs returns every accumulated handler error.
func (w *WorkVisitor) Errs() []error {
	return w.errs
}

// WalkWork runs w over p and returns w.Err() for convenience.
func WalkWork(w *WorkVisitor, p *Program) error {
	Walk(w, p)
	return w.Err()
}
