// Package printer implements the deterministic textual pretty-printer: a
// Visitor that renders a Program back into the same grammar package parse
// reads, such that printing and re-parsing a valid program yields an
// equivalent one.
package printer

import (
	"sort"

	"github.com/nikandfor/hacked/hfmt"

	"github.com/hardekbc/ir260/ir"
)

// Print renders p as IR text.
func Print(p *ir.Program) string {
	pr := &printerVisitor{}
	ir.Walk(pr, p)
	return string(pr.b)
}

// printerVisitor accumulates output into a byte buffer as it's walked,
// grounded on format.Format's recursive []byte-builder shape (app helper,
// indent depth threaded through calls) rather than a string builder with
// intermediate string conversions.
type printerVisitor struct {
	ir.NoopVisitor

	b []byte

	structSeen int
	funcSeen   int
	blockSeen  int
}

func (pr *printerVisitor) VisitStructType(name string, st ir.StructType) {
	if pr.structSeen > 0 {
		pr.b = append(pr.b, '\n')
	}
	pr.structSeen++

	fields := sortedFields(st)

	pr.b = hfmt.AppendPrintf(pr.b, "struct %s {\n", name)
	for _, f := range fields {
		pr.b = hfmt.AppendPrintf(pr.b, "  %s:%s\n", f, st[f].String())
	}
	pr.b = append(pr.b, "}\n"...)
}

func (pr *printerVisitor) VisitFunction(f *ir.Function) {
	if pr.structSeen > 0 || pr.funcSeen > 0 {
		pr.b = append(pr.b, '\n')
	}
	pr.funcSeen++
	pr.blockSeen = 0

	pr.b = hfmt.AppendPrintf(pr.b, "function %s(", f.Name())
	for i, prm := range f.Params() {
		if i != 0 {
			pr.b = append(pr.b, ", "...)
		}
		pr.b = hfmt.AppendPrintf(pr.b, "%s:%s", prm.Name(), prm.Type().String())
	}
	pr.b = hfmt.AppendPrintf(pr.b, ") -> %s {\n", f.Ret().String())
}

func (pr *printerVisitor) VisitFunctionPost(f *ir.Function) {
	pr.b = append(pr.b, "}\n"...)
}

func (pr *printerVisitor) VisitBasicBlock(bb *ir.BasicBlock) {
	if pr.blockSeen > 0 {
		pr.b = append(pr.b, '\n')
	}
	pr.blockSeen++

	pr.b = hfmt.AppendPrintf(pr.b, "%s:\n", bb.Label())
}

func (pr *printerVisitor) VisitInstGeneric(i *ir.Inst) {
	pr.b = append(pr.b, "  "...)

	if lhs := i.Lhs(); lhs != nil {
		pr.b = hfmt.AppendPrintf(pr.b, "%s:%s = ", lhs.Name(), lhs.Type().String())
	}
}

func (pr *printerVisitor) VisitInstPostGeneric(i *ir.Inst) {
	pr.b = append(pr.b, '\n')
}

func (pr *printerVisitor) VisitInstArith(i *ir.Inst) {
	d := i.Arith()
	pr.b = hfmt.AppendPrintf(pr.b, "%s %s %s %s", ir.OpArith.String(), d.Aop.String(), d.Op1.String(), d.Op2.String())
}

func (pr *printerVisitor) VisitInstCmp(i *ir.Inst) {
	d := i.Cmp()
	pr.b = hfmt.AppendPrintf(pr.b, "%s %s %s %s", ir.OpCmp.String(), d.Rop.String(), d.Op1.String(), d.Op2.String())
}

func (pr *printerVisitor) VisitInstPhi(i *ir.Inst) {
	d := i.Phi()
	pr.b = hfmt.AppendPrintf(pr.b, "%s (", ir.OpPhi.String())
	for idx, op := range d.Ops {
		if idx != 0 {
			pr.b = append(pr.b, ", "...)
		}
		pr.b = append(pr.b, op.String()...)
	}
	pr.b = append(pr.b, ')')
}

func (pr *printerVisitor) VisitInstCopy(i *ir.Inst) {
	d := i.Copy()
	pr.b = hfmt.AppendPrintf(pr.b, "%s %s", ir.OpCopy.String(), d.Rhs.String())
}

func (pr *printerVisitor) VisitInstAlloc(i *ir.Inst) {
	pr.b = hfmt.AppendPrintf(pr.b, "%s", ir.OpAlloc.String())
}

func (pr *printerVisitor) VisitInstAddrOf(i *ir.Inst) {
	d := i.AddrOf()
	pr.b = hfmt.AppendPrintf(pr.b, "%s %s", ir.OpAddrOf.String(), d.Rhs.String())
}

func (pr *printerVisitor) VisitInstLoad(i *ir.Inst) {
	d := i.Load()
	pr.b = hfmt.AppendPrintf(pr.b, "%s %s", ir.OpLoad.String(), d.Src.String())
}

func (pr *printerVisitor) VisitInstStore(i *ir.Inst) {
	d := i.Store()
	pr.b = hfmt.AppendPrintf(pr.b, "%s %s %s", ir.OpStore.String(), d.Dst.String(), d.Value.String())
}

func (pr *printerVisitor) VisitInstGep(i *ir.Inst) {
	d := i.Gep()
	pr.b = hfmt.AppendPrintf(pr.b, "%s %s %s", ir.OpGep.String(), d.SrcPtr.String(), d.Index.String())
	if d.Field != "" {
		pr.b = hfmt.AppendPrintf(pr.b, " %s", d.Field)
	}
}

func (pr *printerVisitor) VisitInstSelect(i *ir.Inst) {
	d := i.Select()
	pr.b = hfmt.AppendPrintf(pr.b, "%s %s %s %s", ir.OpSelect.String(), d.Cond.String(), d.TrueOp.String(), d.FalseOp.String())
}

func (pr *printerVisitor) VisitInstCall(i *ir.Inst) {
	d := i.Call()
	pr.b = hfmt.AppendPrintf(pr.b, "%s %s(", ir.OpCall.String(), d.Callee)
	pr.printArgs(d.Args)
	pr.b = append(pr.b, ')')
}

func (pr *printerVisitor) VisitInstICall(i *ir.Inst) {
	d := i.ICall()
	pr.b = hfmt.AppendPrintf(pr.b, "%s %s(", ir.OpICall.String(), d.FuncPtr.String())
	pr.printArgs(d.Args)
	pr.b = append(pr.b, ')')
}

func (pr *printerVisitor) VisitInstRet(i *ir.Inst) {
	d := i.Ret()
	pr.b = hfmt.AppendPrintf(pr.b, "%s %s", ir.OpRet.String(), d.RetVal.String())
}

func (pr *printerVisitor) VisitInstJump(i *ir.Inst) {
	d := i.Jump()
	pr.b = hfmt.AppendPrintf(pr.b, "%s %s", ir.OpJump.String(), d.Label)
}

func (pr *printerVisitor) VisitInstBranch(i *ir.Inst) {
	d := i.Branch()
	pr.b = hfmt.AppendPrintf(pr.b, "%s %s %s %s", ir.OpBranch.String(), d.Cond.String(), d.LabelTrue, d.LabelFalse)
}

func (pr *printerVisitor) printArgs(args []ir.Operand) {
	for idx, a := range args {
		if idx != 0 {
			pr.b = append(pr.b, ", "...)
		}
		pr.b = append(pr.b, a.String()...)
	}
}

func sortedFields(st ir.StructType) []string {
	names := make([]string, 0, len(st))
	for f := range st {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}
