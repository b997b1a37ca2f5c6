// Package verify implements a single accumulating verification pass: it
// walks an assembled ir.Program checking every structural and
// per-instruction typing rule, collecting one line of text per violation
// rather than stopping at the first. An empty result means the program is
// well-formed. It is wired into ir.NewProgram via ir.Verify's init-time
// assignment below, keeping ir free of a compile-time dependency on its
// own verifier.
package verify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hardekbc/ir260/ir"
)

func init() {
	ir.Verify = Verify
}

// checker accumulates violation text as it walks a program. Undefined
// struct names are deduped so a type mentioning the same missing struct
// in ten places is reported once, not ten times.
type checker struct {
	ir.NoopVisitor

	p *ir.Program

	errs           []string
	reportedStruct map[string]struct{}

	curFunc *ir.Function
}

// Verify runs the accumulating pass over p and returns the joined error
// text, or "" if p is well-formed.
func Verify(p *ir.Program) string {
	c := &checker{p: p, reportedStruct: map[string]struct{}{}}
	ir.Walk(c, p)

	if len(c.errs) == 0 {
		return ""
	}
	return strings.Join(c.errs, "\n")
}

func (c *checker) fail(format string, args ...any) {
	c.errs = append(c.errs, fmt.Sprintf(format, args...))
}

// checkType records one violation for every struct name t references that
// is not defined in the program, each name reported at most once overall.
func (c *checker) checkType(t ir.Type) {
	for _, name := range t.StructNames() {
		if _, ok := c.p.Struct(name); ok {
			continue
		}
		if _, done := c.reportedStruct[name]; done {
			continue
		}
		c.reportedStruct[name] = struct{}{}
		c.fail("undefined struct type: %s", name)
	}
}

func (c *checker) VisitProgram(p *ir.Program) {
	if !p.HasFunc("main") {
		c.fail("program does not have a main function")
	}
}

func (c *checker) VisitStructType(name string, st ir.StructType) {
	if strings.Contains(name, ".") {
		c.fail("struct type name can't contain '.': %s", name)
	}
	if len(st) == 0 {
		c.fail("struct type can't have empty fields: %s", name)
	}

	fields := make([]string, 0, len(st))
	for f := range st {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		if f == "" {
			c.fail("struct field names must be non-empty: %s.%s", name, f)
		}
		if strings.Contains(f, ".") {
			c.fail("struct field name can't contain '.': %s.%s", name, f)
		}
		c.checkType(st[f])
	}
}

func (c *checker) VisitFunction(f *ir.Function) {
	c.curFunc = f

	if !f.Ret().IsTopLevel() {
		c.fail("function %s: return type %s is not a value type", f.Name(), f.Ret())
	}
	c.checkType(f.Ret())

	seen := map[*ir.Variable]bool{}
	for _, prm := range f.Params() {
		if seen[prm] {
			c.fail("function %s: duplicate parameter variable %s", f.Name(), prm.Name())
		}
		seen[prm] = true

		if prm.IsGlobal() {
			c.fail("function %s: parameter %s is a global variable", f.Name(), prm.Name())
		}
		if !prm.Type().IsTopLevel() {
			c.fail("function %s: parameter %s has non-value type %s", f.Name(), prm.Name(), prm.Type())
		}
		c.checkType(prm.Type())
	}

	if !f.HasBlock(ir.EntryLabel) {
		c.fail("function %s: missing entry block", f.Name())
	}
}

// VisitInstGeneric runs the checks common to every instruction kind,
// ahead of the kind-specific dispatch: every struct named in the lhs or
// operand types must be defined, an assigning instruction's lhs must not be
// a global variable, and every global variable an instruction reads other
// than "@nullptr" must actually name a defined function.
func (c *checker) VisitInstGeneric(i *ir.Inst) {
	if lhs := i.Lhs(); lhs != nil {
		c.checkType(lhs.Type())
	}
	for _, op := range i.Operands() {
		c.checkType(op.Type())
	}

	if lhs := i.Lhs(); lhs != nil && lhs.IsGlobal() {
		c.fail("%s", c.ctx("%s: assigns to global variable %s", i.Op(), lhs.Name()))
	}

	for _, op := range i.Operands() {
		if !op.IsVar() || !op.Var.IsGlobal() || op.Var.IsNullptr() {
			continue
		}
		name := strings.TrimPrefix(op.Var.Name(), "@")
		if !c.p.HasFunc(name) {
			c.fail("%s", c.ctx("%s: undefined global reference: %s", i.Op(), op.Var.Name()))
		}
	}
}

func (c *checker) VisitBasicBlock(bb *ir.BasicBlock) {
	if bb.Parent() != c.curFunc {
		c.fail("function %s: block %s: parent does not link back to containing function", c.curFunc.Name(), bb.Label())
	}

	for idx, inst := range bb.Insts() {
		last := idx == bb.Len()-1
		if inst.IsTerminator() != last {
			if last {
				c.fail("function %s: block %s: last instruction is not a terminator", c.curFunc.Name(), bb.Label())
			} else {
				c.fail("function %s: block %s: terminator %s is not the last instruction", c.curFunc.Name(), bb.Label(), inst.Op())
			}
		}
	}
}

func (c *checker) ctx(format string, args ...any) string {
	return fmt.Sprintf("function %s: %s", c.curFunc.Name(), fmt.Sprintf(format, args...))
}

func (c *checker) sameType(a, b ir.Type, what string) {
	if !a.Equal(b) {
		c.fail("%s", c.ctx("%s: type mismatch: %s vs %s", what, a, b))
	}
}

func (c *checker) mustBeInt(t ir.Type, what string) {
	if !t.IsInt() {
		c.fail("%s", c.ctx("%s: expected int, got %s", what, t))
	}
}

func (c *checker) mustBePtr(t ir.Type, what string) {
	if !t.IsPtr() {
		c.fail("%s", c.ctx("%s: expected a pointer type, got %s", what, t))
	}
}

func (c *checker) mustBeTopLevel(t ir.Type, what string) {
	if !t.IsTopLevel() {
		c.fail("%s", c.ctx("%s: expected a value type, got %s", what, t))
	}
}

func (c *checker) blockExists(label, what string) {
	if !c.curFunc.HasBlock(label) {
		c.fail("%s", c.ctx("%s: no such basic block: %s", what, label))
	}
}

func (c *checker) VisitInstArith(i *ir.Inst) {
	d := i.Arith()
	c.mustBeInt(d.Lhs.Type(), "arith lhs")
	c.mustBeInt(d.Op1.Type(), "arith op1")
	c.mustBeInt(d.Op2.Type(), "arith op2")
}

func (c *checker) VisitInstCmp(i *ir.Inst) {
	d := i.Cmp()
	c.mustBeInt(d.Lhs.Type(), "cmp lhs")
	c.sameType(d.Op1.Type(), d.Op2.Type(), "cmp operands")
}

func (c *checker) VisitInstPhi(i *ir.Inst) {
	d := i.Phi()
	for idx, op := range d.Ops {
		c.sameType(op.Type(), d.Lhs.Type(), fmt.Sprintf("phi operand %d", idx))
	}
	c.mustBeTopLevel(d.Lhs.Type(), "phi lhs")
}

func (c *checker) VisitInstCopy(i *ir.Inst) {
	d := i.Copy()
	c.sameType(d.Rhs.Type(), d.Lhs.Type(), "copy")
	c.mustBeTopLevel(d.Lhs.Type(), "copy lhs")
}

func (c *checker) VisitInstAlloc(i *ir.Inst) {
	d := i.Alloc()
	c.mustBePtr(d.Lhs.Type(), "alloc lhs")
}

func (c *checker) VisitInstAddrOf(i *ir.Inst) {
	d := i.AddrOf()
	c.sameType(d.Lhs.Type(), d.Rhs.Type().PtrTo(), "addrof")
}

func (c *checker) VisitInstLoad(i *ir.Inst) {
	d := i.Load()
	c.mustBePtr(d.Src.Type(), "load src")
	if d.Src.Type().IsPtr() {
		c.sameType(d.Lhs.Type(), d.Src.Type().Deref(), "load")
	}
	c.mustBeTopLevel(d.Lhs.Type(), "load lhs")
}

func (c *checker) VisitInstStore(i *ir.Inst) {
	d := i.Store()
	c.mustBePtr(d.Dst.Type(), "store dst")
	if d.Dst.Type().IsPtr() {
		c.sameType(d.Value.Type(), d.Dst.Type().Deref(), "store")
	}
}

func (c *checker) VisitInstGep(i *ir.Inst) {
	d := i.Gep()
	c.mustBePtr(d.SrcPtr.Type(), "gep src_ptr")
	c.mustBeInt(d.Index.Type(), "gep index")

	if !d.SrcPtr.Type().IsPtr() {
		return
	}

	if d.Field == "" {
		c.sameType(d.Lhs.Type(), d.SrcPtr.Type(), "gep")
		return
	}

	if !d.SrcPtr.Type().IsStructPtr() {
		c.fail("%s", c.ctx("gep: field %q on non-struct pointer %s", d.Field, d.SrcPtr.Type()))
		return
	}

	st, ok := c.p.Struct(d.SrcPtr.Type().StructName)
	if !ok {
		return // already reported by checkType
	}
	fieldType, ok := st[d.Field]
	if !ok {
		c.fail("%s", c.ctx("gep: no such field %q on struct %s", d.Field, d.SrcPtr.Type().StructName))
		return
	}
	c.sameType(d.Lhs.Type(), fieldType.PtrTo(), "gep field result")
}

func (c *checker) VisitInstSelect(i *ir.Inst) {
	d := i.Select()
	c.mustBeInt(d.Cond.Type(), "select cond")
	c.sameType(d.TrueOp.Type(), d.Lhs.Type(), "select true_op")
	c.sameType(d.FalseOp.Type(), d.Lhs.Type(), "select false_op")
	c.mustBeTopLevel(d.Lhs.Type(), "select lhs")
}

func (c *checker) VisitInstCall(i *ir.Inst) {
	d := i.Call()
	if !c.p.HasFunc(d.Callee) {
		c.fail("%s", c.ctx("call: undefined function: %s", d.Callee))
		return
	}
	callee := c.p.Func(d.Callee)
	c.checkArgs(callee.Params(), d.Args, "call "+d.Callee)
	c.sameType(d.Lhs.Type(), callee.Ret(), "call result")
}

func (c *checker) VisitInstICall(i *ir.Inst) {
	d := i.ICall()
	if !d.FuncPtr.Type().IsFunctionPtr() {
		c.fail("%s", c.ctx("icall: func_ptr %s is not a function pointer", d.FuncPtr.Name()))
		return
	}
	sig := d.FuncPtr.Type().Func
	if len(sig.Params) != len(d.Args) {
		c.fail("%s", c.ctx("icall: expected %d arguments, got %d", len(sig.Params), len(d.Args)))
	} else {
		for idx, want := range sig.Params {
			c.sameType(d.Args[idx].Type(), want, fmt.Sprintf("icall argument %d", idx))
		}
	}
	c.sameType(d.Lhs.Type(), sig.Ret, "icall result")
	c.mustBeTopLevel(d.Lhs.Type(), "icall lhs")
}

func (c *checker) checkArgs(params []*ir.Variable, args []ir.Operand, what string) {
	if len(params) != len(args) {
		c.fail("%s", c.ctx("%s: expected %d arguments, got %d", what, len(params), len(args)))
		return
	}
	for idx, prm := range params {
		c.sameType(args[idx].Type(), prm.Type(), fmt.Sprintf("%s argument %d", what, idx))
	}
}

func (c *checker) VisitInstRet(i *ir.Inst) {
	d := i.Ret()
	c.sameType(d.RetVal.Type(), c.curFunc.Ret(), "ret")
}

func (c *checker) VisitInstJump(i *ir.Inst) {
	d := i.Jump()
	c.blockExists(d.Label, "jump")
}

func (c *checker) VisitInstBranch(i *ir.Inst) {
	d := i.Branch()
	c.mustBeInt(d.Cond.Type(), "branch cond")
	c.blockExists(d.LabelTrue, "branch true label")
	c.blockExists(d.LabelFalse, "branch false label")
}
