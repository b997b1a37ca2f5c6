package ir

import "github.com/nikandfor/tlog/tlwire"

// Opcode identifies one of the fifteen instruction kinds.
type Opcode int

const (
	OpArith Opcode = iota
	OpCmp
	OpPhi
	OpCopy
	OpAlloc
	OpAddrOf
	OpLoad
	OpStore
	OpGep
	OpSelect
	OpCall
	OpICall
	OpRet
	OpJump
	OpBranch
)

// String names an opcode the way the reserved-word table does ("$arith",
// "$store", ...), matching the textual grammar package parse reads and
// package printer writes.
func (op Opcode) String() string {
	switch op {
	case OpArith:
		return "$arith"
	case OpCmp:
		return "$cmp"
	case OpPhi:
		return "$phi"
	case OpCopy:
		return "$copy"
	case OpAlloc:
		return "$alloc"
	case OpAddrOf:
		return "$addrof"
	case OpLoad:
		return "$load"
	case OpStore:
		return "$store"
	case OpGep:
		return "$gep"
	case OpSelect:
		return "$select"
	case OpCall:
		return "$call"
	case OpICall:
		return "$icall"
	case OpRet:
		return "$ret"
	case OpJump:
		return "$jump"
	case OpBranch:
		return "$branch"
	default:
		return "$?"
	}
}

// ArithOp is the operator of an arith instruction.
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
)

func (op ArithOp) String() string {
	switch op {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	default:
		return "?"
	}
}

// CmpOp is the relation of a cmp instruction.
type CmpOp int

const (
	Eq CmpOp = iota
	Neq
	Lt
	Gt
	Lte
	Gte
)

func (op CmpOp) String() string {
	switch op {
	case Eq:
		return "eq"
	case Neq:
		return "neq"
	case Lt:
		return "lt"
	case Gt:
		return "gt"
	case Lte:
		return "lte"
	case Gte:
		return "gte"
	default:
		return "?"
	}
}

// Per-kind payloads. Each is constructed only via the matching New*
// function on Inst, which enforces the non-null-reference contract before
// the payload is ever observable.
type (
	ArithData struct {
		Lhs      *Variable
		Op1, Op2 Operand
		Aop      ArithOp
	}

	CmpData struct {
		Lhs      *Variable
		Op1, Op2 Operand
		Rop      CmpOp
	}

	PhiData struct {
		Lhs *Variable
		Ops []Operand
	}

	CopyData struct {
		Lhs *Variable
		Rhs Operand
	}

	AllocData struct {
		Lhs *Variable
	}

	AddrOfData struct {
		Lhs *Variable
		Rhs *Variable
	}

	LoadData struct {
		Lhs *Variable
		Src *Variable
	}

	StoreData struct {
		Dst   *Variable
		Value Operand
	}

	GepData struct {
		Lhs    *Variable
		SrcPtr *Variable
		Index  Operand
		Field  string
	}

	SelectData struct {
		Lhs               *Variable
		Cond              Operand
		TrueOp, FalseOp   Operand
	}

	CallData struct {
		Lhs    *Variable
		Callee string
		Args   []Operand
	}

	ICallData struct {
		Lhs     *Variable
		FuncPtr *Variable
		Args    []Operand
	}

	RetData struct {
		RetVal Operand
	}

	JumpData struct {
		Label string
	}

	BranchData struct {
		Cond              Operand
		LabelTrue, LabelFalse string
	}
)

// Inst is a tagged wrapper over one of the fifteen instruction kinds, with
// an optional back-reference to the basic block it has been placed in.
type Inst struct {
	op     Opcode
	data   any
	parent *BasicBlock
}

func requireVar(v *Variable, what string) {
	if v == nil {
		panic("ir: nil variable in " + what)
	}
}

// NewArith builds an "lhs = op1 <aop> op2" instruction.
func NewArith(lhs *Variable, aop ArithOp, op1, op2 Operand) *Inst {
	requireVar(lhs, "arith lhs")
	return &Inst{op: OpArith, data: &ArithData{Lhs: lhs, Op1: op1, Op2: op2, Aop: aop}}
}

// NewCmp builds an "lhs = op1 <rop> op2" instruction.
func NewCmp(lhs *Variable, rop CmpOp, op1, op2 Operand) *Inst {
	requireVar(lhs, "cmp lhs")
	return &Inst{op: OpCmp, data: &CmpData{Lhs: lhs, Op1: op1, Op2: op2, Rop: rop}}
}

// NewPhi builds an SSA-merge instruction. Panics if ops is empty: a phi
// with no operands cannot merge anything.
func NewPhi(lhs *Variable, ops []Operand) *Inst {
	requireVar(lhs, "phi lhs")
	if len(ops) == 0 {
		panic("ir: phi with no operands")
	}
	return &Inst{op: OpPhi, data: &PhiData{Lhs: lhs, Ops: ops}}
}

// NewCopy builds an "lhs = rhs" instruction.
func NewCopy(lhs *Variable, rhs Operand) *Inst {
	requireVar(lhs, "copy lhs")
	return &Inst{op: OpCopy, data: &CopyData{Lhs: lhs, Rhs: rhs}}
}

// NewAlloc builds an "lhs = alloc" instruction.
func NewAlloc(lhs *Variable) *Inst {
	requireVar(lhs, "alloc lhs")
	return &Inst{op: OpAlloc, data: &AllocData{Lhs: lhs}}
}

// NewAddrOf builds an "lhs = &rhs" instruction.
func NewAddrOf(lhs, rhs *Variable) *Inst {
	requireVar(lhs, "addrof lhs")
	requireVar(rhs, "addrof rhs")
	return &Inst{op: OpAddrOf, data: &AddrOfData{Lhs: lhs, Rhs: rhs}}
}

// NewLoad builds an "lhs = *src" instruction.
func NewLoad(lhs, src *Variable) *Inst {
	requireVar(lhs, "load lhs")
	requireVar(src, "load src")
	return &Inst{op: OpLoad, data: &LoadData{Lhs: lhs, Src: src}}
}

// NewStore builds a "*dst = value" instruction.
func NewStore(dst *Variable, value Operand) *Inst {
	requireVar(dst, "store dst")
	return &Inst{op: OpStore, data: &StoreData{Dst: dst, Value: value}}
}

// NewGep builds a get-element-pointer instruction. field == "" means no
// field offset (pure index arithmetic).
func NewGep(lhs, srcPtr *Variable, index Operand, field string) *Inst {
	requireVar(lhs, "gep lhs")
	requireVar(srcPtr, "gep src_ptr")
	return &Inst{op: OpGep, data: &GepData{Lhs: lhs, SrcPtr: srcPtr, Index: index, Field: field}}
}

// NewSelect builds an "lhs = cond ? true_op : false_op" instruction.
func NewSelect(lhs *Variable, cond, trueOp, falseOp Operand) *Inst {
	requireVar(lhs, "select lhs")
	return &Inst{op: OpSelect, data: &SelectData{Lhs: lhs, Cond: cond, TrueOp: trueOp, FalseOp: falseOp}}
}

// NewCall builds a direct call instruction.
func NewCall(lhs *Variable, callee string, args []Operand) *Inst {
	requireVar(lhs, "call lhs")
	if callee == "" {
		panic("ir: call with empty callee name")
	}
	return &Inst{op: OpCall, data: &CallData{Lhs: lhs, Callee: callee, Args: args}}
}

// NewICall builds an indirect call instruction through a function pointer.
func NewICall(lhs *Variable, funcPtr *Variable, args []Operand) *Inst {
	requireVar(lhs, "icall lhs")
	requireVar(funcPtr, "icall func_ptr")
	return &Inst{op: OpICall, data: &ICallData{Lhs: lhs, FuncPtr: funcPtr, Args: args}}
}

// NewRet builds a return terminator.
func NewRet(retVal Operand) *Inst {
	return &Inst{op: OpRet, data: &RetData{RetVal: retVal}}
}

// NewJump builds an unconditional-branch terminator. Panics on an empty
// label.
func NewJump(label string) *Inst {
	if label == "" {
		panic("ir: jump with empty label")
	}
	return &Inst{op: OpJump, data: &JumpData{Label: label}}
}

// NewBranch builds a conditional-branch terminator. Panics if either label
// is empty.
func NewBranch(cond Operand, labelTrue, labelFalse string) *Inst {
	if labelTrue == "" || labelFalse == "" {
		panic("ir: branch with empty label")
	}
	return &Inst{op: OpBranch, data: &BranchData{Cond: cond, LabelTrue: labelTrue, LabelFalse: labelFalse}}
}

// clone returns a copy of i sharing its (immutable) payload but with no
// parent, for use when a basic block is copied and its instructions must
// be re-parented without mutating the original block's instructions.
func (i *Inst) clone() *Inst {
	return &Inst{op: i.op, data: i.data}
}

// Op returns the instruction's opcode.
func (i *Inst) Op() Opcode { return i.op }

// Parent returns the basic block this instruction has been placed in, or
// nil if it has not been placed. This is expected for instructions parsed
// standalone via parse.InstructionFromString.
func (i *Inst) Parent() *BasicBlock { return i.parent }

// Index returns the instruction's position within its parent's body, or -1
// if it has no parent.
func (i *Inst) Index() int {
	if i.parent == nil {
		return -1
	}
	for idx, x := range i.parent.body {
		if x == i {
			return idx
		}
	}
	return -1
}

// IsAssigning reports whether this instruction writes an lhs variable.
func (i *Inst) IsAssigning() bool {
	switch i.op {
	case OpStore, OpRet, OpJump, OpBranch:
		return false
	default:
		return true
	}
}

// IsTerminator reports whether this instruction is a valid basic-block
// terminator (ret, jump, or branch).
func (i *Inst) IsTerminator() bool {
	switch i.op {
	case OpRet, OpJump, OpBranch:
		return true
	default:
		return false
	}
}

func wrongKind(want Opcode, i *Inst) {
	panic("ir: instruction kind mismatch: wanted " + want.String() + ", got " + i.op.String())
}

// Arith returns the arith payload. Panics if Op() != OpArith.
func (i *Inst) Arith() *ArithData {
	if i.op != OpArith {
		wrongKind(OpArith, i)
	}
	return i.data.(*ArithData)
}

// Cmp returns the cmp payload. Panics if Op() != OpCmp.
func (i *Inst) Cmp() *CmpData {
	if i.op != OpCmp {
		wrongKind(OpCmp, i)
	}
	return i.data.(*CmpData)
}

// Phi returns the phi payload. Panics if Op() != OpPhi.
func (i *Inst) Phi() *PhiData {
	if i.op != OpPhi {
		wrongKind(OpPhi, i)
	}
	return i.data.(*PhiData)
}

// Copy returns the copy payload. Panics if Op() != OpCopy.
func (i *Inst) Copy() *CopyData {
	if i.op != OpCopy {
		wrongKind(OpCopy, i)
	}
	return i.data.(*CopyData)
}

// Alloc returns the alloc payload. Panics if Op() != OpAlloc.
func (i *Inst) Alloc() *AllocData {
	if i.op != OpAlloc {
		wrongKind(OpAlloc, i)
	}
	return i.data.(*AllocData)
}

// AddrOf returns the addrof payload. Panics if Op() != OpAddrOf.
func (i *Inst) AddrOf() *AddrOfData {
	if i.op != OpAddrOf {
		wrongKind(OpAddrOf, i)
	}
	return i.data.(*AddrOfData)
}

// Load returns the load payload. Panics if Op() != OpLoad.
func (i *Inst) Load() *LoadData {
	if i.op != OpLoad {
		wrongKind(OpLoad, i)
	}
	return i.data.(*LoadData)
}

// Store returns the store payload. Panics if Op() != OpStore.
func (i *Inst) Store() *StoreData {
	if i.op != OpStore {
		wrongKind(OpStore, i)
	}
	return i.data.(*StoreData)
}

// Gep returns the gep payload. Panics if Op() != OpGep.
func (i *Inst) Gep() *GepData {
	if i.op != OpGep {
		wrongKind(OpGep, i)
	}
	return i.data.(*GepData)
}

// Select returns the select payload. Panics if Op() != OpSelect.
func (i *Inst) Select() *SelectData {
	if i.op != OpSelect {
		wrongKind(OpSelect, i)
	}
	return i.data.(*SelectData)
}

// Call returns the call payload. Panics if Op() != OpCall.
func (i *Inst) Call() *CallData {
	if i.op != OpCall {
		wrongKind(OpCall, i)
	}
	return i.data.(*CallData)
}

// ICall returns the icall payload. Panics if Op() != OpICall.
func (i *Inst) ICall() *ICallData {
	if i.op != OpICall {
		wrongKind(OpICall, i)
	}
	return i.data.(*ICallData)
}

// Ret returns the ret payload. Panics if Op() != OpRet.
func (i *Inst) Ret() *RetData {
	if i.op != OpRet {
		wrongKind(OpRet, i)
	}
	return i.data.(*RetData)
}

// Jump returns the jump payload. Panics if Op() != OpJump.
func (i *Inst) Jump() *JumpData {
	if i.op != OpJump {
		wrongKind(OpJump, i)
	}
	return i.data.(*JumpData)
}

// Branch returns the branch payload. Panics if Op() != OpBranch.
func (i *Inst) Branch() *BranchData {
	if i.op != OpBranch {
		wrongKind(OpBranch, i)
	}
	return i.data.(*BranchData)
}

// Lhs returns the variable this instruction assigns, or nil for
// non-assigning instructions (store, ret, jump, branch).
func (i *Inst) Lhs() *Variable {
	switch i.op {
	case OpArith:
		return i.data.(*ArithData).Lhs
	case OpCmp:
		return i.data.(*CmpData).Lhs
	case OpPhi:
		return i.data.(*PhiData).Lhs
	case OpCopy:
		return i.data.(*CopyData).Lhs
	case OpAlloc:
		return i.data.(*AllocData).Lhs
	case OpAddrOf:
		return i.data.(*AddrOfData).Lhs
	case OpLoad:
		return i.data.(*LoadData).Lhs
	case OpGep:
		return i.data.(*GepData).Lhs
	case OpSelect:
		return i.data.(*SelectData).Lhs
	case OpCall:
		return i.data.(*CallData).Lhs
	case OpICall:
		return i.data.(*ICallData).Lhs
	default:
		return nil
	}
}

// Operands returns every operand (variable-or-constant) directly used by
// this instruction, in the fixed order given by the kind's fields. lhs is
// not an operand.
func (i *Inst) Operands() []Operand {
	switch d := i.data.(type) {
	case *ArithData:
		return []Operand{d.Op1, d.Op2}
	case *CmpData:
		return []Operand{d.Op1, d.Op2}
	case *PhiData:
		return append([]Operand(nil), d.Ops...)
	case *CopyData:
		return []Operand{d.Rhs}
	case *AllocData:
		return nil
	case *AddrOfData:
		return []Operand{VarOperand(d.Rhs)}
	case *LoadData:
		return []Operand{VarOperand(d.Src)}
	case *StoreData:
		return []Operand{VarOperand(d.Dst), d.Value}
	case *GepData:
		return []Operand{VarOperand(d.SrcPtr), d.Index}
	case *SelectData:
		return []Operand{d.Cond, d.TrueOp, d.FalseOp}
	case *CallData:
		return append([]Operand(nil), d.Args...)
	case *ICallData:
		ops := append([]Operand{VarOperand(d.FuncPtr)}, d.Args...)
		return ops
	case *RetData:
		return []Operand{d.RetVal}
	case *JumpData:
		return nil
	case *BranchData:
		return []Operand{d.Cond}
	default:
		return nil
	}
}

// Reads returns every distinct variable this instruction reads (its
// operands' variables, excluding lhs), in first-seen order. This is the
// building block for scenario-S1-style "instruction to variables it reads"
// analyses.
func (i *Inst) Reads() []*Variable {
	var out []*Variable
	seen := map[*Variable]bool{}
	add := func(v *Variable) {
		if v == nil || seen[v] {
			return
		}
		seen[v] = true
		out = append(out, v)
	}
	for _, o := range i.Operands() {
		if o.IsVar() {
			add(o.Var)
		}
	}
	return out
}

// TlogAppend gives the assigning-instruction kinds most likely to appear in
// diagnostics (phi, cmp, gep) a compact structured-log encoding instead of
// falling back to %v's default struct dump.
func (d *PhiData) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder
	b = e.AppendMap(b, 2)
	b = e.AppendKeyString(b, "lhs", d.Lhs.String())
	b = e.AppendKeyInt(b, "nops", len(d.Ops))
	return b
}

func (d *CmpData) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder
	b = e.AppendMap(b, 2)
	b = e.AppendKeyString(b, "lhs", d.Lhs.String())
	b = e.AppendKeyString(b, "rop", d.Rop.String())
	return b
}

func (d *GepData) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder
	n := 2
	if d.Field != "" {
		n = 3
	}
	b = e.AppendMap(b, n)
	b = e.AppendKeyString(b, "lhs", d.Lhs.String())
	b = e.AppendKeyString(b, "src_ptr", d.SrcPtr.String())
	if d.Field != "" {
		b = e.AppendKeyString(b, "field", d.Field)
	}
	return b
}
