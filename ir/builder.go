package ir

// BuilderError is the panic value used for builder misuse: adding a
// parameter outside any function, finalizing with no function started,
// duplicate struct names, and so on. It is a distinct type from
// the ordinary "empty name"/"nil variable" panics raised by the
// constructors the builder calls internally, so FinalizeProgram's recover
// can tell "this program failed to verify" (VerificationError) apart from
// "the builder was used incorrectly" (BuilderError) when reporting back to
// the caller.
type BuilderError struct {
	Message string
}

func (e *BuilderError) Error() string { return e.Message }

func builderFatal(msg string) {
	panic(&BuilderError{Message: msg})
}

// Builder is a stateful, chainable construction API: add struct types,
// start a function, add its parameters, start a basic block, add
// instructions, and finally build the Program. Starting a new function (or
// calling FinalizeProgram) implicitly finalizes whatever basic block and
// function are currently open.
type Builder struct {
	structs map[string]StructType

	funcName string
	funcRet  Type
	params   []*Variable
	inFunc   bool

	blockLabel string
	body       []*Inst
	inBlock    bool

	blocks []*BasicBlock
	funcs  []*Function
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{structs: map[string]StructType{}}
}

// AddStructType registers a named struct type. Fatal on a duplicate name.
func (b *Builder) AddStructType(name string, fields StructType) *Builder {
	if _, dup := b.structs[name]; dup {
		builderFatal("builder: duplicate struct type: " + name)
	}
	b.structs[name] = fields
	return b
}

// StartFunction finalizes any function currently open, then begins a new
// one with the given name and return type.
func (b *Builder) StartFunction(name string, ret Type) *Builder {
	b.finishFunction()
	b.funcName = name
	b.funcRet = ret
	b.inFunc = true
	return b
}

// AddParameter appends v to the current function's parameter list. Fatal
// if no function is currently open.
func (b *Builder) AddParameter(v *Variable) *Builder {
	if !b.inFunc {
		builderFatal("builder: add_parameter outside any function")
	}
	b.params = append(b.params, v)
	return b
}

// StartBasicBlock finalizes any basic block currently open, then begins a
// new one with the given label. Fatal if no function is currently open.
func (b *Builder) StartBasicBlock(label string) *Builder {
	if !b.inFunc {
		builderFatal("builder: start_basic_block outside any function")
	}
	b.finishBlock()
	b.blockLabel = label
	b.inBlock = true
	return b
}

// AddInstruction appends i to the current basic block's body. Fatal if no
// basic block is currently open.
func (b *Builder) AddInstruction(i *Inst) *Builder {
	if !b.inBlock {
		builderFatal("builder: add_instruction outside any basic block")
	}
	b.body = append(b.body, i)
	return b
}

func (b *Builder) finishBlock() {
	if !b.inBlock {
		return
	}
	b.blocks = append(b.blocks, NewBasicBlock(b.blockLabel, b.body))
	b.blockLabel = ""
	b.body = nil
	b.inBlock = false
}

func (b *Builder) finishFunction() {
	b.finishBlock()
	if !b.inFunc {
		return
	}
	b.funcs = append(b.funcs, NewFunction(b.funcName, b.funcRet, b.params, b.blocks))
	b.funcName = ""
	b.params = nil
	b.blocks = nil
	b.inFunc = false
}

// FinalizeProgram finalizes any open block/function and constructs the
// Program, which runs the verifier. Builder misuse and verification
// failure are both reported as an error here rather than a panic, since —
// unlike the rest of the package's constructors — the builder is meant to
// be driven directly by caller code (e.g. an analysis emitting a
// synthesized program) that must not crash on a caller mistake it can
// still report.
func (b *Builder) FinalizeProgram() (p *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *BuilderError, *VerificationError:
				err = e.(error)
			default:
				panic(r)
			}
		}
	}()

	b.finishFunction()

	if len(b.funcs) == 0 {
		builderFatal("builder: finalize_program with no functions")
	}

	return NewProgram(b.structs, b.funcs), nil
}
