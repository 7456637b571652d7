package engine

import "fmt"

// Opcode is a bytecode instruction tag (§6, wire-exact).
type Opcode byte

const (
	OpPushValue Opcode = iota
	OpPop
	OpDup
	OpFresh
	OpLoad
	OpStore
	OpConstruct
	OpUnify
	OpMkCheckpoint
	OpJump
	OpCall
	OpDet
	OpDetUntil
	OpFail
	OpRet
	OpHalt
)

var opcodeNames = [...]string{
	OpPushValue:    "push_value",
	OpPop:          "pop",
	OpDup:          "dup",
	OpFresh:        "fresh",
	OpLoad:         "load",
	OpStore:        "store",
	OpConstruct:    "construct",
	OpUnify:        "unify",
	OpMkCheckpoint: "mk_checkpoint",
	OpJump:         "jump",
	OpCall:         "call",
	OpDet:          "det",
	OpDetUntil:     "det_until",
	OpFail:         "fail",
	OpRet:          "ret",
	OpHalt:         "halt",
}

func (op Opcode) String() string {
	if int(op) < 0 || int(op) >= len(opcodeNames) {
		return fmt.Sprintf("op(%d)", op)
	}
	return opcodeNames[op]
}

// Label identifies a MkCheckpoint/Det/DetUntil correlation point. Labels
// are compiler-local fresh integers (§4.3); the VM only ever compares them
// for equality against the label stored in a choice point.
type Label int64

// Instruction is one flat bytecode instruction (§3, §6). Only the fields
// relevant to Op are populated; the rest are zero.
type Instruction struct {
	Op Opcode

	Value Term // PushValue

	Index uint32 // Load, Store

	Functor Atom // Construct
	Arity   uint32

	Label  Label // MkCheckpoint, Det, DetUntil
	Offset int32 // MkCheckpoint, Jump — signed, relative to this instruction

	Sig Signature // Call
}

func (i Instruction) String() string {
	switch i.Op {
	case OpPushValue:
		return fmt.Sprintf("push_value(%s)", i.Value)
	case OpLoad, OpStore:
		return fmt.Sprintf("%s(%d)", i.Op, i.Index)
	case OpConstruct:
		return fmt.Sprintf("construct(%s/%d)", i.Functor, i.Arity)
	case OpMkCheckpoint:
		return fmt.Sprintf("mk_checkpoint(%d, %+d)", i.Label, i.Offset)
	case OpJump:
		return fmt.Sprintf("jump(%+d)", i.Offset)
	case OpCall:
		return fmt.Sprintf("call(%s)", i.Sig)
	case OpDet, OpDetUntil:
		return fmt.Sprintf("%s(%d)", i.Op, i.Label)
	default:
		return i.Op.String()
	}
}

// Program is the compiled output of §4.3: a flat instruction stream per
// predicate signature.
type Program struct {
	Text map[Signature][]Instruction
}

// NewProgram returns an empty Program.
func NewProgram() *Program {
	return &Program{Text: map[Signature][]Instruction{}}
}
