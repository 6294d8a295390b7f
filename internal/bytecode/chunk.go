package bytecode

import (
	"github.com/ilex-lang/ilex/internal/symbol"
	"github.com/ilex-lang/ilex/internal/value"
)

// DebugInfo records the source position of one instruction. It is
// stored alongside the code; neither the debug dumps nor runtime errors
// read it.
type DebugInfo struct {
	Line, Column int
	File         string
}

// Chunk is the compiled body of one bytecode combinator: its
// instructions, literal constant pool, and parallel debug info.
type Chunk struct {
	Code      []Instruction
	Constants []value.Value
	Debug     []DebugInfo
}

func NewChunk() *Chunk {
	return &Chunk{}
}

func (c *Chunk) Emit(in Instruction, d DebugInfo) int {
	c.Code = append(c.Code, in)
	c.Debug = append(c.Debug, d)
	return len(c.Code) - 1
}

func (c *Chunk) AddConstant(v value.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// PatchTarget overwrites the target pc operand of a jump-family
// instruction already emitted at index ip — used by the compiler to
// back-patch forward jumps once a clause's end is known.
func (c *Chunk) PatchTarget(ip, target int) {
	switch c.Code[ip].Op {
	case OpJump:
		c.Code[ip].A = target
	case OpCaseTag, OpCaseData, OpCaseEq:
		c.Code[ip].C = target
	}
}

// CombinatorSpec is everything the module manager needs to register a
// compiled bytecode combinator under its own symbol id.
type CombinatorSpec struct {
	Symbol    symbol.ID
	Name      string
	NumParams int // declared arity: how many leading registers are bound from args
	NumRegs   int // total register-file size for one invocation
	Chunk     *Chunk
}
