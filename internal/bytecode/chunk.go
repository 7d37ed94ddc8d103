package bytecode

import (
	"encoding/binary"

	"slate/internal/value"
)

// Builder accumulates opcodes, operands, and constants for a single
// function scope, then finalizes into an immutable value.Function. This
// replaces the teacher's Chunk (internal/bytecode/chunk.go), which
// stored constants as bare interface{} and indexed them with
// byte(idx) — truncating any pool past 256 entries. Builder uses 16-bit
// operands throughout, matching spec §6.1's on-disk layout.
type Builder struct {
	code      []byte
	constants []value.Value
	lines     []int // lines[pc] is the source line of the opcode at pc
	curLine   int
}

func NewBuilder() *Builder {
	return &Builder{}
}

// SetLine records the source line subsequent emits should be attributed
// to, mirroring the teacher's WriteOpWithDebug but tracked once per
// emitted instruction instead of threaded through every call site.
func (b *Builder) SetLine(line int) { b.curLine = line }

func (b *Builder) Offset() int { return len(b.code) }

func (b *Builder) Emit(op OpCode) int {
	pos := len(b.code)
	b.code = append(b.code, byte(op))
	b.lines = append(b.lines, b.curLine)
	return pos
}

// EmitOperand emits op followed by a little-endian 16-bit operand and
// returns the offset of the operand bytes (for later patching by jump
// backpatch sites).
func (b *Builder) EmitOperand(op OpCode, operand uint16) int {
	b.code = append(b.code, byte(op))
	b.lines = append(b.lines, b.curLine)
	opPos := len(b.code)
	b.code = append(b.code, 0, 0)
	b.lines = append(b.lines, b.curLine, b.curLine)
	binary.LittleEndian.PutUint16(b.code[opPos:], operand)
	return opPos
}

// PatchOperand overwrites the 16-bit operand at opPos (as returned by
// EmitOperand) — used for forward jump targets unknown at emit time.
func (b *Builder) PatchOperand(opPos int, operand uint16) {
	binary.LittleEndian.PutUint16(b.code[opPos:], operand)
}

// PatchJumpHere patches the jump operand at opPos to land at the
// builder's current offset, the common "patch to here" case for
// JUMP_IF_FALSE/JUMP end labels (spec §4.4's compilation rules).
func (b *Builder) PatchJumpHere(opPos int) {
	offset := len(b.code) - (opPos + 2)
	b.PatchOperand(opPos, uint16(int16(offset)))
}

// EmitLoop emits a LOOP instruction with a positive offset back to
// target (spec §6.1: "LOOP offsets are positive and interpreted as a
// subtraction").
func (b *Builder) EmitLoop(target int) {
	opPos := b.EmitOperand(OpLoop, 0)
	offset := (opPos + 2) - target
	b.PatchOperand(opPos, uint16(offset))
}

func (b *Builder) AddConstant(v value.Value) uint16 {
	b.constants = append(b.constants, v)
	return uint16(len(b.constants) - 1)
}

// Finish produces the immutable Function this Builder has been
// assembling.
func (b *Builder) Finish(name string, params []string, localCount uint16, nested []*value.Function, upvalues []value.UpvalueDesc) *value.Function {
	return &value.Function{
		Name:       name,
		Params:     params,
		LocalCount: localCount,
		Constants:  b.constants,
		Code:       b.code,
		Lines:      b.lines,
		Nested:     nested,
		Upvalues:   upvalues,
	}
}
