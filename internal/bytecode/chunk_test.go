package bytecode

import (
	"encoding/binary"
	"testing"

	"slate/internal/value"
)

func TestBuilderEmitOperandLittleEndian(t *testing.T) {
	b := NewBuilder()
	pos := b.EmitOperand(OpPushConstant, 0x1234)
	fn := b.Finish("test", nil, 0, nil, nil)
	if fn.Code[0] != byte(OpPushConstant) {
		t.Fatalf("expected opcode byte at offset 0")
	}
	got := binary.LittleEndian.Uint16(fn.Code[pos:])
	if got != 0x1234 {
		t.Fatalf("expected little-endian operand 0x1234, got 0x%x", got)
	}
}

func TestBuilderPatchJumpHere(t *testing.T) {
	b := NewBuilder()
	jumpPos := b.EmitOperand(OpJumpIfFalse, 0)
	b.Emit(OpPushTrue)
	b.Emit(OpPop)
	b.PatchJumpHere(jumpPos)
	fn := b.Finish("test", nil, 0, nil, nil)
	off := int16(binary.LittleEndian.Uint16(fn.Code[jumpPos:]))
	// The jump should land exactly at the end of the emitted code: offset
	// is measured from the byte after the 2-byte operand.
	if int(jumpPos)+2+int(off) != len(fn.Code) {
		t.Fatalf("expected patched jump to land at end of code, off=%d len=%d", off, len(fn.Code))
	}
}

func TestBuilderEmitLoopRewindsToTarget(t *testing.T) {
	b := NewBuilder()
	target := b.Offset()
	b.Emit(OpPushTrue)
	b.Emit(OpPop)
	b.EmitLoop(target)
	fn := b.Finish("test", nil, 0, nil, nil)
	// LOOP's operand is positive and subtracted from ip at the byte after
	// the operand (spec §6.1).
	loopOpPos := len(fn.Code) - 2
	off := binary.LittleEndian.Uint16(fn.Code[loopOpPos:])
	if len(fn.Code)-int(off) != target {
		t.Fatalf("expected loop to rewind to target %d, got %d", target, len(fn.Code)-int(off))
	}
}

func TestBuilderAddConstantReturnsStableIndices(t *testing.T) {
	b := NewBuilder()
	i0 := b.AddConstant(value.Int32(1))
	i1 := b.AddConstant(value.Int32(2))
	if i0 != 0 || i1 != 1 {
		t.Fatalf("expected sequential constant indices 0,1, got %d,%d", i0, i1)
	}
	fn := b.Finish("test", nil, 0, nil, nil)
	if len(fn.Constants) != 2 {
		t.Fatalf("expected 2 constants, got %d", len(fn.Constants))
	}
}

func TestOpCodeHasOperand(t *testing.T) {
	withOperand := []OpCode{OpPushConstant, OpGetLocal, OpJump, OpCall, OpBuildArray}
	for _, op := range withOperand {
		if !op.HasOperand() {
			t.Errorf("expected %s to have an operand", op)
		}
	}
	withoutOperand := []OpCode{OpPop, OpDup, OpAdd, OpReturn, OpHalt}
	for _, op := range withoutOperand {
		if op.HasOperand() {
			t.Errorf("expected %s not to have an operand", op)
		}
	}
}

func TestOpCodeStringIsHumanReadable(t *testing.T) {
	if OpAdd.String() != "ADD" {
		t.Fatalf("expected ADD, got %s", OpAdd.String())
	}
	if OpCode(255).String() != "UNKNOWN" {
		t.Fatalf("expected UNKNOWN for an unassigned opcode")
	}
}
