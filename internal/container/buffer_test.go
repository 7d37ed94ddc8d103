package container

import "testing"

func TestBufferBuilderRoundTrip(t *testing.T) {
	b := NewBufferBuilder()
	b.WriteU8(0xFF)
	b.WriteU16LE(0x1234)
	b.WriteU32BE(0xDEADBEEF)
	buf := b.Finalize()

	r := NewBufferReader(buf)
	u8, err := r.ReadU8()
	if err != nil || u8 != 0xFF {
		t.Fatalf("expected 0xFF, got %x err=%v", u8, err)
	}
	u16, err := r.ReadU16LE()
	if err != nil || u16 != 0x1234 {
		t.Fatalf("expected 0x1234, got %x err=%v", u16, err)
	}
	u32, err := buf.ReadU32BE(r.Position())
	if err != nil || u32 != 0xDEADBEEF {
		t.Fatalf("expected 0xDEADBEEF, got %x err=%v", u32, err)
	}
}

func TestBufferSliceConcatHex(t *testing.T) {
	a := NewBuffer([]byte{0x01, 0x02, 0x03, 0x04})
	mid := a.Slice(1, 3)
	if mid.Hex() != "0203" {
		t.Fatalf("expected hex 0203, got %s", mid.Hex())
	}
	joined := a.Concat(NewBuffer([]byte{0xAA}))
	if joined.Len() != 5 {
		t.Fatalf("expected concatenated length 5, got %d", joined.Len())
	}
	if joined.Hex() != "01020304aa" {
		t.Fatalf("unexpected concat result: %s", joined.Hex())
	}
}

func TestBufferReaderOutOfRangeErrors(t *testing.T) {
	b := NewBuffer([]byte{0x01})
	r := NewBufferReader(b)
	if _, err := r.ReadU32LE(); err == nil {
		t.Fatal("expected out-of-range read to error")
	}
}

func TestBufferFloatRoundTrip(t *testing.T) {
	b := NewBufferBuilder()
	b.WriteF64LE(3.25)
	buf := b.Finalize()
	got, err := buf.ReadF64LE(0)
	if err != nil || got != 3.25 {
		t.Fatalf("expected 3.25, got %v err=%v", got, err)
	}
}
