package container

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

// Buffer is an immutable, reference-counted byte sequence (spec §3.1,
// §4.1). BufferBuilder accumulates bytes and finalizes into a Buffer;
// BufferReader walks a Buffer with a cursor, decoding fixed-width values.
type Buffer struct {
	refcount
	data []byte
}

func NewBuffer(data []byte) *Buffer {
	return &Buffer{refcount: newRefcount(), data: data}
}

func (b *Buffer) Retain() *Buffer { b.retain(); return b }
func (b *Buffer) Release()        { b.release() }

func (b *Buffer) Len() int        { return len(b.data) }
func (b *Buffer) Bytes() []byte   { return b.data }

func (b *Buffer) Slice(start, end int) *Buffer {
	if start < 0 || end > len(b.data) || start > end {
		panic("container: buffer slice out of range")
	}
	out := make([]byte, end-start)
	copy(out, b.data[start:end])
	return NewBuffer(out)
}

func (b *Buffer) Concat(other *Buffer) *Buffer {
	out := make([]byte, 0, len(b.data)+len(other.data))
	out = append(out, b.data...)
	out = append(out, other.data...)
	return NewBuffer(out)
}

func (b *Buffer) Hex() string {
	return hex.EncodeToString(b.data)
}

func bufferRead(data []byte, offset, width int) ([]byte, error) {
	if offset < 0 || offset+width > len(data) {
		return nil, fmt.Errorf("buffer read out of range: offset %d width %d len %d", offset, width, len(data))
	}
	return data[offset : offset+width], nil
}

func (b *Buffer) ReadU8(offset int) (uint8, error) {
	s, err := bufferRead(b.data, offset, 1)
	if err != nil {
		return 0, err
	}
	return s[0], nil
}

func (b *Buffer) ReadU16LE(offset int) (uint16, error) {
	s, err := bufferRead(b.data, offset, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(s), nil
}

func (b *Buffer) ReadU16BE(offset int) (uint16, error) {
	s, err := bufferRead(b.data, offset, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(s), nil
}

func (b *Buffer) ReadU32LE(offset int) (uint32, error) {
	s, err := bufferRead(b.data, offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(s), nil
}

func (b *Buffer) ReadU32BE(offset int) (uint32, error) {
	s, err := bufferRead(b.data, offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(s), nil
}

func (b *Buffer) ReadU64LE(offset int) (uint64, error) {
	s, err := bufferRead(b.data, offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(s), nil
}

func (b *Buffer) ReadU64BE(offset int) (uint64, error) {
	s, err := bufferRead(b.data, offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(s), nil
}

func (b *Buffer) ReadF32LE(offset int) (float32, error) {
	v, err := b.ReadU32LE(offset)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (b *Buffer) ReadF64LE(offset int) (float64, error) {
	v, err := b.ReadU64LE(offset)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// BufferBuilder accumulates encoded bytes; Finalize snapshots them as an
// immutable Buffer.
type BufferBuilder struct {
	refcount
	buf []byte
}

func NewBufferBuilder() *BufferBuilder {
	return &BufferBuilder{refcount: newRefcount()}
}

func (b *BufferBuilder) Retain() *BufferBuilder { b.retain(); return b }
func (b *BufferBuilder) Release()               { b.release() }

func (b *BufferBuilder) Len() int { return len(b.buf) }

func (b *BufferBuilder) WriteU8(v uint8) { b.buf = append(b.buf, v) }

func (b *BufferBuilder) WriteU16LE(v uint16) {
	b.buf = binary.LittleEndian.AppendUint16(b.buf, v)
}

func (b *BufferBuilder) WriteU16BE(v uint16) {
	b.buf = binary.BigEndian.AppendUint16(b.buf, v)
}

func (b *BufferBuilder) WriteU32LE(v uint32) {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, v)
}

func (b *BufferBuilder) WriteU32BE(v uint32) {
	b.buf = binary.BigEndian.AppendUint32(b.buf, v)
}

func (b *BufferBuilder) WriteU64LE(v uint64) {
	b.buf = binary.LittleEndian.AppendUint64(b.buf, v)
}

func (b *BufferBuilder) WriteU64BE(v uint64) {
	b.buf = binary.BigEndian.AppendUint64(b.buf, v)
}

func (b *BufferBuilder) WriteF32LE(v float32) {
	b.WriteU32LE(math.Float32bits(v))
}

func (b *BufferBuilder) WriteF64LE(v float64) {
	b.WriteU64LE(math.Float64bits(v))
}

func (b *BufferBuilder) WriteBytes(p []byte) {
	b.buf = append(b.buf, p...)
}

func (b *BufferBuilder) Finalize() *Buffer {
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	return NewBuffer(out)
}

// BufferReader is a cursor over a retained Buffer, advancing its position
// as fixed-width values are decoded (the `buffer_reader` value kind of
// spec §3.1).
type BufferReader struct {
	refcount
	src *Buffer
	pos int
}

func NewBufferReader(src *Buffer) *BufferReader {
	return &BufferReader{refcount: newRefcount(), src: src.Retain()}
}

func (r *BufferReader) Retain() *BufferReader { r.retain(); return r }

func (r *BufferReader) Release() {
	if r.release() {
		r.src.Release()
	}
}

func (r *BufferReader) Position() int   { return r.pos }
func (r *BufferReader) Remaining() int  { return r.src.Len() - r.pos }

func (r *BufferReader) ReadU8() (uint8, error) {
	v, err := r.src.ReadU8(r.pos)
	if err == nil {
		r.pos++
	}
	return v, err
}

func (r *BufferReader) ReadU16LE() (uint16, error) {
	v, err := r.src.ReadU16LE(r.pos)
	if err == nil {
		r.pos += 2
	}
	return v, err
}

func (r *BufferReader) ReadU32LE() (uint32, error) {
	v, err := r.src.ReadU32LE(r.pos)
	if err == nil {
		r.pos += 4
	}
	return v, err
}

func (r *BufferReader) ReadU64LE() (uint64, error) {
	v, err := r.src.ReadU64LE(r.pos)
	if err == nil {
		r.pos += 8
	}
	return v, err
}
