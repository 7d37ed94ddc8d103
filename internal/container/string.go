package container

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// String is an immutable, reference-counted, UTF-8 byte sequence. Embedded
// NULs are rejected at construction per spec §3.1.
type String struct {
	refcount
	data string
	hash uint64
}

// NewString allocates a fresh String with an initial strong count of one.
// It panics if data contains an embedded NUL byte, mirroring the
// construction-time invariant spec §3.1 requires rather than deferring the
// check to first use.
func NewString(data string) *String {
	if strings.IndexByte(data, 0) >= 0 {
		panic("container: string contains embedded NUL")
	}
	return &String{refcount: newRefcount(), data: data, hash: fnv1a(data)}
}

// Retain returns s with its strong count incremented.
func (s *String) Retain() *String {
	s.retain()
	return s
}

// Release drops one strong reference. The payload has no children to
// recursively release (spec §3.1: primitive string bytes only).
func (s *String) Release() {
	s.release()
}

func (s *String) Value() string  { return s.data }
func (s *String) Hash() uint64   { return s.hash }
func (s *String) LenBytes() int  { return len(s.data) }

// LenCodepoints counts UTF-8 codepoints, always <= LenBytes (spec
// testable property 5).
func (s *String) LenCodepoints() int {
	return utf8.RuneCountInString(s.data)
}

func (s *String) IsEmpty() bool { return len(s.data) == 0 }

func (s *String) Append(other *String) *String {
	return NewString(s.data + other.data)
}

// Slice returns the codepoint range [startRune, endRune) as a new String.
func (s *String) Slice(startRune, endRune int) *String {
	runes := []rune(s.data)
	if startRune < 0 || endRune > len(runes) || startRune > endRune {
		panic("container: string slice out of range")
	}
	return NewString(string(runes[startRune:endRune]))
}

// Find returns the byte offset of the first occurrence of sub, or -1.
func (s *String) Find(sub string) int {
	return strings.Index(s.data, sub)
}

func (s *String) Replace(old, new string) *String {
	return NewString(strings.ReplaceAll(s.data, old, new))
}

func (s *String) Upper() *String { return NewString(strings.ToUpper(s.data)) }
func (s *String) Lower() *String { return NewString(strings.ToLower(s.data)) }

// Codepoints returns the decoded rune sequence, used by codepoint
// iterators (spec §4.5's "for strings, returns a new single-codepoint
// string" index semantics and the string iterator of §4.5's iteration
// protocol).
func (s *String) Codepoints() []rune {
	return []rune(s.data)
}

func (s *String) Equal(other *String) bool {
	return s.data == other.data
}

func (s *String) Compare(other *String) int {
	return strings.Compare(s.data, other.data)
}

// StringBuilder is a mutable, reference-counted UTF-8 buffer. Finalizing a
// builder yields an immutable String (spec §4.1).
type StringBuilder struct {
	refcount
	buf strings.Builder
}

func NewStringBuilder() *StringBuilder {
	return &StringBuilder{refcount: newRefcount()}
}

func (b *StringBuilder) Retain() *StringBuilder {
	b.retain()
	return b
}

func (b *StringBuilder) Release() {
	b.release()
}

func (b *StringBuilder) Append(s string) {
	b.buf.WriteString(s)
}

// AppendFormat appends a fmt.Sprintf-rendered string.
func (b *StringBuilder) AppendFormat(format string, args ...interface{}) {
	fmt.Fprintf(&b.buf, format, args...)
}

// Insert splices s into the builder's current content at codepoint offset
// at. Builders are not expected to be hot-path append-only, so this
// rebuilds the backing buffer rather than maintaining a rope structure.
func (b *StringBuilder) Insert(at int, s string) {
	runes := []rune(b.buf.String())
	if at < 0 || at > len(runes) {
		panic("container: string builder insert out of range")
	}
	var out strings.Builder
	out.WriteString(string(runes[:at]))
	out.WriteString(s)
	out.WriteString(string(runes[at:]))
	b.buf.Reset()
	b.buf.WriteString(out.String())
}

// Delete removes the codepoint range [start, end) from the builder.
func (b *StringBuilder) Delete(start, end int) {
	runes := []rune(b.buf.String())
	if start < 0 || end > len(runes) || start > end {
		panic("container: string builder delete out of range")
	}
	content := string(runes[:start]) + string(runes[end:])
	b.buf.Reset()
	b.buf.WriteString(content)
}

func (b *StringBuilder) Len() int {
	return b.buf.Len()
}

func (b *StringBuilder) String() string {
	return b.buf.String()
}

// Finalize produces an immutable String snapshot of the builder's content.
func (b *StringBuilder) Finalize() *String {
	return NewString(b.buf.String())
}

func fnv1a(s string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}
