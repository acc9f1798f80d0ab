// Package zcstring implements a half-open [begin,end) window into a
// borrowed byte buffer, the building block the tokenizer and the cached
// access handle's path/function/subscript splitting are built on
// (spec.md §2 component C). Go string slicing is already allocation-free,
// so String does not copy the buffer — the type exists to carry the
// begin/end offsets for line/column diagnostics and to provide the
// splitting and comparison operations the rest of the runtime expects.
package zcstring

import "strings"

// ZCString is a window [Begin,End) into Buf.
type ZCString struct {
	Buf        string
	Begin, End int
}

// New wraps the whole of buf in a ZCString.
func New(buf string) ZCString {
	return ZCString{Buf: buf, Begin: 0, End: len(buf)}
}

// Slice returns a window into buf from begin to end.
func Slice(buf string, begin, end int) ZCString {
	return ZCString{Buf: buf, Begin: begin, End: end}
}

// Len returns the window length.
func (z ZCString) Len() int { return z.End - z.Begin }

// Empty reports whether the window is empty.
func (z ZCString) Empty() bool { return z.End <= z.Begin }

// String materialises the window's contents.
func (z ZCString) String() string {
	if z.Empty() {
		return ""
	}
	return z.Buf[z.Begin:z.End]
}

// At returns the byte at offset i within the window.
func (z ZCString) At(i int) byte { return z.Buf[z.Begin+i] }

// FindChar returns the offset (within the window, 0-based) of the first
// occurrence of c, or -1 if not found.
func (z ZCString) FindChar(c byte) int {
	idx := strings.IndexByte(z.String(), c)
	return idx
}

// SplitOffHead splits the window at the first occurrence of delim: it
// returns the portion before delim as a new ZCString and mutates the
// receiver's Begin to point past the delimiter. If delim is not present,
// the whole window is returned and the receiver becomes empty.
func (z *ZCString) SplitOffHead(delim byte) ZCString {
	idx := z.FindChar(delim)
	if idx < 0 {
		head := ZCString{Buf: z.Buf, Begin: z.Begin, End: z.End}
		z.Begin = z.End
		return head
	}
	head := ZCString{Buf: z.Buf, Begin: z.Begin, End: z.Begin + idx}
	z.Begin = z.Begin + idx + 1
	return head
}

// CountChar counts occurrences of c within the window.
func (z ZCString) CountChar(c byte) int {
	return strings.Count(z.String(), string(c))
}

// EqualsIC reports whether z equals s under ASCII case-insensitive compare.
func (z ZCString) EqualsIC(s string) bool {
	return strings.EqualFold(z.String(), s)
}

// Equals reports whether z equals s byte-for-byte.
func (z ZCString) Equals(s string) bool {
	return z.String() == s
}

// TrimSpace narrows the window to exclude leading/trailing ASCII whitespace.
func (z ZCString) TrimSpace() ZCString {
	s := z.Buf
	b, e := z.Begin, z.End
	for b < e && isSpace(s[b]) {
		b++
	}
	for e > b && isSpace(s[e-1]) {
		e--
	}
	return ZCString{Buf: s, Begin: b, End: e}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
