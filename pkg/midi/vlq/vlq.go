// Package vlq implements the MIDI variable-length quantity codec:
// 1-4 big-endian 7-bit groups, continuation bit set on every byte but
// the last.
package vlq

import "github.com/zurustar/fillymidi/pkg/midi/midierr"

// Max is the largest value representable in four VLQ bytes.
const Max uint32 = 0x0FFFFFFF

// Size returns the number of bytes Encode would produce for v.
func Size(v uint32) (int, error) {
	switch {
	case v > Max:
		return 0, midierr.NewSemanticError("vlq: value %d exceeds maximum %d", v, Max)
	case v < 0x80:
		return 1, nil
	case v < 0x4000:
		return 2, nil
	case v < 0x200000:
		return 3, nil
	default:
		return 4, nil
	}
}

// Encode returns the VLQ byte sequence for v.
func Encode(v uint32) ([]byte, error) {
	n, err := Size(v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	val := v
	for i := n - 1; i >= 0; i-- {
		b := byte(val & 0x7F)
		if i != n-1 {
			b |= 0x80
		}
		out[i] = b
		val >>= 7
	}
	return out, nil
}

// Decode reads a VLQ from the start of b, returning the decoded value
// and the number of bytes consumed. It fails if b is exhausted before
// a terminator byte (high bit clear) appears, or if none of the first
// four bytes is a terminator (a VLQ is at most four bytes long).
func Decode(b []byte) (uint32, int, error) {
	var v uint32
	limit := len(b)
	if limit > 4 {
		limit = 4
	}
	for i := 0; i < limit; i++ {
		c := b[i]
		v = (v << 7) | uint32(c&0x7F)
		if c&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	if len(b) < 4 {
		return 0, 0, midierr.NewSemanticError("vlq: input exhausted before terminator byte")
	}
	return 0, 0, midierr.NewSemanticError("vlq: no terminator byte within the first four bytes")
}
