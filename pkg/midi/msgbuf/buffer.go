// Package msgbuf implements the message buffer and selector encoding:
// an append-only byte arena addressed by 24-bit offsets packed into a
// 32-bit selector alongside the status byte.
package msgbuf

import "github.com/zurustar/fillymidi/pkg/midi/midierr"

// MaxLen is the 24-bit offset ceiling.
const MaxLen = 0x00FFFFFF

// Buffer is the append-only message tail arena. The zero value is
// ready to use. Go's slice append already grows geometrically; Buffer
// only needs to enforce the hard capacity ceiling on top of that.
type Buffer struct {
	data []byte
}

// Len reports the current buffer length.
func (b *Buffer) Len() int { return len(b.data) }

// Bytes exposes the buffer contents for read-only tail decoding.
func (b *Buffer) Bytes() []byte { return b.data }

// append writes tail to the end of the buffer and returns its
// pre-append length as the new tail offset.
func (b *Buffer) append(tail []byte) (uint32, error) {
	if len(b.data)+len(tail) > MaxLen {
		return 0, midierr.NewCapacityError("msgbuf: buffer would exceed %d bytes", MaxLen)
	}
	offset := uint32(len(b.data))
	b.data = append(b.data, tail...)
	return offset, nil
}
