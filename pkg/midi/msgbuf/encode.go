package msgbuf

import (
	"github.com/zurustar/fillymidi/pkg/midi/handle"
	"github.com/zurustar/fillymidi/pkg/midi/midierr"
	"github.com/zurustar/fillymidi/pkg/midi/vlq"
)

// EncodeTail returns the on-wire tail bytes (everything after the
// status byte) for sel, resolving any handle indirection. The result
// is identical whether it is consumed by the compiler's size pass or
// its emit pass, which is what guarantees the two passes agree on
// length.
func EncodeTail(buf *Buffer, handles *handle.Table, sel Selector) ([]byte, error) {
	status := sel.Status()
	off := sel.Offset()
	data := buf.Bytes()

	switch {
	case (status >= 0x80 && status <= 0xBF) || (status >= 0xE0 && status <= 0xEF):
		if int(off)+2 > len(data) {
			return nil, midierr.NewSemanticError("msgbuf: corrupt buffer offset %#x for status %#x", off, status)
		}
		return append([]byte(nil), data[off:off+2]...), nil

	case status >= 0xC0 && status <= 0xDF:
		if int(off)+1 > len(data) {
			return nil, midierr.NewSemanticError("msgbuf: corrupt buffer offset %#x for status %#x", off, status)
		}
		return append([]byte(nil), data[off:off+1]...), nil

	case status == 0xF0 || status == 0xF7:
		if int(off) > len(data) {
			return nil, midierr.NewSemanticError("msgbuf: corrupt buffer offset %#x for status %#x", off, status)
		}
		idx, n, err := vlq.Decode(data[off:])
		if err != nil {
			return nil, err
		}
		entry, err := handles.Get(int(idx))
		if err != nil {
			return nil, err
		}
		_ = n
		blobBytes := entry.Bytes()
		if status == 0xF0 {
			if len(blobBytes) == 0 || blobBytes[0] != 0xF0 {
				return nil, midierr.NewSemanticError("msgbuf: 0xF0 system message payload lost its leading 0xF0")
			}
			payload := blobBytes[1:]
			lenBytes, err := vlq.Encode(uint32(len(payload)))
			if err != nil {
				return nil, err
			}
			out := make([]byte, 0, len(lenBytes)+len(payload))
			out = append(out, lenBytes...)
			out = append(out, payload...)
			return out, nil
		}
		lenBytes, err := vlq.Encode(uint32(len(blobBytes)))
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, len(lenBytes)+len(blobBytes))
		out = append(out, lenBytes...)
		out = append(out, blobBytes...)
		return out, nil

	case status == 0xFF:
		if int(off)+1 > len(data) {
			return nil, midierr.NewSemanticError("msgbuf: corrupt buffer offset %#x for status 0xFF", off)
		}
		typ := data[off]
		if typ&0x80 == 0 {
			rest := data[off+1:]
			length, n, err := vlq.Decode(rest)
			if err != nil {
				return nil, err
			}
			total := 1 + n + int(length)
			if int(off)+total > len(data) {
				return nil, midierr.NewSemanticError("msgbuf: direct meta payload runs past buffer end")
			}
			return append([]byte(nil), data[int(off):int(off)+total]...), nil
		}
		idx, _, err := vlq.Decode(data[off+1:])
		if err != nil {
			return nil, err
		}
		entry, err := handles.Get(int(idx))
		if err != nil {
			return nil, err
		}
		payload := entry.Bytes()
		clearedType := typ &^ 0x80
		lenBytes, err := vlq.Encode(uint32(len(payload)))
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, 1+len(lenBytes)+len(payload))
		out = append(out, clearedType)
		out = append(out, lenBytes...)
		out = append(out, payload...)
		return out, nil

	default:
		return nil, midierr.NewSemanticError("msgbuf: unknown status byte %#x", status)
	}
}

// NextRunningStatus applies the running-status state machine: given
// the previously emitted status byte and the status byte of the
// message about to be emitted, reports whether the status byte may be
// suppressed and what the new running-status state is.
func NextRunningStatus(prevStatus byte, status byte) (suppress bool, next byte) {
	if prevStatus >= 0x80 && prevStatus <= 0xEF && prevStatus == status {
		suppress = true
	}
	if status >= 0x80 && status <= 0xEF {
		next = status
	} else {
		next = 0
	}
	return suppress, next
}
