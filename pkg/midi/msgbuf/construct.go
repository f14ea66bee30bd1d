package msgbuf

import (
	"github.com/zurustar/fillymidi/pkg/midi/handle"
	"github.com/zurustar/fillymidi/pkg/midi/midierr"
	"github.com/zurustar/fillymidi/pkg/midi/vlq"
)

// AddOne writes a one-data-byte tail: status in 0xC0-0xDF, b in
// 0-127.
func AddOne(buf *Buffer, status byte, b byte) (Selector, error) {
	if status < 0xC0 || status > 0xDF {
		return 0, midierr.NewArgRangeError("msgbuf: add_one status %#x out of range 0xC0-0xDF", status)
	}
	if b > 0x7F {
		return 0, midierr.NewArgRangeError("msgbuf: add_one data byte %#x exceeds 0x7F", b)
	}
	off, err := buf.append([]byte{b})
	if err != nil {
		return 0, err
	}
	return makeSelector(status, off), nil
}

// AddTwo writes a two-data-byte tail: status in 0x80-0xBF or
// 0xE0-0xEF, b1 and b2 each 0-127.
func AddTwo(buf *Buffer, status, b1, b2 byte) (Selector, error) {
	inLow := status >= 0x80 && status <= 0xBF
	inHigh := status >= 0xE0 && status <= 0xEF
	if !inLow && !inHigh {
		return 0, midierr.NewArgRangeError("msgbuf: add_two status %#x out of range", status)
	}
	if b1 > 0x7F || b2 > 0x7F {
		return 0, midierr.NewArgRangeError("msgbuf: add_two data bytes %#x,%#x exceed 0x7F", b1, b2)
	}
	off, err := buf.append([]byte{b1, b2})
	if err != nil {
		return 0, err
	}
	return makeSelector(status, off), nil
}

// AddBlobMsg writes VLQ(handle_index) for a system-exclusive or
// system-common blob message (status 0xF0 or 0xF7). For 0xF0 the
// blob must be non-empty and begin with 0xF0.
func AddBlobMsg(buf *Buffer, handles *handle.Table, status byte, blob handle.Blob) (Selector, error) {
	if status != 0xF0 && status != 0xF7 {
		return 0, midierr.NewArgRangeError("msgbuf: add_blob_msg status %#x must be 0xF0 or 0xF7", status)
	}
	if status == 0xF0 {
		if blob == nil || blob.Len() == 0 || blob.Bytes()[0] != 0xF0 {
			return 0, midierr.NewSemanticError("msgbuf: 0xF0 system message must be non-empty and begin with 0xF0")
		}
	}
	idx, err := handles.AddBlob(blob)
	if err != nil {
		return 0, err
	}
	tail, err := vlq.Encode(uint32(idx))
	if err != nil {
		return 0, err
	}
	off, err := buf.append(tail)
	if err != nil {
		return 0, err
	}
	return makeSelector(status, off), nil
}

// AddMetaBlob writes an indirect meta-event tail referencing a blob
// payload: [type|0x80] VLQ(handle_index).
func AddMetaBlob(buf *Buffer, handles *handle.Table, typ byte, blob handle.Blob) (Selector, error) {
	if typ > 0x7F {
		return 0, midierr.NewArgRangeError("msgbuf: meta type %#x exceeds 0x7F", typ)
	}
	idx, err := handles.AddBlob(blob)
	if err != nil {
		return 0, err
	}
	idxBytes, err := vlq.Encode(uint32(idx))
	if err != nil {
		return 0, err
	}
	tail := make([]byte, 0, 1+len(idxBytes))
	tail = append(tail, typ|0x80)
	tail = append(tail, idxBytes...)
	off, err := buf.append(tail)
	if err != nil {
		return 0, err
	}
	return makeSelector(0xFF, off), nil
}

// AddMetaText writes an indirect meta-event tail referencing a text
// payload: [type|0x80] VLQ(handle_index).
func AddMetaText(buf *Buffer, handles *handle.Table, typ byte, text handle.Text) (Selector, error) {
	if typ > 0x7F {
		return 0, midierr.NewArgRangeError("msgbuf: meta type %#x exceeds 0x7F", typ)
	}
	idx, err := handles.AddText(text)
	if err != nil {
		return 0, err
	}
	idxBytes, err := vlq.Encode(uint32(idx))
	if err != nil {
		return 0, err
	}
	tail := make([]byte, 0, 1+len(idxBytes))
	tail = append(tail, typ|0x80)
	tail = append(tail, idxBytes...)
	off, err := buf.append(tail)
	if err != nil {
		return 0, err
	}
	return makeSelector(0xFF, off), nil
}

// AddMetaData writes a direct meta-event tail with the payload
// inlined: [type] VLQ(len) bytes.
func AddMetaData(buf *Buffer, typ byte, data []byte) (Selector, error) {
	if typ > 0x7F {
		return 0, midierr.NewArgRangeError("msgbuf: meta type %#x exceeds 0x7F", typ)
	}
	if uint32(len(data)) > vlq.Max {
		return 0, midierr.NewCapacityError("msgbuf: meta payload length %d exceeds %d", len(data), vlq.Max)
	}
	lenBytes, err := vlq.Encode(uint32(len(data)))
	if err != nil {
		return 0, err
	}
	tail := make([]byte, 0, 1+len(lenBytes)+len(data))
	tail = append(tail, typ)
	tail = append(tail, lenBytes...)
	tail = append(tail, data...)
	off, err := buf.append(tail)
	if err != nil {
		return 0, err
	}
	return makeSelector(0xFF, off), nil
}
