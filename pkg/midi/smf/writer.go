package smf

import (
	"encoding/binary"
	"io"

	"github.com/zurustar/fillymidi/pkg/midi/midierr"
)

// byteWriter is the fallible byte-stream writer used during emit.
// Every sink error is wrapped into a fatal I/O error.
type byteWriter struct {
	w io.Writer
}

func newByteWriter(w io.Writer) *byteWriter {
	return &byteWriter{w: w}
}

func (bw *byteWriter) WriteByte(b byte) error {
	if _, err := bw.w.Write([]byte{b}); err != nil {
		return midierr.NewIOError(err)
	}
	return nil
}

func (bw *byteWriter) WriteBytes(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if _, err := bw.w.Write(p); err != nil {
		return midierr.NewIOError(err)
	}
	return nil
}

func (bw *byteWriter) WriteStr(s string) error {
	return bw.WriteBytes([]byte(s))
}

func (bw *byteWriter) WriteU16BE(v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return bw.WriteBytes(buf[:])
}

func (bw *byteWriter) WriteU32BE(v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return bw.WriteBytes(buf[:])
}
