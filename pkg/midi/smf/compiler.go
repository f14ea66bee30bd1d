package smf

import (
	"io"
	"math"

	"github.com/zurustar/fillymidi/pkg/midi/handle"
	"github.com/zurustar/fillymidi/pkg/midi/midierr"
	"github.com/zurustar/fillymidi/pkg/midi/msgbuf"
	"github.com/zurustar/fillymidi/pkg/midi/timepack"
	"github.com/zurustar/fillymidi/pkg/midi/vlq"
)

// Compile is the one-shot terminal operation: it sorts the moment
// log, appends an End-of-Track terminator, rebases moment offsets to
// deltas, computes the exact track length, and streams the header and
// track chunks to w. Every insertion method fails after Compile
// returns, whether it succeeded or not.
func (b *Builder) Compile(w io.Writer) error {
	if err := b.checkNotCompiled(); err != nil {
		return err
	}
	b.compiled = true

	if len(b.moments) >= 2 {
		sortMoments(b.moments)
	}

	if err := b.appendTerminator(); err != nil {
		return err
	}

	if err := b.rebaseTimes(); err != nil {
		return err
	}

	total, err := b.trackBodyLength()
	if err != nil {
		return err
	}

	bw := newByteWriter(w)
	if err := writeHeaderChunk(bw); err != nil {
		return err
	}
	if err := b.writeTrackChunk(bw, total); err != nil {
		return err
	}

	b.release()
	return nil
}

func (b *Builder) appendTerminator() error {
	eotSel, err := msgbuf.AddMetaData(&b.buf, 0x2F, nil)
	if err != nil {
		return err
	}
	if b.nextID == math.MaxInt32 {
		return midierr.NewCapacityError("smf: event id counter saturated before terminator")
	}
	b.nextID++
	eotT := timepack.Pack(b.rng.upper, timepack.PhaseEnd)
	b.moments = append(b.moments, momentRecord{eventID: b.nextID, t: eotT, sel: eotSel})
	return nil
}

// rebaseTimes converts each moment's packed offset into a delta from
// the previous event: pass one subtracts lower from the unpacked
// subquantum, pass two subtracts the previous event's pass-one value,
// all in a single forward sweep.
func (b *Builder) rebaseTimes() error {
	lower := b.rng.lower
	var prevAbs int32
	for i := range b.moments {
		subq, _ := timepack.Unpack(b.moments[i].t)
		abs := subq - lower
		var delta int32
		if i == 0 {
			delta = abs
		} else {
			delta = abs - prevAbs
		}
		if delta < 0 || uint32(delta) > vlq.Max {
			return midierr.NewSemanticError("smf: delta time %d out of range [0,%d]", delta, vlq.Max)
		}
		b.moments[i].t = delta
		prevAbs = abs
	}
	return nil
}

func (b *Builder) trackBodyLength() (uint32, error) {
	var total uint64
	var prevStatus byte

	for _, sel := range b.header {
		tail, err := msgbuf.EncodeTail(&b.buf, &b.handles, sel)
		if err != nil {
			return 0, err
		}
		suppress, next := msgbuf.NextRunningStatus(prevStatus, sel.Status())
		prevStatus = next
		n := len(tail) + 1 // VLQ(0) delta is a single zero byte
		if !suppress {
			n++
		}
		total += uint64(n)
		if total > math.MaxUint32 {
			return 0, midierr.NewCapacityError("smf: track length overflow")
		}
	}

	for _, mr := range b.moments {
		tail, err := msgbuf.EncodeTail(&b.buf, &b.handles, mr.sel)
		if err != nil {
			return 0, err
		}
		deltaSize, err := vlq.Size(uint32(mr.t))
		if err != nil {
			return 0, err
		}
		suppress, next := msgbuf.NextRunningStatus(prevStatus, mr.sel.Status())
		prevStatus = next
		n := len(tail) + deltaSize
		if !suppress {
			n++
		}
		total += uint64(n)
		if total > math.MaxUint32 {
			return 0, midierr.NewCapacityError("smf: track length overflow")
		}
	}

	return uint32(total), nil
}

func writeHeaderChunk(bw *byteWriter) error {
	if err := bw.WriteStr("MThd"); err != nil {
		return err
	}
	if err := bw.WriteU32BE(6); err != nil {
		return err
	}
	if err := bw.WriteU16BE(0); err != nil { // format 0
		return err
	}
	if err := bw.WriteU16BE(1); err != nil { // one track
		return err
	}
	return bw.WriteU16BE(ticksPerQtr)
}

func (b *Builder) writeTrackChunk(bw *byteWriter, total uint32) error {
	if err := bw.WriteStr("MTrk"); err != nil {
		return err
	}
	if err := bw.WriteU32BE(total); err != nil {
		return err
	}

	var prevStatus byte
	for _, sel := range b.header {
		if err := bw.WriteByte(0); err != nil { // VLQ(0)
			return err
		}
		if err := b.emitOne(bw, sel, &prevStatus); err != nil {
			return err
		}
	}
	for _, mr := range b.moments {
		deltaBytes, err := vlq.Encode(uint32(mr.t))
		if err != nil {
			return err
		}
		if err := bw.WriteBytes(deltaBytes); err != nil {
			return err
		}
		if err := b.emitOne(bw, mr.sel, &prevStatus); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) emitOne(bw *byteWriter, sel msgbuf.Selector, prevStatus *byte) error {
	tail, err := msgbuf.EncodeTail(&b.buf, &b.handles, sel)
	if err != nil {
		return err
	}
	suppress, next := msgbuf.NextRunningStatus(*prevStatus, sel.Status())
	*prevStatus = next
	if !suppress {
		if err := bw.WriteByte(sel.Status()); err != nil {
			return err
		}
	}
	return bw.WriteBytes(tail)
}

func (b *Builder) release() {
	b.handles = handle.Table{}
	b.buf = msgbuf.Buffer{}
	b.header = nil
	b.moments = nil
}
