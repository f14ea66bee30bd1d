// Package smf implements the MIDI file assembler: an accumulating
// builder that defers all byte-level layout decisions until a single
// compile pass emits a Standard MIDI File, Format 0, single track.
package smf

import (
	"math"

	"github.com/zurustar/fillymidi/pkg/midi/handle"
	"github.com/zurustar/fillymidi/pkg/midi/midierr"
	"github.com/zurustar/fillymidi/pkg/midi/msgbuf"
	"github.com/zurustar/fillymidi/pkg/midi/timepack"
)

const (
	maxHeaderLen  = 16384
	maxMomentLen  = 8388608
	ticksPerQtr   = 768
	minTempoUSPQ  = 1
	maxTempoUSPQ  = 0xFFFFFF
)

type momentRecord struct {
	eventID int32
	t       int32
	sel     msgbuf.Selector
}

type eventRange struct {
	filled bool
	lower  int32
	upper  int32
}

func (r *eventRange) expand(subq int32) {
	if !r.filled {
		r.filled = true
		r.lower = subq
		r.upper = subq
		return
	}
	if subq < r.lower {
		r.lower = subq
	}
	if subq > r.upper {
		r.upper = subq
	}
}

// Builder is the one-shot MIDI assembler. The zero value is ready to
// use; call the event methods in any order and finish with Compile.
// After Compile every event-insertion method fails with a
// post-compile error; RangeLower and RangeUpper keep answering.
type Builder struct {
	handles  handle.Table
	buf      msgbuf.Buffer
	header   []msgbuf.Selector
	moments  []momentRecord
	nextID   int32
	rng      eventRange
	compiled bool
}

// New returns a ready-to-use Builder.
func New() *Builder {
	return &Builder{}
}

func (b *Builder) checkNotCompiled() error {
	if b.compiled {
		return midierr.NewPostCompileError()
	}
	return nil
}

func (b *Builder) emit(t int32, head bool, sel msgbuf.Selector) error {
	if head {
		if len(b.header) >= maxHeaderLen {
			return midierr.NewCapacityError("smf: header log full (%d entries)", maxHeaderLen)
		}
		b.header = append(b.header, sel)
		return nil
	}
	if len(b.moments) >= maxMomentLen {
		return midierr.NewCapacityError("smf: moment log full (%d entries)", maxMomentLen)
	}
	if b.nextID == math.MaxInt32 {
		return midierr.NewCapacityError("smf: event id counter saturated")
	}
	subq, _ := timepack.Unpack(t)
	b.rng.expand(subq)
	b.nextID++
	b.moments = append(b.moments, momentRecord{eventID: b.nextID, t: t, sel: sel})
	return nil
}

// Null declares that a moment is occupied without producing a
// message. It expands the event range when head is false; header-log
// calls are no-ops.
func (b *Builder) Null(t int32, head bool) error {
	if err := b.checkNotCompiled(); err != nil {
		return err
	}
	if head {
		return nil
	}
	subq, _ := timepack.Unpack(t)
	b.rng.expand(subq)
	return nil
}

// Text inserts a meta-text event of the given subtype class.
func (b *Builder) Text(t int32, head bool, class byte, text handle.Text) error {
	if err := b.checkNotCompiled(); err != nil {
		return err
	}
	sel, err := msgbuf.AddMetaText(&b.buf, &b.handles, class, text)
	if err != nil {
		return err
	}
	return b.emit(t, head, sel)
}

// Tempo inserts a Set Tempo meta event.
func (b *Builder) Tempo(t int32, head bool, microsecondsPerQuarter int32) error {
	if err := b.checkNotCompiled(); err != nil {
		return err
	}
	if microsecondsPerQuarter < minTempoUSPQ || microsecondsPerQuarter > maxTempoUSPQ {
		return midierr.NewArgRangeError("smf: tempo %d outside [%d,%d]", microsecondsPerQuarter, minTempoUSPQ, maxTempoUSPQ)
	}
	v := uint32(microsecondsPerQuarter)
	data := []byte{byte(v >> 16), byte(v >> 8), byte(v)}
	sel, err := msgbuf.AddMetaData(&b.buf, 0x51, data)
	if err != nil {
		return err
	}
	return b.emit(t, head, sel)
}

// TimeSig inserts a Time Signature meta event. denom must be an exact
// power of two.
func (b *Builder) TimeSig(t int32, head bool, num, denom, metro int32) error {
	if err := b.checkNotCompiled(); err != nil {
		return err
	}
	if num < 1 || metro < 1 {
		return midierr.NewArgRangeError("smf: time_sig num/metro must be >= 1, got num=%d metro=%d", num, metro)
	}
	logDenom, err := powerOfTwoLog2(denom)
	if err != nil {
		return err
	}
	if num > 0x7F || metro > 0x7F || logDenom > 0x7F {
		return midierr.NewArgRangeError("smf: time_sig field exceeds 0x7F (num=%d denom_log2=%d metro=%d)", num, logDenom, metro)
	}
	data := []byte{byte(num), byte(logDenom), byte(metro), 8}
	sel, err := msgbuf.AddMetaData(&b.buf, 0x58, data)
	if err != nil {
		return err
	}
	return b.emit(t, head, sel)
}

// KeySig inserts a Key Signature meta event. count is the number of
// sharps (positive) or flats (negative), in [-7,7].
func (b *Builder) KeySig(t int32, head bool, count int32, minor bool) error {
	if err := b.checkNotCompiled(); err != nil {
		return err
	}
	if count < -7 || count > 7 {
		return midierr.NewArgRangeError("smf: key_sig count %d outside [-7,7]", count)
	}
	sfByte := byte(int8(count))
	minorByte := byte(0)
	if minor {
		minorByte = 1
	}
	sel, err := msgbuf.AddMetaData(&b.buf, 0x59, []byte{sfByte, minorByte})
	if err != nil {
		return err
	}
	return b.emit(t, head, sel)
}

// Custom inserts a sequencer-specific (0x7F) meta event referencing
// an externally-owned blob.
func (b *Builder) Custom(t int32, head bool, blob handle.Blob) error {
	if err := b.checkNotCompiled(); err != nil {
		return err
	}
	sel, err := msgbuf.AddMetaBlob(&b.buf, &b.handles, 0x7F, blob)
	if err != nil {
		return err
	}
	return b.emit(t, head, sel)
}

// System inserts a system-exclusive or system-common message. The
// status byte is chosen automatically: 0xF0 if blob is non-empty and
// begins with 0xF0, otherwise 0xF7.
func (b *Builder) System(t int32, head bool, blob handle.Blob) error {
	if err := b.checkNotCompiled(); err != nil {
		return err
	}
	status := byte(0xF7)
	if blob != nil && blob.Len() > 0 && blob.Bytes()[0] == 0xF0 {
		status = 0xF0
	}
	sel, err := msgbuf.AddBlobMsg(&b.buf, &b.handles, status, blob)
	if err != nil {
		return err
	}
	return b.emit(t, head, sel)
}

// Message inserts a channel-voice message. nibble selects the
// message kind (0x8-0xE); ch is 1-16; idx/val meanings depend on
// nibble.
func (b *Builder) Message(t int32, head bool, ch int32, nibble byte, idx, val int32) error {
	if err := b.checkNotCompiled(); err != nil {
		return err
	}
	if ch < 1 || ch > 16 {
		return midierr.NewArgRangeError("smf: channel %d outside 1-16", ch)
	}
	status := (nibble << 4) | byte(ch-1)

	var sel msgbuf.Selector
	var err error
	switch nibble {
	case 0x8, 0x9, 0xA, 0xB:
		if idx < 0 || idx > 127 || val < 0 || val > 127 {
			return midierr.NewArgRangeError("smf: message idx/val %d/%d outside 0-127", idx, val)
		}
		sel, err = msgbuf.AddTwo(&b.buf, status, byte(idx), byte(val))
	case 0xC, 0xD:
		if val < 0 || val > 127 {
			return midierr.NewArgRangeError("smf: message val %d outside 0-127", val)
		}
		sel, err = msgbuf.AddOne(&b.buf, status, byte(val))
	case 0xE:
		if val < 0 || val > 16383 {
			return midierr.NewArgRangeError("smf: pitch bend val %d outside 0-16383", val)
		}
		lsb := byte(val & 0x7F)
		msb := byte((val >> 7) & 0x7F)
		sel, err = msgbuf.AddTwo(&b.buf, status, lsb, msb)
	default:
		return midierr.NewArgRangeError("smf: unknown message nibble %#x", nibble)
	}
	if err != nil {
		return err
	}
	return b.emit(t, head, sel)
}

// Note is sugar over Message: it inserts a note-on at t and a
// matching note-off durationTicks subquanta later, on the same
// channel and phase.
func (b *Builder) Note(t int32, ch int32, pitch, velocity, durationTicks int32) error {
	if err := b.Message(t, false, ch, 0x9, pitch, velocity); err != nil {
		return err
	}
	subq, phase := timepack.Unpack(t)
	offT := timepack.Pack(subq+durationTicks, phase)
	return b.Message(offT, false, ch, 0x8, pitch, 0)
}

// RangeLower returns the minimum unpacked subquantum offset inserted
// so far (0 before any insertion).
func (b *Builder) RangeLower() int32 { return b.rng.lower }

// RangeUpper returns the maximum unpacked subquantum offset inserted
// so far (0 before any insertion).
func (b *Builder) RangeUpper() int32 { return b.rng.upper }

func powerOfTwoLog2(denom int32) (int32, error) {
	if denom <= 0 || denom&(denom-1) != 0 {
		return 0, midierr.NewSemanticError("smf: time_sig denom %d is not a power of two", denom)
	}
	var log int32
	for n := denom; n > 1; n >>= 1 {
		log++
	}
	return log, nil
}
