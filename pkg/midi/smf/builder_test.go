package smf

import (
	"testing"

	"github.com/zurustar/fillymidi/pkg/midi/timepack"
)

func TestRangeTrackingIgnoresHeaderButCountsNull(t *testing.T) {
	b := New()
	if b.RangeLower() != 0 || b.RangeUpper() != 0 {
		t.Fatalf("expected zero range before insertion, got [%d,%d]", b.RangeLower(), b.RangeUpper())
	}
	if err := b.Tempo(timepack.Pack(999, timepack.PhaseOnGrid), true, 500000); err != nil {
		t.Fatalf("Tempo: %v", err)
	}
	if b.RangeLower() != 0 || b.RangeUpper() != 0 {
		t.Fatalf("header events must not affect range, got [%d,%d]", b.RangeLower(), b.RangeUpper())
	}
	if err := b.Null(timepack.Pack(50, timepack.PhaseOnGrid), false); err != nil {
		t.Fatalf("Null: %v", err)
	}
	if b.RangeLower() != 50 || b.RangeUpper() != 50 {
		t.Fatalf("Null should expand range, got [%d,%d]", b.RangeLower(), b.RangeUpper())
	}
	if err := b.Null(timepack.Pack(10, timepack.PhaseOnGrid), false); err != nil {
		t.Fatalf("Null: %v", err)
	}
	if b.RangeLower() != 10 || b.RangeUpper() != 50 {
		t.Fatalf("range should widen to [10,50], got [%d,%d]", b.RangeLower(), b.RangeUpper())
	}
}

func TestMessageValidatesChannel(t *testing.T) {
	b := New()
	if err := b.Message(0, false, 0, 0x9, 60, 100); err == nil {
		t.Fatal("expected error for channel 0")
	}
	if err := b.Message(0, false, 17, 0x9, 60, 100); err == nil {
		t.Fatal("expected error for channel 17")
	}
}

func TestMessagePitchBendRange(t *testing.T) {
	b := New()
	if err := b.Message(0, false, 1, 0xE, 0, 16384); err == nil {
		t.Fatal("expected error for pitch bend value above 16383")
	}
	if err := b.Message(0, false, 1, 0xE, 0, 16383); err != nil {
		t.Fatalf("max pitch bend should be valid: %v", err)
	}
}

func TestKeySigValidatesCount(t *testing.T) {
	b := New()
	if err := b.KeySig(0, true, 8, false); err == nil {
		t.Fatal("expected error for count outside [-7,7]")
	}
	if err := b.KeySig(0, true, -7, false); err != nil {
		t.Fatalf("count -7 should be valid: %v", err)
	}
}

func TestTempoValidatesRange(t *testing.T) {
	b := New()
	if err := b.Tempo(0, true, 0); err == nil {
		t.Fatal("expected error for tempo 0")
	}
	if err := b.Tempo(0, true, maxTempoUSPQ+1); err == nil {
		t.Fatal("expected error for tempo above max")
	}
}

func TestNoteHelperInsertsOnAndOff(t *testing.T) {
	b := New()
	t0 := timepack.Pack(0, timepack.PhaseOnGrid)
	if err := b.Note(t0, 1, 60, 100, 384); err != nil {
		t.Fatalf("Note: %v", err)
	}
	if b.RangeLower() != 0 || b.RangeUpper() != 384 {
		t.Fatalf("expected range [0,384], got [%d,%d]", b.RangeLower(), b.RangeUpper())
	}
}
