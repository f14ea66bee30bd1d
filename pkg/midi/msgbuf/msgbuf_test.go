package msgbuf

import (
	"bytes"
	"testing"

	"github.com/zurustar/fillymidi/pkg/midi/handle"
)

func TestAddOneAndTwo(t *testing.T) {
	var buf Buffer
	sel, err := AddOne(&buf, 0xC0, 5)
	if err != nil {
		t.Fatalf("AddOne: %v", err)
	}
	if sel.Status() != 0xC0 || sel.Offset() != 0 {
		t.Fatalf("unexpected selector %#x", uint32(sel))
	}

	sel2, err := AddTwo(&buf, 0x90, 60, 100)
	if err != nil {
		t.Fatalf("AddTwo: %v", err)
	}
	if sel2.Status() != 0x90 || sel2.Offset() != 1 {
		t.Fatalf("unexpected second selector %#x", uint32(sel2))
	}

	var handles handle.Table
	tail, err := EncodeTail(&buf, &handles, sel2)
	if err != nil {
		t.Fatalf("EncodeTail: %v", err)
	}
	if !bytes.Equal(tail, []byte{60, 100}) {
		t.Fatalf("tail = % X, want 3C 64", tail)
	}
}

func TestAddOneRejectsBadStatus(t *testing.T) {
	var buf Buffer
	if _, err := AddOne(&buf, 0x90, 5); err == nil {
		t.Fatal("expected error for status outside 0xC0-0xDF")
	}
	if _, err := AddOne(&buf, 0xC0, 0x80); err == nil {
		t.Fatal("expected error for data byte > 0x7F")
	}
}

func TestSysexRequiresLeadingF0(t *testing.T) {
	var buf Buffer
	var handles handle.Table
	if _, err := AddBlobMsg(&buf, &handles, 0xF0, handle.Bytes{0x01}); err == nil {
		t.Fatal("expected error for 0xF0 blob missing leading 0xF0 byte")
	}
	if _, err := AddBlobMsg(&buf, &handles, 0xF0, handle.Bytes{}); err == nil {
		t.Fatal("expected error for empty 0xF0 blob")
	}
}

func TestEncodeTailSysexStripsLeadingByte(t *testing.T) {
	var buf Buffer
	var handles handle.Table
	sel, err := AddBlobMsg(&buf, &handles, 0xF0, handle.Bytes{0xF0, 0x01, 0x02, 0xF7})
	if err != nil {
		t.Fatalf("AddBlobMsg: %v", err)
	}
	tail, err := EncodeTail(&buf, &handles, sel)
	if err != nil {
		t.Fatalf("EncodeTail: %v", err)
	}
	// VLQ(3) then the three bytes following the leading 0xF0.
	if !bytes.Equal(tail, []byte{0x03, 0x01, 0x02, 0xF7}) {
		t.Fatalf("tail = % X, want 03 01 02 F7", tail)
	}
}

func TestEncodeTailMetaDirect(t *testing.T) {
	var buf Buffer
	sel, err := AddMetaData(&buf, 0x2F, nil)
	if err != nil {
		t.Fatalf("AddMetaData: %v", err)
	}
	var handles handle.Table
	tail, err := EncodeTail(&buf, &handles, sel)
	if err != nil {
		t.Fatalf("EncodeTail: %v", err)
	}
	if !bytes.Equal(tail, []byte{0x2F, 0x00}) {
		t.Fatalf("tail = % X, want 2F 00", tail)
	}
}

func TestEncodeTailMetaIndirectText(t *testing.T) {
	var buf Buffer
	var handles handle.Table
	sel, err := AddMetaText(&buf, &handles, 0x01, handle.String("hi"))
	if err != nil {
		t.Fatalf("AddMetaText: %v", err)
	}
	tail, err := EncodeTail(&buf, &handles, sel)
	if err != nil {
		t.Fatalf("EncodeTail: %v", err)
	}
	if !bytes.Equal(tail, []byte{0x01, 0x02, 'h', 'i'}) {
		t.Fatalf("tail = % X, want 01 02 68 69", tail)
	}
}

func TestRunningStatusStateMachine(t *testing.T) {
	suppress, next := NextRunningStatus(0, 0x90)
	if suppress || next != 0x90 {
		t.Fatalf("first message should never suppress: suppress=%v next=%#x", suppress, next)
	}
	suppress, next = NextRunningStatus(next, 0x90)
	if !suppress || next != 0x90 {
		t.Fatalf("repeated channel-voice status should suppress: suppress=%v next=%#x", suppress, next)
	}
	suppress, next = NextRunningStatus(next, 0xFF)
	if suppress || next != 0 {
		t.Fatalf("meta status resets running status: suppress=%v next=%#x", suppress, next)
	}
}

func TestBufferCapacityCeiling(t *testing.T) {
	var buf Buffer
	big := make([]byte, MaxLen)
	if _, err := buf.append(big); err != nil {
		t.Fatalf("filling to capacity should succeed: %v", err)
	}
	if _, err := buf.append([]byte{0}); err == nil {
		t.Fatal("expected capacity error once buffer is full")
	}
}
