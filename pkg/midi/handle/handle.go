// Package handle implements an append-only, dense, integer-indexed
// table of references to externally-owned text and blob payloads.
package handle

import "github.com/zurustar/fillymidi/pkg/midi/midierr"

// MaxEntries is the capacity ceiling for a single table.
const MaxEntries = 16384

// Blob is an opaque binary payload collaborator.
type Blob interface {
	Len() int
	Bytes() []byte
}

// Text is an opaque text payload collaborator. Bytes returns the
// unterminated byte representation of the text.
type Text interface {
	Len() int
	Bytes() []byte
}

// Bytes is a convenience Blob/Text implementation over a plain byte
// slice, for callers with no payload type of their own.
type Bytes []byte

func (b Bytes) Len() int      { return len(b) }
func (b Bytes) Bytes() []byte { return []byte(b) }

// String is a convenience Text implementation over a plain string.
type String string

func (s String) Len() int      { return len(s) }
func (s String) Bytes() []byte { return []byte(s) }

type kind int

const (
	kindBlob kind = iota
	kindText
)

type entry struct {
	kind kind
	blob Blob
	text Text
}

// Entry is the tagged variant returned by Get.
type Entry struct {
	IsText bool
	Blob   Blob
	Text   Text
}

// Len returns the payload length regardless of variant.
func (e Entry) Len() int {
	if e.IsText {
		return e.Text.Len()
	}
	return e.Blob.Len()
}

// Bytes returns the payload bytes regardless of variant.
func (e Entry) Bytes() []byte {
	if e.IsText {
		return e.Text.Bytes()
	}
	return e.Blob.Bytes()
}

// Table is the append-only handle table. The zero value is ready to use.
type Table struct {
	entries []entry
}

// AddBlob registers a blob payload and returns its dense index.
func (t *Table) AddBlob(b Blob) (int, error) {
	if b == nil {
		return 0, midierr.NewArgRangeError("handle: nil blob payload")
	}
	if len(t.entries) >= MaxEntries {
		return 0, midierr.NewCapacityError("handle: table full (%d entries)", MaxEntries)
	}
	idx := len(t.entries)
	t.entries = append(t.entries, entry{kind: kindBlob, blob: b})
	return idx, nil
}

// AddText registers a text payload and returns its dense index.
func (t *Table) AddText(tx Text) (int, error) {
	if tx == nil {
		return 0, midierr.NewArgRangeError("handle: nil text payload")
	}
	if len(t.entries) >= MaxEntries {
		return 0, midierr.NewCapacityError("handle: table full (%d entries)", MaxEntries)
	}
	idx := len(t.entries)
	t.entries = append(t.entries, entry{kind: kindText, text: tx})
	return idx, nil
}

// Get returns the entry at idx.
func (t *Table) Get(idx int) (Entry, error) {
	if idx < 0 || idx >= len(t.entries) {
		return Entry{}, midierr.NewSemanticError("handle: index %d out of range (table has %d entries)", idx, len(t.entries))
	}
	e := t.entries[idx]
	if e.kind == kindText {
		return Entry{IsText: true, Text: e.text}, nil
	}
	return Entry{Blob: e.blob}, nil
}

// Len reports the number of registered entries.
func (t *Table) Len() int { return len(t.entries) }
