package smf

import "sort"

// sortMoments orders the moment log by a four-level comparator:
// moment offset, then status class, then folded status byte, then
// event ID as the final tie-break.
func sortMoments(moments []momentRecord) {
	sort.SliceStable(moments, func(i, j int) bool {
		return lessMoment(moments[i], moments[j])
	})
}

func lessMoment(a, b momentRecord) bool {
	if a.t != b.t {
		return a.t < b.t
	}
	ca, cb := statusClass(a.sel.Status()), statusClass(b.sel.Status())
	if ca != cb {
		return ca < cb
	}
	sa, sb := foldStatus(a.sel.Status()), foldStatus(b.sel.Status())
	if sa != sb {
		return sa < sb
	}
	return a.eventID < b.eventID
}

func statusClass(status byte) int {
	if status >= 0x80 && status <= 0xAF {
		return 2
	}
	return 1
}

func foldStatus(status byte) byte {
	if status >= 0xF0 {
		return 0xF0
	}
	return status
}
