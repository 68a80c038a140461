package domain

import "sort"

// SortNewestFirst orders records by dismissal time, newest first.
// Ties keep their relative order.
func SortNewestFirst(records []HistoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].DismissedAt.After(records[j].DismissedAt)
	})
}

// kindRank orders kinds by severity for grouped output.
var kindRank = map[Kind]int{
	KindError:   0,
	KindWarning: 1,
	KindLoading: 2,
	KindSuccess: 3,
	KindInfo:    4,
	KindPlain:   5,
	KindCustom:  6,
}

// positionRank orders anchors top row first, left to right.
var positionRank = func() map[Position]int {
	m := make(map[Position]int, len(Positions))
	for i, p := range Positions {
		m[p] = i
	}
	return m
}()

// Severity ranks k for display, 0 being the most severe. Unknown kinds
// rank last.
func (k Kind) Severity() int {
	if r, ok := kindRank[k]; ok {
		return r
	}
	return len(kindRank)
}
