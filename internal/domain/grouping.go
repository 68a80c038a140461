package domain

import (
	"sort"
)

// GroupByMode specifies how history records should be grouped.
type GroupByMode string

const (
	GroupByNone     GroupByMode = "none"
	GroupByKind     GroupByMode = "kind"
	GroupByPosition GroupByMode = "position"
	GroupByReason   GroupByMode = "reason"
)

// IsValid checks if the group by mode is valid.
func (g GroupByMode) IsValid() bool {
	switch g {
	case GroupByNone, GroupByKind, GroupByPosition, GroupByReason:
		return true
	default:
		return false
	}
}

// String returns the string representation of the group by mode.
func (g GroupByMode) String() string {
	return string(g)
}

// Group is a set of records sharing a key.
type Group struct {
	Key     string
	Count   int
	Records []HistoryRecord
}

// GroupResult is the result of grouping records.
type GroupResult struct {
	Mode       GroupByMode
	Groups     []Group
	TotalCount int
}

// GroupRecords groups records by the specified mode. Record order inside a
// group is preserved.
func GroupRecords(records []HistoryRecord, mode GroupByMode) GroupResult {
	if !mode.IsValid() {
		mode = GroupByNone
	}
	if mode == GroupByNone || len(records) == 0 {
		return GroupResult{Mode: mode, Groups: []Group{}, TotalCount: len(records)}
	}

	groupsMap := make(map[string][]HistoryRecord)
	for _, r := range records {
		key := groupKey(r, mode)
		groupsMap[key] = append(groupsMap[key], r)
	}

	groups := make([]Group, 0, len(groupsMap))
	for key, rs := range groupsMap {
		groups = append(groups, Group{Key: key, Count: len(rs), Records: rs})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groupLess(groups[i].Key, groups[j].Key, mode)
	})

	return GroupResult{Mode: mode, Groups: groups, TotalCount: len(records)}
}

func groupKey(r HistoryRecord, mode GroupByMode) string {
	switch mode {
	case GroupByKind:
		return r.Kind.String()
	case GroupByPosition:
		return r.Position.String()
	case GroupByReason:
		return r.Reason.String()
	default:
		return ""
	}
}

func groupLess(a, b string, mode GroupByMode) bool {
	switch mode {
	case GroupByKind:
		ra, oka := kindRank[Kind(a)]
		rb, okb := kindRank[Kind(b)]
		if oka && okb {
			return ra < rb
		}
	case GroupByPosition:
		ra, oka := positionRank[Position(a)]
		rb, okb := positionRank[Position(b)]
		if oka && okb {
			return ra < rb
		}
	}
	return a < b
}

// GetGroupCounts returns a map of group keys to their counts.
func GetGroupCounts(records []HistoryRecord, mode GroupByMode) map[string]int {
	if !mode.IsValid() {
		return nil
	}
	result := GroupRecords(records, mode)
	counts := make(map[string]int, len(result.Groups))
	for _, g := range result.Groups {
		counts[g.Key] = g.Count
	}
	return counts
}
