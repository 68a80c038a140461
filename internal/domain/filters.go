package domain

import (
	"fmt"
	"time"
)

// HistoryFilter holds filter criteria for history records.
type HistoryFilter struct {
	Kind     Kind
	Position Position
	Reason   DismissReason
	Since    time.Time // dismissed at or after
	Until    time.Time // dismissed before
	Limit    int       // 0 means no limit
}

// FilterOptions holds filter parameters as they arrive from the CLI or HTTP.
type FilterOptions struct {
	Kind     string
	Position string
	Reason   string
	Since    time.Duration // look-back window, 0 for none
	Limit    int
}

// ToFilter converts FilterOptions to a HistoryFilter relative to now.
func (fo FilterOptions) ToFilter(now time.Time) (HistoryFilter, error) {
	var filter HistoryFilter
	var err error

	if fo.Kind != "" {
		if filter.Kind, err = ParseKind(fo.Kind); err != nil {
			return HistoryFilter{}, err
		}
	}
	if fo.Position != "" {
		if filter.Position, err = ParsePosition(fo.Position); err != nil {
			return HistoryFilter{}, err
		}
	}
	if fo.Reason != "" {
		if filter.Reason, err = ParseDismissReason(fo.Reason); err != nil {
			return HistoryFilter{}, err
		}
	}
	if fo.Since < 0 {
		return HistoryFilter{}, fmt.Errorf("invalid look-back window: %s", fo.Since)
	}
	if fo.Since > 0 {
		filter.Since = now.Add(-fo.Since)
	}
	if fo.Limit < 0 {
		return HistoryFilter{}, fmt.Errorf("invalid limit: %d", fo.Limit)
	}
	filter.Limit = fo.Limit
	return filter, nil
}

// IsEmpty returns true if the filter has no criteria set.
func (f HistoryFilter) IsEmpty() bool {
	return f.Kind == "" &&
		f.Position == "" &&
		f.Reason == "" &&
		f.Since.IsZero() &&
		f.Until.IsZero() &&
		f.Limit == 0
}

// Matches checks if the record matches every criterion except Limit.
func (f HistoryFilter) Matches(r HistoryRecord) bool {
	if f.Kind != "" && r.Kind != f.Kind {
		return false
	}
	if f.Position != "" && r.Position != f.Position {
		return false
	}
	if f.Reason != "" && r.Reason != f.Reason {
		return false
	}
	if !f.Since.IsZero() && r.DismissedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && !r.DismissedAt.Before(f.Until) {
		return false
	}
	return true
}

// FilterRecords returns the records matching filter, newest first, capped at Limit.
func FilterRecords(records []HistoryRecord, filter HistoryFilter) []HistoryRecord {
	result := make([]HistoryRecord, 0, len(records))
	for _, r := range records {
		if filter.Matches(r) {
			result = append(result, r)
		}
	}
	SortNewestFirst(result)
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result
}
