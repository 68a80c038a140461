package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleRecords() []HistoryRecord {
	return []HistoryRecord{
		{ID: "a", ToastID: "1", Kind: KindSuccess, Position: PositionTopRight, Reason: ReasonAuto, DismissedAt: baseTime.Add(-3 * time.Hour)},
		{ID: "b", ToastID: "2", Kind: KindError, Position: PositionTopRight, Reason: ReasonManual, DismissedAt: baseTime.Add(-1 * time.Hour)},
		{ID: "c", ToastID: "3", Kind: KindInfo, Position: PositionBottomLeft, Reason: ReasonAll, DismissedAt: baseTime.Add(-2 * time.Hour)},
		{ID: "d", ToastID: "4", Kind: KindError, Position: PositionBottomRight, Reason: ReasonAuto, DismissedAt: baseTime.Add(-48 * time.Hour)},
	}
}

func ids(records []HistoryRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterOptions_ToFilter(t *testing.T) {
	f, err := FilterOptions{Kind: "error", Position: "top-right", Reason: "manual", Since: time.Hour, Limit: 5}.ToFilter(baseTime)
	require.NoError(t, err)
	assert.Equal(t, KindError, f.Kind)
	assert.Equal(t, PositionTopRight, f.Position)
	assert.Equal(t, ReasonManual, f.Reason)
	assert.Equal(t, baseTime.Add(-time.Hour), f.Since)
	assert.Equal(t, 5, f.Limit)

	empty, err := FilterOptions{}.ToFilter(baseTime)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}

func TestFilterOptions_ToFilterErrors(t *testing.T) {
	tests := []struct {
		name string
		opts FilterOptions
	}{
		{"kind", FilterOptions{Kind: "bogus"}},
		{"position", FilterOptions{Position: "bogus"}},
		{"reason", FilterOptions{Reason: "bogus"}},
		{"since", FilterOptions{Since: -time.Second}},
		{"limit", FilterOptions{Limit: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.ToFilter(baseTime)
			require.Error(t, err)
		})
	}
}

func TestFilterRecords(t *testing.T) {
	records := sampleRecords()

	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(FilterRecords(records, HistoryFilter{})))
	assert.Equal(t, []string{"b", "d"}, ids(FilterRecords(records, HistoryFilter{Kind: KindError})))
	assert.Equal(t, []string{"b", "a"}, ids(FilterRecords(records, HistoryFilter{Position: PositionTopRight})))
	assert.Equal(t, []string{"a", "d"}, ids(FilterRecords(records, HistoryFilter{Reason: ReasonAuto})))
	assert.Equal(t, []string{"b", "c"}, ids(FilterRecords(records, HistoryFilter{Since: baseTime.Add(-150 * time.Minute)})))
	assert.Equal(t, []string{"a", "d"}, ids(FilterRecords(records, HistoryFilter{Until: baseTime.Add(-150 * time.Minute)})))
	assert.Equal(t, []string{"b"}, ids(FilterRecords(records, HistoryFilter{Limit: 1})))
}
