package format

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func sampleRecords() []domain.HistoryRecord {
	return []domain.HistoryRecord{
		{
			ID: "r1", ToastID: "1", Kind: domain.KindSuccess, Position: domain.PositionBottomRight,
			Message: "saved", Reason: domain.ReasonAuto,
			CreatedAt: base, DismissedAt: base.Add(4 * time.Second),
		},
		{
			ID: "r2", ToastID: "2", Kind: domain.KindError, Position: domain.PositionTopCenter,
			Message: "this is a very long message that should be truncated because it exceeds the width",
			Reason:  domain.ReasonManual, CreatedAt: base, DismissedAt: base.Add(90 * time.Second),
		},
	}
}

func TestFormatterFactory(t *testing.T) {
	tests := []struct {
		name     string
		ftype    FormatterType
		expected interface{}
	}{
		{"Simple", FormatterTypeSimple, &SimpleFormatter{}},
		{"Table", FormatterTypeTable, &TableFormatter{}},
		{"Compact", FormatterTypeCompact, &CompactFormatter{}},
		{"JSON", FormatterTypeJSON, &JSONFormatter{}},
		{"Unknown", FormatterType("unknown"), &SimpleFormatter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.IsType(t, tt.expected, NewFormatter(tt.ftype))
		})
	}
}

func TestGetFormatter(t *testing.T) {
	assert.IsType(t, &TableFormatter{}, GetFormatter("table", false))
	assert.IsType(t, &SimpleFormatter{}, GetFormatter("bogus", false))
	assert.IsType(t, &GroupCountFormatter{}, GetFormatter("json", true))
}

func TestSimpleFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSimpleFormatter().FormatRecords(sampleRecords(), &buf))

	output := buf.String()
	assert.Contains(t, output, "saved")
	assert.Contains(t, output, "success")
	assert.Contains(t, output, "this is a very long message that should be trun...")
	assert.NotContains(t, output, "exceeds the width")
}

func TestCompactFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCompactFormatter().FormatRecords(sampleRecords()[:1], &buf))
	assert.Equal(t, "saved\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().FormatRecords(sampleRecords(), &buf))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "1", decoded[0]["toast_id"])
	assert.Equal(t, "auto", decoded[0]["reason"])
	assert.Equal(t, float64(4000), decoded[0]["lifetime_ms"])
}

func TestJSONFormatterEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().FormatRecords(nil, &buf))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormatGroups(t *testing.T) {
	groups := domain.GroupRecords(sampleRecords(), domain.GroupByKind)

	var buf bytes.Buffer
	require.NoError(t, NewCompactFormatter().FormatGroups(groups, &buf))
	assert.Equal(t, "=== error (1) ===\n"+
		"this is a very long message that should be truncated beca...\n"+
		"=== success (1) ===\nsaved\n", buf.String())
}

func TestGroupCountFormatter(t *testing.T) {
	groups := domain.GroupRecords(sampleRecords(), domain.GroupByReason)

	var buf bytes.Buffer
	require.NoError(t, GetFormatter("simple", true).FormatGroups(groups, &buf))
	assert.Contains(t, buf.String(), "Group: auto (1)")
	assert.Contains(t, buf.String(), "Group: manual (1)")

	buf.Reset()
	require.NoError(t, GetFormatter("json", true).FormatGroups(groups, &buf))
	var counts map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &counts))
	assert.Equal(t, map[string]int{"auto": 1, "manual": 1}, counts)

	assert.Error(t, GetFormatter("simple", true).FormatRecords(nil, &buf))
}
