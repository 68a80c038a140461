package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cristianoliveira/toastq/internal/dedup"
	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededHistory(t *testing.T) *domain.HistoryService {
	t.Helper()
	store := storage.NewMemoryStore()
	now := time.Now().UTC()
	records := []domain.HistoryRecord{
		{ID: "r1", ToastID: "1", Kind: domain.KindSuccess, Position: domain.PositionBottomRight, Message: "saved", Reason: domain.ReasonAuto, CreatedAt: now.Add(-time.Minute), DismissedAt: now.Add(-50 * time.Second)},
		{ID: "r2", ToastID: "2", Kind: domain.KindError, Position: domain.PositionTopCenter, Message: "boom", Reason: domain.ReasonManual, CreatedAt: now.Add(-time.Minute), DismissedAt: now.Add(-40 * time.Second)},
		{ID: "r3", ToastID: "3", Kind: domain.KindSuccess, Position: domain.PositionTopCenter, Message: "old", Reason: domain.ReasonAuto, CreatedAt: now.Add(-48 * time.Hour), DismissedAt: now.Add(-47 * time.Hour)},
	}
	for _, r := range records {
		require.NoError(t, store.Record(context.Background(), r))
	}
	return domain.NewHistoryService(store)
}

func TestHistoryListsNewestFirst(t *testing.T) {
	var out bytes.Buffer
	err := NewHistoryUseCase(seededHistory(t)).Execute(HistoryInput{Format: "json"}, &out)
	require.NoError(t, err)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "boom", got[0]["message"])
	assert.Equal(t, "old", got[2]["message"])
}

func TestHistoryFilters(t *testing.T) {
	var out bytes.Buffer
	err := NewHistoryUseCase(seededHistory(t)).Execute(HistoryInput{
		Filter: domain.FilterOptions{Kind: "success", Since: time.Hour},
		Format: "compact",
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "saved\n", out.String())
}

func TestHistoryGroupBy(t *testing.T) {
	var out bytes.Buffer
	err := NewHistoryUseCase(seededHistory(t)).Execute(HistoryInput{GroupBy: "position", GroupCount: true}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Group: top-center (2)\nGroup: bottom-right (1)\n", out.String())
}

func TestHistoryEmpty(t *testing.T) {
	var out bytes.Buffer
	uc := NewHistoryUseCase(domain.NewHistoryService(storage.NewMemoryStore()))
	require.NoError(t, uc.Execute(HistoryInput{}, &out))
	assert.Contains(t, out.String(), "No history found")

	out.Reset()
	require.NoError(t, uc.Execute(HistoryInput{Format: "json"}, &out))
	assert.Equal(t, "[]\n", out.String())
}

func TestHistoryInvalidInput(t *testing.T) {
	uc := NewHistoryUseCase(seededHistory(t))
	var out bytes.Buffer

	assert.Error(t, uc.Execute(HistoryInput{GroupBy: "colour"}, &out))
	assert.Error(t, uc.Execute(HistoryInput{GroupCount: true}, &out))
	assert.Error(t, uc.Execute(HistoryInput{Filter: domain.FilterOptions{Reason: "bored"}}, &out))
}

type failingHistory struct{}

func (failingHistory) List(context.Context, domain.FilterOptions) ([]domain.HistoryRecord, error) {
	return nil, domain.ErrStorageFailed
}

func TestHistoryStorageError(t *testing.T) {
	err := NewHistoryUseCase(failingHistory{}).Execute(HistoryInput{}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, domain.ErrStorageFailed))
}

func TestHistorySearch(t *testing.T) {
	tests := []struct {
		name  string
		input HistoryInput
		want  []string
	}{
		{name: "substring", input: HistoryInput{Search: "o"}, want: []string{"boom", "old"}},
		{name: "limit counts matches", input: HistoryInput{Search: "o", Filter: domain.FilterOptions{Limit: 1}}, want: []string{"boom"}},
		{name: "regex", input: HistoryInput{Search: "^s", SearchMode: "regex"}, want: []string{"saved"}},
		{name: "token with field", input: HistoryInput{Search: "kind:success o", SearchMode: "token"}, want: []string{"old"}},
		{name: "ignore case", input: HistoryInput{Search: "BOOM", IgnoreCase: true}, want: []string{"boom"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			tt.input.Format = "json"
			require.NoError(t, NewHistoryUseCase(seededHistory(t)).Execute(tt.input, &out))

			var got []map[string]interface{}
			require.NoError(t, json.Unmarshal(out.Bytes(), &got))
			messages := make([]string, 0, len(got))
			for _, r := range got {
				messages = append(messages, r["message"].(string))
			}
			assert.Equal(t, tt.want, messages)
		})
	}
}

func TestHistorySearchInvalid(t *testing.T) {
	var out bytes.Buffer
	err := NewHistoryUseCase(seededHistory(t)).Execute(HistoryInput{Search: "(", SearchMode: "regex"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid search pattern")

	err = NewHistoryUseCase(seededHistory(t)).Execute(HistoryInput{Search: "x", SearchMode: "fuzzy"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid search mode")
}

func TestHistoryDedupe(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Now().UTC()
	for i, age := range []time.Duration{time.Second, 2 * time.Second, 3 * time.Second} {
		require.NoError(t, store.Record(context.Background(), domain.HistoryRecord{
			ID: fmt.Sprintf("r%d", i), ToastID: "t", Kind: domain.KindError, Position: domain.PositionTopRight,
			Message: "Build failed", Reason: domain.ReasonAuto, DismissedAt: now.Add(-age),
		}))
	}
	require.NoError(t, store.Record(context.Background(), domain.HistoryRecord{
		ID: "r9", ToastID: "u", Kind: domain.KindSuccess, Position: domain.PositionTopRight,
		Message: "Build failed", Reason: domain.ReasonAuto, DismissedAt: now.Add(-time.Minute),
	}))

	var out bytes.Buffer
	err := NewHistoryUseCase(domain.NewHistoryService(store)).Execute(HistoryInput{
		Format:        "json",
		Dedupe:        true,
		DedupCriteria: dedup.CriteriaMessageKind,
	}, &out)
	require.NoError(t, err)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "r0", got[0]["id"])
	assert.Equal(t, "r9", got[1]["id"])
}
