package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistoryClient struct {
	store   *storage.MemoryStore
	openErr error
	closed  bool
}

func (f *fakeHistoryClient) OpenHistory() (*domain.HistoryService, func() error, error) {
	if f.openErr != nil {
		return nil, nil, f.openErr
	}
	return domain.NewHistoryService(f.store), func() error {
		f.closed = true
		return nil
	}, nil
}

func newSeededHistoryClient(t *testing.T) *fakeHistoryClient {
	t.Helper()
	store := storage.NewMemoryStore()
	now := time.Now().UTC()
	seed := []domain.HistoryRecord{
		{ID: "r1", ToastID: "t1", Kind: domain.KindError, Position: domain.PositionTopRight, Message: "Build failed", Reason: domain.ReasonManual, CreatedAt: now.Add(-time.Minute), DismissedAt: now.Add(-30 * time.Second)},
		{ID: "r2", ToastID: "t2", Kind: domain.KindSuccess, Position: domain.PositionBottomRight, Message: "Saved", Reason: domain.ReasonAuto, CreatedAt: now.Add(-50 * time.Hour), DismissedAt: now.Add(-48 * time.Hour)},
		{ID: "r3", ToastID: "t3", Kind: domain.KindError, Position: domain.PositionBottomRight, Message: "Upload failed", Reason: domain.ReasonAuto, CreatedAt: now.Add(-2 * time.Minute), DismissedAt: now.Add(-time.Minute)},
	}
	for _, r := range seed {
		require.NoError(t, store.Record(context.Background(), r))
	}
	return &fakeHistoryClient{store: store}
}

func TestNewHistoryCmdPanicsWhenClientIsNil(t *testing.T) {
	assert.PanicsWithValue(t, "NewHistoryCmd: client dependency cannot be nil", func() {
		NewHistoryCmd(nil)
	})
}

func TestHistoryCmdFiltersJSON(t *testing.T) {
	client := newSeededHistoryClient(t)
	cmd := NewHistoryCmd(client)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	require.NoError(t, cmd.ParseFlags([]string{"--kind", "error", "--since", "1d", "--format", "json"}))

	require.NoError(t, cmd.RunE(cmd, nil))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Build failed", got[0]["message"])
	assert.Equal(t, "Upload failed", got[1]["message"])
	assert.True(t, client.closed)
}

func TestHistoryCmdGroupCount(t *testing.T) {
	client := newSeededHistoryClient(t)
	cmd := NewHistoryCmd(client)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	require.NoError(t, cmd.ParseFlags([]string{"--group-by", "reason", "--group-count", "--format", "simple"}))

	require.NoError(t, cmd.RunE(cmd, nil))

	assert.Contains(t, out.String(), "Group: auto (2)")
	assert.Contains(t, out.String(), "Group: manual (1)")
}

func TestHistoryCmdErrors(t *testing.T) {
	t.Run("bad since", func(t *testing.T) {
		cmd := NewHistoryCmd(newSeededHistoryClient(t))
		require.NoError(t, cmd.ParseFlags([]string{"--since", "yesterday"}))
		err := cmd.RunE(cmd, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--since")
	})

	t.Run("history disabled", func(t *testing.T) {
		cmd := NewHistoryCmd(&fakeHistoryClient{openErr: errHistoryDisabled})
		err := cmd.RunE(cmd, nil)
		assert.True(t, errors.Is(err, errHistoryDisabled))
	})
}

func TestParseSince(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "7d", want: 7 * 24 * time.Hour},
		{in: "0d", want: 0},
		{in: "36h", want: 36 * time.Hour},
		{in: "15m", want: 15 * time.Minute},
		{in: "-1d", wantErr: true},
		{in: "-1h", wantErr: true},
		{in: "xd", wantErr: true},
		{in: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSince(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHistoryCmdSearch(t *testing.T) {
	client := newSeededHistoryClient(t)
	cmd := NewHistoryCmd(client)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	require.NoError(t, cmd.ParseFlags([]string{"--search", "kind:error upload", "--search-mode", "token", "-i", "--format", "json"}))

	require.NoError(t, cmd.RunE(cmd, nil))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Upload failed", got[0]["message"])
}
