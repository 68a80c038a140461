package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cristianoliveira/toastq/internal/domain"
)

// MemoryStore keeps history in process memory. It backs `serve` and `demo`
// when history_backend is memory, and the tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]domain.HistoryRecord
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]domain.HistoryRecord)}
}

func (s *MemoryStore) Record(ctx context.Context, record domain.HistoryRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		return fmt.Errorf("%w: store closed", domain.ErrStorageFailed)
	}
	s.records[record.ID] = record
	return nil
}

func (s *MemoryStore) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryRecord, error) {
	s.mu.RLock()
	all := make([]domain.HistoryRecord, 0, len(s.records))
	for _, r := range s.records {
		all = append(all, r)
	}
	s.mu.RUnlock()
	// ties on dismissal time fall back to ID order, matching the sqlite store
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return domain.FilterRecords(all, filter), nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (domain.HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return domain.HistoryRecord{}, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	return r, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *MemoryStore) Cleanup(ctx context.Context, cutoff time.Time, dryRun bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, r := range s.records {
		if !r.DismissedAt.Before(cutoff) {
			continue
		}
		n++
		if !dryRun {
			delete(s.records, id)
		}
	}
	return n, nil
}

// Close drops every record. Later writes fail.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}
