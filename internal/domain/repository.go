package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrRecordNotFound is returned when a history record is not found.
	ErrRecordNotFound = errors.New("history record not found")

	// ErrStorageFailed is returned when a storage operation fails.
	ErrStorageFailed = errors.New("storage operation failed")
)

// HistoryRepository defines the persistence of dismissed toasts.
type HistoryRepository interface {
	// Record persists a dismissed toast.
	Record(ctx context.Context, record HistoryRecord) error

	// List returns records matching filter, newest first.
	List(ctx context.Context, filter HistoryFilter) ([]HistoryRecord, error)

	// Get returns a record by its ID.
	Get(ctx context.Context, id string) (HistoryRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Cleanup removes records dismissed before cutoff and returns how many
	// were (or, on dry run, would be) removed.
	Cleanup(ctx context.Context, cutoff time.Time, dryRun bool) (int, error)
}

// HistoryService provides business logic over the history repository.
type HistoryService struct {
	repo HistoryRepository
	now  func() time.Time
}

// NewHistoryService creates a new history service.
func NewHistoryService(repo HistoryRepository) *HistoryService {
	return &HistoryService{repo: repo, now: time.Now}
}

// Record validates and persists a record.
func (s *HistoryService) Record(ctx context.Context, record HistoryRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	return s.repo.Record(ctx, record)
}

// List retrieves records matching the given options.
func (s *HistoryService) List(ctx context.Context, opts FilterOptions) ([]HistoryRecord, error) {
	filter, err := opts.ToFilter(s.now())
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

// Get retrieves a record by ID.
func (s *HistoryService) Get(ctx context.Context, id string) (HistoryRecord, error) {
	return s.repo.Get(ctx, id)
}

// Count returns the number of stored records.
func (s *HistoryService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// CleanupOlderThan removes records dismissed more than days ago.
func (s *HistoryService) CleanupOlderThan(ctx context.Context, days int, dryRun bool) (int, error) {
	if days < 0 {
		return 0, errors.New("days threshold must be >= 0")
	}
	cutoff := s.now().UTC().AddDate(0, 0, -days)
	return s.repo.Cleanup(ctx, cutoff, dryRun)
}
