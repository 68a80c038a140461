// Package sqlite stores toast history in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/toastq/internal/domain"
	_ "modernc.org/sqlite"
)

const selectColumns = `id, toast_id, kind, position, message, description, reason, created_at, dismissed_at`

// Store implements domain.HistoryRepository on SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite store: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite store: create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open db: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite store: set busy timeout: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("sqlite store: create schema: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("sqlite store: set schema version: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Record(ctx context.Context, r domain.HistoryRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			toast_id = excluded.toast_id,
			kind = excluded.kind,
			position = excluded.position,
			message = excluded.message,
			description = excluded.description,
			reason = excluded.reason,
			created_at = excluded.created_at,
			dismissed_at = excluded.dismissed_at`,
		r.ID, r.ToastID, string(r.Kind), string(r.Position), r.Message, r.Description,
		string(r.Reason), toUnix(r.CreatedAt), toUnix(r.DismissedAt))
	if err != nil {
		return fmt.Errorf("%w: record history: %v", domain.ErrStorageFailed, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, f domain.HistoryFilter) ([]domain.HistoryRecord, error) {
	var (
		where []string
		args  []any
	)
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.Position != "" {
		where = append(where, "position = ?")
		args = append(args, string(f.Position))
	}
	if f.Reason != "" {
		where = append(where, "reason = ?")
		args = append(args, string(f.Reason))
	}
	if !f.Since.IsZero() {
		where = append(where, "dismissed_at >= ?")
		args = append(args, toUnix(f.Since))
	}
	if !f.Until.IsZero() {
		where = append(where, "dismissed_at < ?")
		args = append(args, toUnix(f.Until))
	}

	query := "SELECT " + selectColumns + " FROM history"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY dismissed_at DESC, id ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list history: %v", domain.ErrStorageFailed, err)
	}
	defer rows.Close()

	records := []domain.HistoryRecord{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan history: %v", domain.ErrStorageFailed, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate history: %v", domain.ErrStorageFailed, err)
	}
	return records, nil
}

func (s *Store) Get(ctx context.Context, id string) (domain.HistoryRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM history WHERE id = ?", id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.HistoryRecord{}, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	if err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("%w: get history: %v", domain.ErrStorageFailed, err)
	}
	return r, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM history").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count history: %v", domain.ErrStorageFailed, err)
	}
	return n, nil
}

// Cleanup deletes records dismissed before cutoff. A dry run only counts them.
func (s *Store) Cleanup(ctx context.Context, cutoff time.Time, dryRun bool) (int, error) {
	if dryRun {
		var n int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM history WHERE dismissed_at < ?", toUnix(cutoff)).Scan(&n)
		if err != nil {
			return 0, fmt.Errorf("%w: count history for cleanup: %v", domain.ErrStorageFailed, err)
		}
		return n, nil
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM history WHERE dismissed_at < ?", toUnix(cutoff))
	if err != nil {
		return 0, fmt.Errorf("%w: cleanup history: %v", domain.ErrStorageFailed, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: cleanup history: %v", domain.ErrStorageFailed, err)
	}
	return int(n), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (domain.HistoryRecord, error) {
	var (
		r                      domain.HistoryRecord
		kind, position, reason string
		createdAt, dismissedAt int64
	)
	err := sc.Scan(&r.ID, &r.ToastID, &kind, &position, &r.Message, &r.Description, &reason, &createdAt, &dismissedAt)
	if err != nil {
		return domain.HistoryRecord{}, err
	}
	r.Kind = domain.Kind(kind)
	r.Position = domain.Position(position)
	r.Reason = domain.DismissReason(reason)
	r.CreatedAt = fromUnix(createdAt)
	r.DismissedAt = fromUnix(dismissedAt)
	return r, nil
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
