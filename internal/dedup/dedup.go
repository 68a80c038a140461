// Package dedup derives keys that identify repeated toasts.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cristianoliveira/toastq/internal/config"
	"github.com/cristianoliveira/toastq/internal/domain"
)

// Criteria defines which fields make two toasts duplicates.
type Criteria string

const (
	CriteriaMessage     Criteria = "message"
	CriteriaMessageKind Criteria = "message_kind"
	CriteriaExact       Criteria = "exact"

	bucketSeparator = "\x1f" // Unit Separator to avoid conflicts with message text
	idPrefix        = "dup-"
)

// Options configure deduplication.
type Options struct {
	Criteria Criteria
	// Window splits duplicates further apart than this into separate
	// groups. Zero groups them regardless of time.
	Window time.Duration
}

// OptionsFromConfig reads dedup_criteria and dedup_window_ms.
func OptionsFromConfig() Options {
	return Options{
		Criteria: ParseCriteria(config.Get("dedup_criteria", string(CriteriaMessageKind))),
		Window:   config.GetDurationMillis("dedup_window_ms", 0),
	}
}

// Record captures the fields needed to compute deduplication keys.
type Record struct {
	Kind        domain.Kind
	Position    domain.Position
	Message     string
	Description string
	At          time.Time
}

// FromHistory converts a history record.
func FromHistory(r domain.HistoryRecord) Record {
	return Record{
		Kind:        r.Kind,
		Position:    r.Position,
		Message:     r.Message,
		Description: r.Description,
		At:          r.DismissedAt,
	}
}

// ParseCriteria converts user-provided strings into a Criteria value.
// Unknown values fall back to CriteriaMessage.
func ParseCriteria(value string) Criteria {
	switch strings.ToLower(value) {
	case string(CriteriaMessageKind):
		return CriteriaMessageKind
	case string(CriteriaExact):
		return CriteriaExact
	default:
		return CriteriaMessage
	}
}

// String returns the string value for Criteria.
func (c Criteria) String() string {
	return string(c)
}

// Key returns the grouping key of r.
func Key(r Record, criteria Criteria) string {
	switch criteria {
	case CriteriaMessageKind:
		return joinParts(r.Message, string(r.Kind))
	case CriteriaExact:
		return joinParts(r.Message, string(r.Kind), string(r.Position), r.Description)
	default:
		return r.Message
	}
}

// ToastID returns a stable toast ID for r, so enqueueing a duplicate
// replaces the live toast instead of stacking a new one.
func ToastID(r Record, criteria Criteria) string {
	sum := sha256.Sum256([]byte(Key(r, criteria)))
	return idPrefix + hex.EncodeToString(sum[:6])
}

// BuildKeys returns a key for each record. The output slice has the same
// order and length as the input slice.
func BuildKeys(records []Record, opts Options) []string {
	keys := make([]string, len(records))
	for i := range records {
		keys[i] = Key(records[i], opts.Criteria)
	}
	if opts.Window <= 0 {
		return keys
	}
	buckets := assignWindowBuckets(records, keys, opts.Window)
	for i, bucket := range buckets {
		if bucket > 0 {
			keys[i] = fmt.Sprintf("%s%s%d", keys[i], bucketSeparator, bucket)
		}
	}
	return keys
}

// StripBucketSuffix removes the window suffix from a key.
func StripBucketSuffix(key string) string {
	if idx := strings.Index(key, bucketSeparator); idx >= 0 {
		return key[:idx]
	}
	return key
}

// BucketFromKey returns the window bucket encoded in the key, or -1 if none.
func BucketFromKey(key string) int {
	idx := strings.Index(key, bucketSeparator)
	if idx < 0 {
		return -1
	}
	bucket, err := strconv.Atoi(key[idx+len(bucketSeparator):])
	if err != nil {
		return -1
	}
	return bucket
}

// Collapse keeps the first record of every duplicate group. With records
// sorted newest first that is the latest occurrence.
func Collapse(records []domain.HistoryRecord, opts Options) []domain.HistoryRecord {
	converted := make([]Record, len(records))
	for i, r := range records {
		converted[i] = FromHistory(r)
	}
	keys := BuildKeys(converted, opts)

	seen := make(map[string]bool, len(keys))
	out := make([]domain.HistoryRecord, 0, len(records))
	for i, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, records[i])
	}
	return out
}

func joinParts(parts ...string) string {
	return strings.Join(parts, "\x00")
}

// assignWindowBuckets walks each key's records from newest to oldest and
// opens a new bucket whenever a record is more than window older than the
// newest record of the current bucket.
func assignWindowBuckets(records []Record, keys []string, window time.Duration) []int {
	assignments := make([]int, len(records))
	grouped := make(map[string][]int)
	for i, key := range keys {
		grouped[key] = append(grouped[key], i)
	}
	for _, idxs := range grouped {
		sort.SliceStable(idxs, func(a, b int) bool {
			return records[idxs[a]].At.After(records[idxs[b]].At)
		})
		bucket := 0
		var latest time.Time
		for _, idx := range idxs {
			at := records[idx].At
			switch {
			case at.IsZero():
			case latest.IsZero():
				latest = at
			case latest.Sub(at) > window:
				bucket++
				latest = at
			}
			assignments[idx] = bucket
		}
	}
	return assignments
}
