// Package search matches history records against free-text queries. The
// substring, regex and token strategies share one Provider interface so the
// CLI and the HTTP surface filter the same way.
package search

import (
	"fmt"

	"github.com/cristianoliveira/toastq/internal/domain"
)

// Provider matches a record against a query.
type Provider interface {
	// Match returns true if the record matches query. An empty query
	// matches everything.
	Match(record domain.HistoryRecord, query string) bool

	// Name returns the provider name for identification and debugging.
	Name() string
}

// Searchable record fields.
const (
	FieldMessage     = "message"
	FieldDescription = "description"
	FieldKind        = "kind"
	FieldPosition    = "position"
	FieldReason      = "reason"
	FieldID          = "id"
)

// Modes accepted by New.
const (
	ModeSubstring = "substring"
	ModeRegex     = "regex"
	ModeToken     = "token"
)

// Options holds configuration options for creating search providers.
type Options struct {
	CaseInsensitive bool
	Fields          []string
}

// DefaultOptions returns the default search options.
func DefaultOptions() Options {
	return Options{
		CaseInsensitive: false,
		Fields:          []string{FieldMessage, FieldDescription},
	}
}

// Option is a function that modifies search options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive search.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithFields sets the fields to search in.
func WithFields(fields []string) Option {
	return func(o *Options) {
		o.Fields = fields
	}
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns the provider for mode. An empty mode means substring.
func New(mode string, opts ...Option) (Provider, error) {
	switch mode {
	case "", ModeSubstring:
		return NewSubstringProvider(opts...), nil
	case ModeRegex:
		return NewRegexProvider(opts...), nil
	case ModeToken:
		return NewTokenProvider(opts...), nil
	default:
		return nil, fmt.Errorf("invalid search mode %q (substring, regex, token)", mode)
	}
}

// Filter returns the records matching query, keeping their order.
func Filter(records []domain.HistoryRecord, p Provider, query string) []domain.HistoryRecord {
	if query == "" {
		return records
	}
	out := make([]domain.HistoryRecord, 0, len(records))
	for _, r := range records {
		if p.Match(r, query) {
			out = append(out, r)
		}
	}
	return out
}

func fieldValue(r domain.HistoryRecord, field string) string {
	switch field {
	case FieldMessage:
		return r.Message
	case FieldDescription:
		return r.Description
	case FieldKind:
		return string(r.Kind)
	case FieldPosition:
		return string(r.Position)
	case FieldReason:
		return string(r.Reason)
	case FieldID:
		return r.ToastID
	}
	return ""
}
