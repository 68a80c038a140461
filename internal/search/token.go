package search

import (
	"strings"

	"github.com/cristianoliveira/toastq/internal/domain"
)

// TokenProvider splits the query on whitespace; every token must match
// (AND logic). A token of the form field:value only looks at that field, so
// "kind:error disk" finds error toasts mentioning disk.
type TokenProvider struct {
	opts Options
}

// NewTokenProvider creates a new token search provider.
func NewTokenProvider(opts ...Option) Provider {
	return &TokenProvider{opts: applyOptions(opts)}
}

// Match returns true if every token matches at least one field.
func (p *TokenProvider) Match(record domain.HistoryRecord, query string) bool {
	for _, token := range strings.Fields(query) {
		fields := p.opts.Fields
		if field, value, ok := strings.Cut(token, ":"); ok && isField(field) && value != "" {
			fields = []string{field}
			token = value
		}
		if !p.matchAny(record, fields, token) {
			return false
		}
	}
	return true
}

func (p *TokenProvider) matchAny(record domain.HistoryRecord, fields []string, token string) bool {
	if p.opts.CaseInsensitive {
		token = strings.ToLower(token)
	}
	for _, field := range fields {
		value := fieldValue(record, field)
		if p.opts.CaseInsensitive {
			value = strings.ToLower(value)
		}
		if value != "" && strings.Contains(value, token) {
			return true
		}
	}
	return false
}

// Name returns the provider name.
func (p *TokenProvider) Name() string {
	return ModeToken
}

func isField(name string) bool {
	switch name {
	case FieldMessage, FieldDescription, FieldKind, FieldPosition, FieldReason, FieldID:
		return true
	}
	return false
}
