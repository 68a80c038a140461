package logging

import (
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

var keySeparator = regexp.MustCompile(`[^a-z0-9]+`)

// redactor blanks values whose key names a secret.
type redactor struct {
	sensitive map[string]bool
}

func newRedactor() *redactor {
	words := []string{"secret", "password", "token", "key", "auth", "credential"}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return &redactor{sensitive: m}
}

// redact returns a copy of the flattened key-value pairs with sensitive
// values replaced. A key matches when one of its segments is a sensitive word.
func (r *redactor) redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	out := make([]any, len(pairs))
	copy(out, pairs)
	for i := 0; i+1 < len(out); i += 2 {
		if key, ok := out[i].(string); ok && r.isSensitive(key) {
			out[i+1] = redacted
		}
	}
	return out
}

func (r *redactor) isSensitive(key string) bool {
	for _, part := range keySeparator.Split(strings.ToLower(key), -1) {
		if r.sensitive[part] {
			return true
		}
	}
	return false
}
