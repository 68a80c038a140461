// Package formatter renders status-line templates from a summary of the
// active toasts. Templates use {{variable-name}} placeholders; named presets
// cover the common layouts.
package formatter

import (
	"fmt"
	"regexp"
	"strings"
)

// TemplateEngine provides template parsing and variable substitution.
type TemplateEngine interface {
	// Parse returns the variables found in the template, without duplicates.
	Parse(template string) ([]string, error)

	// Substitute replaces variables in the template with values from ctx.
	Substitute(template string, ctx VariableContext) (string, error)

	// Validate checks delimiters and that every variable is known.
	Validate(template string) error
}

type templateEngine struct {
	variablePattern *regexp.Regexp
	resolver        VariableResolver
}

// NewTemplateEngine creates a new template engine instance.
func NewTemplateEngine() TemplateEngine {
	return &templateEngine{
		variablePattern: regexp.MustCompile(`\{\{([a-z0-9-]+)\}\}`),
		resolver:        NewVariableResolver(),
	}
}

// IsTemplate reports whether s contains a placeholder and should be
// rendered as a template rather than looked up as a preset name.
func IsTemplate(s string) bool {
	return strings.Contains(s, "{{")
}

func (te *templateEngine) Parse(template string) ([]string, error) {
	matches := te.variablePattern.FindAllStringSubmatch(template, -1)
	seen := make(map[string]bool, len(matches))
	variables := []string{}
	for _, match := range matches {
		if !seen[match[1]] {
			seen[match[1]] = true
			variables = append(variables, match[1])
		}
	}
	return variables, nil
}

func (te *templateEngine) Substitute(template string, ctx VariableContext) (string, error) {
	if err := te.Validate(template); err != nil {
		return "", err
	}
	var firstErr error
	out := te.variablePattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[2 : len(match)-2]
		value, err := te.resolver.Resolve(name, ctx)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return value
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

func (te *templateEngine) Validate(template string) error {
	openCount := strings.Count(template, "{{")
	closeCount := strings.Count(template, "}}")
	if openCount != closeCount {
		return fmt.Errorf("mismatched variable delimiters: %d opens, %d closes", openCount, closeCount)
	}
	variables, _ := te.Parse(template)
	for _, name := range variables {
		if !IsVariable(name) {
			return fmt.Errorf("unknown variable: %s (available: %s)", name, strings.Join(Variables, ", "))
		}
	}
	return nil
}
