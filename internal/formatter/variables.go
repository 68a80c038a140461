package formatter

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cristianoliveira/toastq/internal/domain"
)

// VariableContext contains all data needed for template variable resolution.
type VariableContext struct {
	ActiveCount int
	KindCounts  map[domain.Kind]int

	LatestMessage string
	LatestKind    domain.Kind

	// HighestSeverity is the most severe kind on screen, empty when idle.
	HighestSeverity domain.Kind

	// PositionList names the occupied anchors, comma separated.
	PositionList string
}

// Variables lists every name the resolver understands.
var Variables = func() []string {
	names := []string{"active-count", "total-count"}
	for _, k := range domain.Kinds {
		names = append(names, string(k)+"-count")
	}
	return append(names,
		"latest-message", "latest-message-json", "latest-kind",
		"highest-severity", "severity-rank",
		"has-active", "has-errors", "has-loading",
		"position-list",
	)
}()

var variableSet = func() map[string]bool {
	m := make(map[string]bool, len(Variables))
	for _, v := range Variables {
		m[v] = true
	}
	return m
}()

// IsVariable reports whether name is a known variable.
func IsVariable(name string) bool {
	return variableSet[name]
}

// VariableResolver resolves template variables to their values.
type VariableResolver interface {
	Resolve(varName string, ctx VariableContext) (string, error)
}

type variableResolver struct{}

// NewVariableResolver creates a new variable resolver instance.
func NewVariableResolver() VariableResolver {
	return &variableResolver{}
}

func (vr *variableResolver) Resolve(varName string, ctx VariableContext) (string, error) {
	switch varName {
	case "active-count", "total-count":
		return strconv.Itoa(ctx.ActiveCount), nil

	case "latest-message":
		return ctx.LatestMessage, nil

	case "latest-message-json":
		data, err := json.Marshal(ctx.LatestMessage)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "latest-kind":
		return string(ctx.LatestKind), nil

	case "highest-severity":
		return string(ctx.HighestSeverity), nil

	case "severity-rank":
		if ctx.HighestSeverity == "" {
			return "", nil
		}
		// 1 is the most severe
		return strconv.Itoa(ctx.HighestSeverity.Severity() + 1), nil

	case "has-active":
		return strconv.FormatBool(ctx.ActiveCount > 0), nil

	case "has-errors":
		return strconv.FormatBool(ctx.KindCounts[domain.KindError] > 0), nil

	case "has-loading":
		return strconv.FormatBool(ctx.KindCounts[domain.KindLoading] > 0), nil

	case "position-list":
		return ctx.PositionList, nil
	}

	for _, k := range domain.Kinds {
		if varName == string(k)+"-count" {
			return strconv.Itoa(ctx.KindCounts[k]), nil
		}
	}
	return "", fmt.Errorf("unknown variable: %s", varName)
}
