// Package format provides output formatting for CLI commands.
// It includes history record formatters and the lifecycle event printer.
package format

import (
	"fmt"
	"io"

	"github.com/cristianoliveira/toastq/internal/domain"
)

// Formatter defines the interface for history output formatters.
type Formatter interface {
	// FormatRecords formats a slice of history records and writes to the writer.
	FormatRecords(records []domain.HistoryRecord, writer io.Writer) error

	// FormatGroups formats grouped records and writes to the writer.
	FormatGroups(groups domain.GroupResult, writer io.Writer) error
}

// FormatterType represents the type of formatter to use.
type FormatterType string

const (
	// FormatterTypeSimple displays records as one line with time, kind and message.
	FormatterTypeSimple FormatterType = "simple"

	// FormatterTypeTable displays records in a table with headers.
	FormatterTypeTable FormatterType = "table"

	// FormatterTypeCompact displays only messages.
	FormatterTypeCompact FormatterType = "compact"

	// FormatterTypeJSON displays records as JSON.
	FormatterTypeJSON FormatterType = "json"
)

// FormatterTypes lists the accepted --format values.
var FormatterTypes = []FormatterType{
	FormatterTypeSimple,
	FormatterTypeTable,
	FormatterTypeCompact,
	FormatterTypeJSON,
}

// NewFormatter creates a new formatter of the specified type.
func NewFormatter(formatterType FormatterType) Formatter {
	switch formatterType {
	case FormatterTypeTable:
		return NewTableFormatter()
	case FormatterTypeCompact:
		return NewCompactFormatter()
	case FormatterTypeJSON:
		return NewJSONFormatter()
	default:
		return NewSimpleFormatter()
	}
}

// GetFormatter returns the formatter for format, falling back to simple for
// unknown names. With groupCount only group headers and counts are printed.
func GetFormatter(format string, groupCount bool) Formatter {
	formatterType := FormatterTypeSimple
	for _, ft := range FormatterTypes {
		if string(ft) == format {
			formatterType = ft
			break
		}
	}
	if groupCount {
		return NewGroupCountFormatter(NewFormatter(formatterType))
	}
	return NewFormatter(formatterType)
}

// GroupCountFormatter formats only group counts.
type GroupCountFormatter struct {
	formatter Formatter
}

// NewGroupCountFormatter creates a new GroupCountFormatter.
func NewGroupCountFormatter(formatter Formatter) *GroupCountFormatter {
	return &GroupCountFormatter{formatter: formatter}
}

// FormatRecords is not applicable for GroupCountFormatter.
func (f *GroupCountFormatter) FormatRecords(records []domain.HistoryRecord, writer io.Writer) error {
	return fmt.Errorf("formatRecords not supported for GroupCountFormatter")
}

// FormatGroups formats only group counts.
func (f *GroupCountFormatter) FormatGroups(groups domain.GroupResult, writer io.Writer) error {
	if _, ok := f.formatter.(*JSONFormatter); ok {
		counts := make(map[string]int, len(groups.Groups))
		for _, g := range groups.Groups {
			counts[g.Key] = g.Count
		}
		return writeJSON(writer, counts)
	}
	for _, group := range groups.Groups {
		if _, err := fmt.Fprintf(writer, "Group: %s (%d)\n", group.Key, group.Count); err != nil {
			return err
		}
	}
	return nil
}

// formatGroups writes a header per group followed by its records.
func formatGroups(groups domain.GroupResult, writer io.Writer, records func([]domain.HistoryRecord, io.Writer) error) error {
	for _, group := range groups.Groups {
		if _, err := fmt.Fprintf(writer, "=== %s (%d) ===\n", group.Key, group.Count); err != nil {
			return err
		}
		if err := records(group.Records, writer); err != nil {
			return err
		}
	}
	return nil
}
