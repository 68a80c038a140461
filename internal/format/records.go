package format

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cristianoliveira/toastq/internal/colors"
	"github.com/cristianoliveira/toastq/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// SimpleFormatter prints one line per record: time, kind and message.
type SimpleFormatter struct{}

// NewSimpleFormatter creates a new SimpleFormatter.
func NewSimpleFormatter() *SimpleFormatter {
	return &SimpleFormatter{}
}

// FormatRecords formats records in simple format.
func (f *SimpleFormatter) FormatRecords(records []domain.HistoryRecord, writer io.Writer) error {
	for _, r := range records {
		kind := colors.Colorize(r.Kind, formatString(r.Kind.String(), 7, "left"))
		_, err := fmt.Fprintf(writer, "%s  %s  %s\n",
			r.DismissedAt.Local().Format(timeLayout), kind, truncate(r.Message, 50))
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatGroups formats grouped records in simple format.
func (f *SimpleFormatter) FormatGroups(groups domain.GroupResult, writer io.Writer) error {
	return formatGroups(groups, writer, f.FormatRecords)
}

// CompactFormatter prints messages only.
type CompactFormatter struct{}

// NewCompactFormatter creates a new CompactFormatter.
func NewCompactFormatter() *CompactFormatter {
	return &CompactFormatter{}
}

// FormatRecords formats records in compact format.
func (f *CompactFormatter) FormatRecords(records []domain.HistoryRecord, writer io.Writer) error {
	for _, r := range records {
		if _, err := fmt.Fprintln(writer, truncate(r.Message, 60)); err != nil {
			return err
		}
	}
	return nil
}

// FormatGroups formats grouped records in compact format.
func (f *CompactFormatter) FormatGroups(groups domain.GroupResult, writer io.Writer) error {
	return formatGroups(groups, writer, f.FormatRecords)
}

// JSONFormatter formats records as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type recordJSON struct {
	ID          string    `json:"id"`
	ToastID     string    `json:"toast_id"`
	Kind        string    `json:"kind"`
	Position    string    `json:"position"`
	Message     string    `json:"message"`
	Description string    `json:"description,omitempty"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
	DismissedAt time.Time `json:"dismissed_at"`
	LifetimeMS  int64     `json:"lifetime_ms"`
}

type groupJSON struct {
	Key     string       `json:"key"`
	Count   int          `json:"count"`
	Records []recordJSON `json:"records"`
}

func toRecordJSON(records []domain.HistoryRecord) []recordJSON {
	out := make([]recordJSON, 0, len(records))
	for _, r := range records {
		out = append(out, recordJSON{
			ID:          r.ID,
			ToastID:     r.ToastID,
			Kind:        r.Kind.String(),
			Position:    r.Position.String(),
			Message:     r.Message,
			Description: r.Description,
			Reason:      r.Reason.String(),
			CreatedAt:   r.CreatedAt,
			DismissedAt: r.DismissedAt,
			LifetimeMS:  r.Lifetime().Milliseconds(),
		})
	}
	return out
}

// FormatRecords formats records as a JSON array.
func (f *JSONFormatter) FormatRecords(records []domain.HistoryRecord, writer io.Writer) error {
	return writeJSON(writer, toRecordJSON(records))
}

// FormatGroups formats grouped records as JSON.
func (f *JSONFormatter) FormatGroups(groups domain.GroupResult, writer io.Writer) error {
	out := struct {
		Mode   string      `json:"mode"`
		Total  int         `json:"total"`
		Groups []groupJSON `json:"groups"`
	}{Mode: groups.Mode.String(), Total: groups.TotalCount, Groups: []groupJSON{}}
	for _, g := range groups.Groups {
		out.Groups = append(out.Groups, groupJSON{Key: g.Key, Count: g.Count, Records: toRecordJSON(g.Records)})
	}
	return writeJSON(writer, out)
}

func writeJSON(writer io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history to JSON: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer)
	return err
}
