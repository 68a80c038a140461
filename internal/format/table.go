package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cristianoliveira/toastq/internal/colors"
	"github.com/cristianoliveira/toastq/internal/domain"
)

// TableConfig holds configuration for table formatting.
type TableConfig struct {
	// ShowHeaders determines whether to show column headers.
	ShowHeaders bool

	// HeaderColor is the color to use for headers.
	HeaderColor string

	// ColumnWidths defines the width for each column.
	ColumnWidths map[string]int

	// ColumnAlignments defines the alignment for each column (left, right, center).
	ColumnAlignments map[string]string
}

// DefaultTableConfig returns a default table configuration.
func DefaultTableConfig() *TableConfig {
	return &TableConfig{
		ShowHeaders: true,
		HeaderColor: colors.Blue,
		ColumnWidths: map[string]int{
			"Toast":     8,
			"Dismissed": 19,
			"Kind":      7,
			"Position":  13,
			"Reason":    6,
			"Lifetime":  8,
			"Message":   32,
		},
		ColumnAlignments: map[string]string{
			"Toast":    "right",
			"Lifetime": "right",
		},
	}
}

// TableColumn represents a column in a table.
type TableColumn struct {
	// Name is the column name displayed in the header.
	Name string

	// Width is the column width in characters.
	Width int

	// Alignment is the text alignment (left, right, center).
	Alignment string

	// Extractor extracts the cell text from a record. The result is padded
	// to Width before Decorate runs.
	Extractor func(*domain.HistoryRecord) string

	// Decorate optionally wraps the padded cell, e.g. with a color.
	Decorate func(*domain.HistoryRecord, string) string
}

// TableFormatter formats history records as an aligned table.
type TableFormatter struct {
	config  *TableConfig
	columns []TableColumn
}

// NewTableFormatter creates a new TableFormatter with the default columns.
func NewTableFormatter() *TableFormatter {
	config := DefaultTableConfig()
	col := func(name string, extract func(*domain.HistoryRecord) string) TableColumn {
		return TableColumn{
			Name:      name,
			Width:     config.ColumnWidths[name],
			Alignment: config.ColumnAlignments[name],
			Extractor: extract,
		}
	}

	kind := col("Kind", func(r *domain.HistoryRecord) string { return r.Kind.String() })
	kind.Decorate = func(r *domain.HistoryRecord, cell string) string { return colors.Colorize(r.Kind, cell) }

	columns := []TableColumn{
		col("Toast", func(r *domain.HistoryRecord) string { return r.ToastID }),
		col("Dismissed", func(r *domain.HistoryRecord) string {
			return r.DismissedAt.Local().Format(timeLayout)
		}),
		kind,
		col("Position", func(r *domain.HistoryRecord) string { return r.Position.String() }),
		col("Reason", func(r *domain.HistoryRecord) string { return r.Reason.String() }),
		col("Lifetime", func(r *domain.HistoryRecord) string { return formatLifetime(r.Lifetime()) }),
		col("Message", func(r *domain.HistoryRecord) string { return r.Message }),
	}
	return &TableFormatter{config: config, columns: columns}
}

// WithColumns adds custom columns to the formatter.
func (f *TableFormatter) WithColumns(columns ...TableColumn) *TableFormatter {
	f.columns = append(f.columns, columns...)
	return f
}

// FormatRecords formats records as a table. Nothing is written for an empty slice.
func (f *TableFormatter) FormatRecords(records []domain.HistoryRecord, writer io.Writer) error {
	if len(records) == 0 {
		return nil
	}

	if f.config.ShowHeaders {
		if err := f.writeLine(writer, func(col TableColumn) string {
			return formatString(col.Name, col.Width, "left")
		}); err != nil {
			return err
		}
		if err := f.writeLine(writer, func(col TableColumn) string {
			return strings.Repeat("-", col.Width)
		}); err != nil {
			return err
		}
	}

	for i := range records {
		if err := f.writeRow(&records[i], writer); err != nil {
			return err
		}
	}
	return nil
}

// FormatGroups formats grouped records, one table per group.
func (f *TableFormatter) FormatGroups(groups domain.GroupResult, writer io.Writer) error {
	return formatGroups(groups, writer, f.FormatRecords)
}

func (f *TableFormatter) writeLine(writer io.Writer, cell func(TableColumn) string) error {
	cells := make([]string, len(f.columns))
	for i, col := range f.columns {
		cells[i] = cell(col)
	}
	_, err := fmt.Fprintf(writer, "%s%s%s\n", f.config.HeaderColor, strings.Join(cells, "  "), colors.Reset)
	return err
}

func (f *TableFormatter) writeRow(r *domain.HistoryRecord, writer io.Writer) error {
	cells := make([]string, len(f.columns))
	for i, col := range f.columns {
		cell := formatString(truncate(col.Extractor(r), col.Width), col.Width, col.Alignment)
		if col.Decorate != nil {
			cell = col.Decorate(r, cell)
		}
		cells[i] = cell
	}
	_, err := fmt.Fprintln(writer, strings.TrimRight(strings.Join(cells, "  "), " "))
	return err
}

// formatLifetime renders d with one decimal for sub-minute values.
func formatLifetime(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

// formatString formats a string with the specified width and alignment.
func formatString(s string, width int, alignment string) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}

	pad := width - len(r)
	switch alignment {
	case "right":
		return strings.Repeat(" ", pad) + s
	case "center":
		left := pad / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
	default: // left
		return s + strings.Repeat(" ", pad)
	}
}

// truncate shortens s to width runes, ending with "..." when cut.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width < 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
