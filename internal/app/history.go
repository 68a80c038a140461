package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cristianoliveira/toastq/internal/colors"
	"github.com/cristianoliveira/toastq/internal/dedup"
	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/cristianoliveira/toastq/internal/format"
	"github.com/cristianoliveira/toastq/internal/search"
)

// HistoryClient defines dependencies required to list history.
type HistoryClient interface {
	List(ctx context.Context, opts domain.FilterOptions) ([]domain.HistoryRecord, error)
}

// HistoryInput holds parsed history options.
type HistoryInput struct {
	Context    context.Context
	Filter     domain.FilterOptions
	GroupBy    string
	GroupCount bool
	Format     string
	// Search keeps records matching the query, see package search.
	Search     string
	SearchMode string
	IgnoreCase bool
	// Dedupe keeps only the newest record of each duplicate group.
	Dedupe        bool
	DedupCriteria dedup.Criteria
	DedupWindow   time.Duration
}

// HistoryUseCase coordinates history listing.
type HistoryUseCase struct {
	client HistoryClient
}

// NewHistoryUseCase creates a new history use-case.
func NewHistoryUseCase(client HistoryClient) *HistoryUseCase {
	if client == nil {
		panic("NewHistoryUseCase: client dependency cannot be nil")
	}
	return &HistoryUseCase{client: client}
}

// Execute prints history records according to input.
func (u *HistoryUseCase) Execute(input HistoryInput, w io.Writer) error {
	ctx := input.Context
	if ctx == nil {
		ctx = context.Background()
	}

	groupBy := domain.GroupByNone
	if input.GroupBy != "" {
		groupBy = domain.GroupByMode(input.GroupBy)
		if !groupBy.IsValid() {
			return fmt.Errorf("history: invalid group-by %q (none, kind, position, reason)", input.GroupBy)
		}
	}
	if input.GroupCount && groupBy == domain.GroupByNone {
		return fmt.Errorf("history: --group-count requires --group-by")
	}

	records, err := u.list(ctx, input)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	formatter := format.GetFormatter(input.Format, input.GroupCount)
	if len(records) == 0 && format.FormatterType(input.Format) != format.FormatterTypeJSON {
		_, _ = fmt.Fprintf(w, "%s%s%s\n", colors.Blue, "No history found", colors.Reset)
		return nil
	}

	if groupBy == domain.GroupByNone {
		return formatter.FormatRecords(records, w)
	}
	return formatter.FormatGroups(domain.GroupRecords(records, groupBy), w)
}

// list applies search and dedupe before the limit so --limit counts what
// is printed.
func (u *HistoryUseCase) list(ctx context.Context, input HistoryInput) ([]domain.HistoryRecord, error) {
	if input.Search == "" && !input.Dedupe {
		return u.client.List(ctx, input.Filter)
	}

	var provider search.Provider
	if input.Search != "" {
		var err error
		provider, err = search.New(input.SearchMode, search.WithCaseInsensitive(input.IgnoreCase))
		if err != nil {
			return nil, err
		}
		if re, ok := provider.(*search.RegexProvider); ok {
			if _, err := re.Compile(input.Search); err != nil {
				return nil, fmt.Errorf("invalid search pattern: %w", err)
			}
		}
	}

	filter := input.Filter
	filter.Limit = 0
	records, err := u.client.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if provider != nil {
		records = search.Filter(records, provider, input.Search)
	}
	if input.Dedupe {
		records = dedup.Collapse(records, dedup.Options{Criteria: input.DedupCriteria, Window: input.DedupWindow})
	}
	if input.Filter.Limit > 0 && len(records) > input.Filter.Limit {
		records = records[:input.Filter.Limit]
	}
	return records, nil
}
