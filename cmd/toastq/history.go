package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cristianoliveira/toastq/cmd"
	"github.com/cristianoliveira/toastq/internal/app"
	"github.com/cristianoliveira/toastq/internal/colors"
	"github.com/cristianoliveira/toastq/internal/dedup"
	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/spf13/cobra"
)

type historyClient interface {
	OpenHistory() (*domain.HistoryService, func() error, error)
}

// NewHistoryCmd creates the history command with explicit dependencies.
func NewHistoryCmd(client historyClient) *cobra.Command {
	if client == nil {
		panic("NewHistoryCmd: client dependency cannot be nil")
	}

	var (
		kind       string
		position   string
		reason     string
		since      string
		limit      int
		groupBy    string
		groupCount bool
		formatName string
		query      string
		searchMode string
		ignoreCase bool
		dedupe     bool
	)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List dismissed toasts",
		Long: `List dismissed toasts, newest first.

USAGE:
    toastq history [OPTIONS]

OPTIONS:
    --kind KIND           Filter by kind
    --position POSITION   Filter by anchor
    --reason REASON       Filter by dismiss reason (manual, auto, all, action, cancel)
    --since WINDOW        Only toasts dismissed within WINDOW (7d, 36h, 15m)
    --limit N             Show at most N records
    --group-by FIELD      Group by kind, position or reason
    --group-count         Only print the size of each group
    --format FORMAT       simple, table, compact or json
    --search QUERY        Only toasts whose message or description match QUERY
    --search-mode MODE    substring, regex or token (token accepts kind:error)
    -i, --ignore-case     Case-insensitive search
    --dedupe              Show only the newest of repeated toasts (dedup_criteria, dedup_window_ms)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := parseSince(since)
			if err != nil {
				return err
			}

			dedupOpts := dedup.OptionsFromConfig()

			svc, closeStore, err := client.OpenHistory()
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					colors.Debug("history: close:", err.Error())
				}
			}()

			return app.NewHistoryUseCase(svc).Execute(app.HistoryInput{
				Context: commandContext(cmd),
				Filter: domain.FilterOptions{
					Kind:     kind,
					Position: position,
					Reason:   reason,
					Since:    window,
					Limit:    limit,
				},
				GroupBy:       groupBy,
				GroupCount:    groupCount,
				Format:        formatName,
				Search:        query,
				SearchMode:    searchMode,
				IgnoreCase:    ignoreCase,
				Dedupe:        dedupe,
				DedupCriteria: dedupOpts.Criteria,
				DedupWindow:   dedupOpts.Window,
			}, cmd.OutOrStdout())
		},
	}

	historyCmd.Flags().StringVar(&kind, "kind", "", "Filter by kind")
	historyCmd.Flags().StringVar(&position, "position", "", "Filter by anchor")
	historyCmd.Flags().StringVar(&reason, "reason", "", "Filter by dismiss reason")
	historyCmd.Flags().StringVar(&since, "since", "", "Look-back window, e.g. 7d or 36h")
	historyCmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of records (0 for all)")
	historyCmd.Flags().StringVar(&groupBy, "group-by", "", "Group by kind, position or reason")
	historyCmd.Flags().BoolVar(&groupCount, "group-count", false, "Print group sizes only")
	historyCmd.Flags().StringVar(&formatName, "format", "table", "Output format: simple, table, compact, json")

	historyCmd.Flags().StringVar(&query, "search", "", "Search query")
	historyCmd.Flags().StringVar(&searchMode, "search-mode", "substring", "Search mode: substring, regex, token")
	historyCmd.Flags().BoolVar(&dedupe, "dedupe", false, "Collapse repeated toasts")
	historyCmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "Case-insensitive search")

	return historyCmd
}

// parseSince accepts a Go duration or a whole number of days ("7d").
func parseSince(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid --since %q: days must be a non-negative integer", value)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid --since %q: use a duration like 36h or 7d", value)
	}
	return d, nil
}

func init() {
	cmd.RootCmd.AddCommand(NewHistoryCmd(deps))
}
