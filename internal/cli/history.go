package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/obsparse/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Surface  string // optional: "search" or "params"
}

// HistoryResult holds the recorded queries.
type HistoryResult struct {
	Queries []store.QueryRecord `json:"queries"`
	Total   int                 `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded queries",
		Long: `List queries recorded with --record, oldest first.

Inputs that parsed to the same values share one fingerprint and are listed
once, under the first input that produced them, with a count of how many
times any of them was recorded.

Examples:
  obsparse history --db ./catalog.db
  obsparse history --db ./catalog.db --surface search --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Surface, "surface", "", "only show search or params queries")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)

	switch opts.Surface {
	case "", store.SurfaceSearch, store.SurfaceParams:
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid surface %q: must be search or params", opts.Surface))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	all, err := st.Queries(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read query log", err)
	}
	result := HistoryResult{Queries: []store.QueryRecord{}}
	for _, q := range all {
		if opts.Surface == "" || q.Surface == opts.Surface {
			result.Queries = append(result.Queries, q)
		}
	}
	result.Total = len(result.Queries)

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	if result.Total == 0 {
		fmt.Fprintln(formatter.Writer, "No queries recorded.")
		return nil
	}
	for _, q := range result.Queries {
		fmt.Fprintf(formatter.Writer, "[%d] %s %s (%d hits)\n", q.Seq, q.Surface, q.Input, q.Hits)
		fmt.Fprintf(formatter.Writer, "    %s\n", q.Fingerprint)
		if opts.Verbose {
			fmt.Fprintf(formatter.Writer, "    %s\n", q.Result)
		}
	}
	return nil
}
