package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/obsparse/internal/parseerr"
	"github.com/roach88/obsparse/internal/search"
	"github.com/roach88/obsparse/internal/store"
)

// SearchOutput is the JSON payload of a successful search.
type SearchOutput struct {
	Input       string         `json:"input"`
	Results     search.Results `json:"results"`
	Fingerprint string         `json:"fingerprint"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Interpret a search string",
		Long: `Interpret a search string against the search fields of a schema.

Each term is parsed by its field's accessor. Object lists (names, users,
projects, ...) are resolved against --db, or against an in-memory catalog
built from --seed. The first error stops interpretation.

Exit codes:
  0 - The query parsed
  1 - The query did not parse
  2 - Command error (bad schema, database, seed)

Examples:
  obsparse search --schema ./schema --seed ./seed.yaml 'Russula user:jason'
  obsparse search --schema ./schema --db ./catalog.db --record 'rank:species-genus'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, args[0], cmd)
		},
	}
	opts.addFlags(cmd)

	return cmd
}

func runSearch(opts *ParseOptions, input string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.newFormatter(cmd)

	e, err := openEnv(ctx, opts)
	if err != nil {
		return err
	}
	defer e.Close()

	in := search.NewInterpreter(e.schema.Search,
		search.WithResolver(e.resolver),
		search.WithRanks(e.ranks),
	)
	results, err := in.Interpret(ctx, input)
	if err != nil {
		pe, ok := parseerr.As(err)
		if !ok {
			return WrapExitError(ExitCommandError, "search failed", err)
		}
		if err := formatter.ParseErrors([]*parseerr.Error{pe}, nil); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "query did not parse")
	}

	fp, err := e.record(ctx, opts, store.SurfaceSearch, input, results.Object())
	if err != nil {
		return err
	}
	formatter.VerboseLog("Interpreted %d term(s)", len(results))

	if formatter.Format == "json" {
		return formatter.Success(SearchOutput{Input: input, Results: results, Fingerprint: fp})
	}
	if err := printObject(formatter, results.Object()); err != nil {
		return err
	}
	fmt.Fprintf(formatter.Writer, "fingerprint: %s\n", fp)
	return nil
}
