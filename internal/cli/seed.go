package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/obsparse/internal/resolver"
	"github.com/roach88/obsparse/internal/store"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Database string
}

// SeedResult is the output of the seed command.
type SeedResult struct {
	Database string `json:"database"`
	Entities int    `json:"entities"`
	Grants   int    `json:"grants"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed <seed.yaml>",
		Short: "Load catalog entities into a database",
		Long: `Load entities and permission grants from a seed YAML file into a SQLite
database, creating it if needed. Existing entities with the same type and
id are replaced.

Example:
  obsparse seed --db ./catalog.db ./seed.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSeed(opts *SeedOptions, path string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)

	seed, err := resolver.LoadSeed(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load seed", err)
	}

	slog.Info("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if err := st.LoadSeed(cmd.Context(), seed); err != nil {
		return WrapExitError(ExitCommandError, "failed to seed database", err)
	}

	result := SeedResult{
		Database: opts.Database,
		Entities: len(seed.Entities),
		Grants:   len(seed.Grants),
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Seeded %s: %d entities, %d grants\n", result.Database, result.Entities, result.Grants)
	return nil
}
