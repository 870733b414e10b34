package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/obsparse/internal/parseerr"
	"github.com/roach88/obsparse/internal/pattern"
)

// NewTokenizeCommand creates the tokenize command.
func NewTokenizeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <query>",
		Short: "Split a search string into terms",
		Long: `Split a search string into terms without interpreting them.

Each term is printed with its dequoted values. Repeated fields are merged
into their first occurrence.

Examples:
  obsparse tokenize 'Russula user:jason,"Alan R." date:2009-2010'
  obsparse tokenize --format json 'name:"Boletus edulis"'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenize(rootOpts.newFormatter(cmd), args[0])
		},
	}
}

func runTokenize(formatter *OutputFormatter, input string) error {
	terms, err := pattern.Tokenize(input)
	if err != nil {
		pe, ok := parseerr.As(err)
		if !ok {
			return err
		}
		if err := formatter.ParseErrors([]*parseerr.Error{pe}, nil); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "query did not tokenize")
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{
			"terms":     terms,
			"canonical": pattern.Format(terms),
		})
	}
	for _, t := range terms {
		fmt.Fprintf(formatter.Writer, "%s: %s\n", t.Field, strings.Join(t.Values, " | "))
	}
	return nil
}
