package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/param"
	"github.com/roach88/obsparse/internal/parseerr"
	"github.com/roach88/obsparse/internal/store"
)

// ParamsOptions holds flags for the params command.
type ParamsOptions struct {
	*ParseOptions
	JSON string // JSON object body, or @file
}

// ParamsOutput is the JSON payload of a params run.
type ParamsOutput struct {
	Values      ir.Object `json:"values"`
	Fingerprint string    `json:"fingerprint,omitempty"`
}

// NewParamsCommand creates the params command.
func NewParamsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParamsOptions{ParseOptions: &ParseOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "params [key=value...]",
		Short: "Parse API query parameters",
		Long: `Parse API query parameters against the parameter declarations of a schema.

Parameters are given as key=value arguments, as a flat JSON object with
--json, or both; arguments override JSON keys. Every declared parameter is
parsed, absent ones yield their defaults, and all failures are reported.

Exit codes:
  0 - Every parameter parsed
  1 - One or more parameters did not parse
  2 - Command error (bad schema, database, seed, arguments)

Examples:
  obsparse params --schema ./schema id=1-3 'names=Boletus edulis'
  obsparse params --schema ./schema --json '{"region": ["north", "south"]}'
  obsparse params --schema ./schema --json @body.json --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParams(opts, args, cmd)
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.JSON, "json", "", "JSON object of parameters, or @file")

	return cmd
}

func runParams(opts *ParamsOptions, args []string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.newFormatter(cmd)

	raw, err := rawParams(opts.JSON, args)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid parameters", err)
	}

	e, err := openEnv(ctx, opts.ParseOptions)
	if err != nil {
		return err
	}
	defer e.Close()

	p := param.NewParser(e.schema.Params,
		param.WithResolver(e.resolver),
		param.WithActor(opts.Actor),
		param.WithLocation(e.location),
	)
	res := p.ParseAll(ctx, raw)

	if !res.OK() {
		errs := make([]*parseerr.Error, 0, len(res.Errors))
		for _, err := range res.Errors {
			pe, ok := parseerr.As(err)
			if !ok {
				return WrapExitError(ExitCommandError, "parameter parsing failed", err)
			}
			errs = append(errs, pe)
		}
		if err := formatter.ParseErrors(errs, ParamsOutput{Values: res.Values}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d parameter(s) did not parse", len(errs)))
	}

	fp, err := e.record(ctx, opts.ParseOptions, store.SurfaceParams, formatRaw(raw), res.Values)
	if err != nil {
		return err
	}

	if formatter.Format == "json" {
		return formatter.Success(ParamsOutput{Values: res.Values, Fingerprint: fp})
	}
	if err := printObject(formatter, res.Values); err != nil {
		return err
	}
	fmt.Fprintf(formatter.Writer, "fingerprint: %s\n", fp)
	return nil
}

// rawParams merges a JSON body with key=value arguments.
func rawParams(body string, args []string) (param.Raw, error) {
	raw := param.Raw{}
	if body != "" {
		data := []byte(body)
		if path, ok := strings.CutPrefix(body, "@"); ok {
			var err error
			if data, err = os.ReadFile(path); err != nil {
				return nil, fmt.Errorf("failed to read JSON body: %w", err)
			}
		}
		fromJSON, err := param.FromJSON(data)
		if err != nil {
			return nil, err
		}
		raw = fromJSON
	}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("argument %q is not key=value", arg)
		}
		raw[k] = v
	}
	return raw, nil
}

// formatRaw renders raw as sorted key=value pairs for the query log.
func formatRaw(raw param.Raw) string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		keys[i] = k + "=" + raw[k]
	}
	return strings.Join(keys, " ")
}
