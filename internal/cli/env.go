package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/rank"
	"github.com/roach88/obsparse/internal/resolver"
	"github.com/roach88/obsparse/internal/schema"
	"github.com/roach88/obsparse/internal/store"
)

// ParseOptions holds the flags shared by the search and params commands.
type ParseOptions struct {
	*RootOptions
	Schema   string
	Database string
	Seed     string
	Ranks    string
	Location string
	Actor    int64
	Record   bool
}

func (o *ParseOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Schema, "schema", "", "CUE schema directory (required)")
	cmd.Flags().StringVar(&o.Database, "db", "", "resolve objects from this SQLite database")
	cmd.Flags().StringVar(&o.Seed, "seed", "", "seed YAML loaded before parsing")
	cmd.Flags().StringVar(&o.Ranks, "ranks", "", "rank table YAML (default built-in table)")
	cmd.Flags().StringVar(&o.Location, "tz", "UTC", "IANA time zone for time parameters")
	cmd.Flags().Int64Var(&o.Actor, "actor", 0, "user id for permission checks")
	cmd.Flags().BoolVar(&o.Record, "record", false, "record the parsed result in the database query log")
	_ = cmd.MarkFlagRequired("schema")
}

// env is everything a parse command needs, opened from ParseOptions.
type env struct {
	schema   *schema.Schema
	resolver resolver.Resolver
	store    *store.Store // nil without --db
	ranks    *rank.Table
	location *time.Location
}

func (e *env) Close() {
	if e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// openEnv loads the schema and opens the resolver. Failures are command
// errors.
func openEnv(ctx context.Context, o *ParseOptions) (*env, error) {
	if o.Record && o.Database == "" {
		return nil, NewExitError(ExitCommandError, "--record requires --db")
	}

	slog.Debug("loading schema", "dir", o.Schema)
	s, err := schema.Load(o.Schema)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load schema", err)
	}
	slog.Debug("schema loaded", "files", s.Files, "params", s.Params.Len(), "search_fields", len(s.Search.Names()))

	e := &env{schema: s, ranks: rank.Default(), location: time.UTC}

	if o.Location != "" {
		if e.location, err = time.LoadLocation(o.Location); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load time zone", err)
		}
	}
	if o.Ranks != "" {
		if e.ranks, err = rank.Load(o.Ranks); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load rank table", err)
		}
	}

	var seed *resolver.Seed
	if o.Seed != "" {
		if seed, err = resolver.LoadSeed(o.Seed); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load seed", err)
		}
	}

	if o.Database != "" {
		st, err := store.Open(o.Database)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open database", err)
		}
		e.store = st
		e.resolver = st
		if seed != nil {
			if err := st.LoadSeed(ctx, seed); err != nil {
				e.Close()
				return nil, WrapExitError(ExitCommandError, "failed to seed database", err)
			}
		}
		return e, nil
	}

	m := resolver.NewMemory()
	if seed != nil {
		seed.Apply(m)
	}
	e.resolver = m
	return e, nil
}

// record logs a parsed result when --record is set and returns its
// fingerprint either way.
func (e *env) record(ctx context.Context, o *ParseOptions, surface, input string, v ir.Value) (string, error) {
	if !o.Record {
		domain := ir.DomainParams
		if surface == store.SurfaceSearch {
			domain = ir.DomainQuery
		}
		return ir.Fingerprint(domain, v)
	}
	fp, err := e.store.RecordQuery(ctx, surface, input, v)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to record query", err)
	}
	slog.Debug("query recorded", "fingerprint", fp, "surface", surface)
	return fp, nil
}

// printObject writes one "name: json" line per key, in key order.
func printObject(formatter *OutputFormatter, obj ir.Object) error {
	for _, k := range obj.SortedKeys() {
		b, err := ir.MarshalCanonical(obj[k])
		if err != nil {
			return err
		}
		fmt.Fprintf(formatter.Writer, "%s: %s\n", k, b)
	}
	return nil
}
