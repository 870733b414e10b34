package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/param"
	"github.com/roach88/obsparse/internal/parseerr"
	"github.com/roach88/obsparse/internal/rank"
	"github.com/roach88/obsparse/internal/resolver"
	"github.com/roach88/obsparse/internal/schema"
	"github.com/roach88/obsparse/internal/search"
	"github.com/roach88/obsparse/internal/store"
)

// Harness runs the cases of one scenario.
type Harness struct {
	parser      *param.Parser
	interpreter *search.Interpreter
	logger      *slog.Logger
}

// Run executes a scenario and returns the result. Each scenario gets a fresh
// resolver; with BackendSQLite that is an in-memory sqlite store.
//
// The returned error covers setup failures (schema, seed, backend). Case
// failures are reported in the Result.
func Run(sc *Scenario) (*Result, error) {
	ctx := context.Background()

	s, err := schema.Load(sc.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	seed, err := scenarioSeed(sc)
	if err != nil {
		return nil, err
	}

	var r resolver.Resolver
	switch sc.Backend {
	case BackendSQLite:
		st, err := store.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer st.Close()
		if err := st.LoadSeed(ctx, seed); err != nil {
			return nil, err
		}
		r = st
	default:
		m := resolver.NewMemory()
		seed.Apply(m)
		r = m
	}

	loc := time.UTC
	if sc.Location != "" {
		if loc, err = time.LoadLocation(sc.Location); err != nil {
			return nil, fmt.Errorf("failed to load location: %w", err)
		}
	}

	ranks := rank.Default()
	if sc.Ranks != "" {
		if ranks, err = rank.Load(sc.Ranks); err != nil {
			return nil, err
		}
	}

	h := &Harness{
		parser: param.NewParser(s.Params,
			param.WithResolver(r),
			param.WithActor(sc.Actor),
			param.WithLocation(loc),
		),
		interpreter: search.NewInterpreter(s.Search,
			search.WithResolver(r),
			search.WithRanks(ranks),
		),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	for _, c := range sc.Cases {
		cr, err := h.runCase(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", c.Name, err)
		}
		result.AddCase(cr)
	}
	return result, nil
}

func scenarioSeed(sc *Scenario) (*resolver.Seed, error) {
	seed := &resolver.Seed{}
	if sc.Seed != "" {
		loaded, err := resolver.LoadSeed(sc.Seed)
		if err != nil {
			return nil, err
		}
		seed = loaded
	}
	seed.Entities = append(seed.Entities, sc.Entities...)
	seed.Grants = append(seed.Grants, sc.Grants...)
	if err := seed.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return seed, nil
}

// runCase parses one case. Only non-structured errors are returned; parse
// errors are part of the outcome.
func (h *Harness) runCase(ctx context.Context, c Case) (CaseResult, error) {
	cr := CaseResult{Name: c.Name, Surface: c.Surface(), Input: c.Input()}

	var (
		values ir.Object
		errs   []error
		domain string
	)
	if c.Search != nil {
		domain = ir.DomainQuery
		results, err := h.interpreter.Interpret(ctx, *c.Search)
		if err != nil {
			errs = []error{err}
		} else {
			values = results.Object()
		}
	} else {
		domain = ir.DomainParams
		res := h.parser.ParseAll(ctx, param.Raw(c.Params))
		values, errs = res.Values, res.Errors
	}

	for _, err := range errs {
		pe, ok := parseerr.As(err)
		if !ok {
			return CaseResult{}, err
		}
		cr.Errors = append(cr.Errors, pe)
	}

	if len(cr.Errors) == 0 {
		cr.Values = values
		fp, err := ir.Fingerprint(domain, values)
		if err != nil {
			return CaseResult{}, err
		}
		cr.Fingerprint = fp
	}

	cr.Mismatch = checkExpect(c.Expect, cr.Values, cr.Errors)
	h.logger.Debug("case evaluated",
		"case", c.Name,
		"surface", cr.Surface,
		"pass", cr.Pass(),
	)
	return cr, nil
}
