package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/parseerr"
	"github.com/roach88/obsparse/internal/pattern"
	"github.com/roach88/obsparse/internal/rank"
	"github.com/roach88/obsparse/internal/resolver"
)

// ErrNoResolver is returned when a list field is used without a resolver.
var ErrNoResolver = errors.New("list field without resolver")

// Result is one interpreted term.
type Result struct {
	Field string   `json:"field"`
	Value ir.Value `json:"value"`
}

// Results is an interpreted search in term order.
type Results []Result

// Object returns the results keyed by field.
func (rs Results) Object() ir.Object {
	obj := make(ir.Object, len(rs))
	for _, r := range rs {
		obj[r.Field] = r.Value
	}
	return obj
}

// Fingerprint identifies the interpreted search independent of how it was
// spelled: term order, quoting and name aliases do not change it.
func (rs Results) Fingerprint() (string, error) {
	return ir.Fingerprint(ir.DomainQuery, rs.Object())
}

// Interpreter turns search strings into typed results. Safe for concurrent
// use.
type Interpreter struct {
	schema   *Schema
	resolver resolver.Resolver
	ranks    *rank.Table
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithResolver sets the resolver used by list fields.
func WithResolver(r resolver.Resolver) Option {
	return func(in *Interpreter) { in.resolver = r }
}

// WithRanks sets the rank table used by rank range fields. Default
// rank.Default().
func WithRanks(t *rank.Table) Option {
	return func(in *Interpreter) { in.ranks = t }
}

// NewInterpreter creates an interpreter over schema.
func NewInterpreter(schema *Schema, opts ...Option) *Interpreter {
	in := &Interpreter{schema: schema}
	for _, opt := range opts {
		opt(in)
	}
	if in.ranks == nil {
		in.ranks = rank.Default()
	}
	return in
}

// Schema returns the interpreter's field declarations.
func (in *Interpreter) Schema() *Schema { return in.schema }

// Interpret tokenizes input and reads every term with its field's accessor.
// It stops at the first failure. An undeclared field is BadTerm.
func (in *Interpreter) Interpret(ctx context.Context, input string) (Results, error) {
	terms, err := pattern.Tokenize(input)
	if err != nil {
		return nil, err
	}
	out := make(Results, 0, len(terms))
	for _, t := range terms {
		f, ok := in.schema.Lookup(t.Field)
		if !ok {
			return nil, parseerr.BadTerm(t.Field)
		}
		v, err := in.read(ctx, f, t)
		if err != nil {
			return nil, err
		}
		out = append(out, Result{Field: t.Field, Value: v})
	}
	return out, nil
}

func (in *Interpreter) read(ctx context.Context, f Field, t pattern.Term) (ir.Value, error) {
	switch f.Accessor {
	case AccString:
		s, err := t.ParseString()
		return ir.String(s), err
	case AccStrings:
		ss, err := t.ParseStrings()
		if err != nil {
			return nil, err
		}
		out := make(ir.List, len(ss))
		for i, s := range ss {
			out[i] = ir.String(s)
		}
		return out, nil
	case AccPattern:
		s, err := t.ParsePattern()
		return ir.String(s), err
	case AccBoolean, AccYes:
		b, err := t.ParseBoolean(f.Accessor == AccYes)
		return ir.Bool(b), err
	case AccYesNoBoth:
		s, err := t.ParseYesNoBoth()
		return ir.String(s), err
	case AccFloat:
		v, err := t.ParseFloat(f.Min, f.Max)
		return ir.Float(v), err
	case AccLatitude:
		v, err := t.ParseLatitude()
		return ir.Float(v), err
	case AccLongitude:
		v, err := t.ParseLongitude()
		return ir.Float(v), err
	case AccConfidence:
		return t.ParseConfidence()
	case AccDateRange:
		from, to, err := t.ParseDateRange()
		if err != nil {
			return nil, err
		}
		return ir.Collapse(ir.Range{From: ir.String(from), To: ir.String(to)}), nil
	case AccRankRange:
		from, to, err := t.ParseRankRange(in.ranks)
		if err != nil {
			return nil, err
		}
		return ir.Collapse(ir.Range{From: ir.String(from), To: ir.String(to)}), nil
	case AccList:
		if in.resolver == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoResolver, t.Field)
		}
		ids, err := t.ParseListOf(ctx, in.resolver, f.Type)
		if err != nil {
			return nil, err
		}
		out := make(ir.List, len(ids))
		for i, id := range ids {
			out[i] = ir.Int(id)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unhandled accessor %q", f.Accessor)
}
