package param

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/obsparse/internal/geo"
	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/parseerr"
	"github.com/roach88/obsparse/internal/resolver"
	"github.com/roach88/obsparse/internal/typed"
)

// Programmer errors returned by Parse. Input problems are *parseerr.Error.
var (
	ErrUndeclared      = errors.New("undeclared parameter")
	ErrModeNotAllowed  = errors.New("mode not allowed")
	ErrNoResolver      = errors.New("object parameter without resolver")
	ErrUnsupportedMode = errors.New("unsupported mode")
)

// Parser parses parameters declared in a ConfigSet. It holds no mutable
// state and is safe for concurrent use.
type Parser struct {
	configs  *ConfigSet
	resolver resolver.Resolver
	actor    int64
	location *time.Location
}

// Option configures a Parser.
type Option func(*Parser)

// WithResolver sets the entity resolver used by Object parameters.
func WithResolver(r resolver.Resolver) Option {
	return func(p *Parser) { p.resolver = r }
}

// WithActor sets the user whose permissions Object parameters check.
func WithActor(id int64) Option {
	return func(p *Parser) { p.actor = id }
}

// WithLocation sets the zone Time parameters are read in. Default UTC.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) { p.location = loc }
}

// NewParser creates a parser over configs.
func NewParser(configs *ConfigSet, opts ...Option) *Parser {
	p := &Parser{configs: configs, location: time.UTC}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Configs returns the parser's declarations.
func (p *Parser) Configs() *ConfigSet { return p.configs }

// Parse parses the raw value of parameter name in mode. A nil raw means the
// parameter was not supplied and yields the configured default, which may be
// nil. A supplied blank value yields nil, or ParameterCantBeBlank when the
// parameter is declared NotBlank.
//
// Scalar mode yields one value. List mode yields an ir.List; a NotBlank
// parameter also rejects blank elements. Range mode
// yields an ir.Range with ordered ends, or a single value when both ends are
// equal.
func (p *Parser) Parse(ctx context.Context, name string, raw *string, mode Mode) (ir.Value, error) {
	cfg, ok := p.configs.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUndeclared, name)
	}
	if !cfg.Allows(mode) {
		return nil, fmt.Errorf("%w: %s does not allow %s", ErrModeNotAllowed, name, mode)
	}
	if _, isObj := cfg.Kind.(Object); isObj && p.resolver == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoResolver, name)
	}

	if raw == nil {
		return cfg.Default, nil
	}
	val := strings.TrimSpace(*raw)
	if val == "" {
		if cfg.NotBlank {
			return nil, parseerr.CantBeBlank(name)
		}
		return nil, nil
	}

	var (
		v   ir.Value
		err error
	)
	switch mode {
	case Scalar:
		v, err = p.parseScalar(ctx, cfg, val)
	case List:
		v, err = p.parseList(ctx, cfg, val)
	case Range:
		v, err = p.parseRange(ctx, cfg, val)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
	}
	if err != nil {
		return nil, parseerr.Attach(err, name)
	}
	return v, nil
}

func (p *Parser) parseScalar(ctx context.Context, cfg Config, val string) (ir.Value, error) {
	v, err := p.parseOne(ctx, cfg.Kind, val)
	if err != nil {
		return nil, err
	}
	return v, p.limit(cfg, v, val)
}

func (p *Parser) parseList(ctx context.Context, cfg Config, val string) (ir.Value, error) {
	parts := typed.SplitList(val)
	out := make(ir.List, 0, len(parts))
	for _, part := range parts {
		if part == "" && cfg.NotBlank {
			return nil, parseerr.CantBeBlank("")
		}
		v, err := p.parseScalar(ctx, cfg, part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (p *Parser) parseRange(ctx context.Context, cfg Config, val string) (ir.Value, error) {
	var r ir.Range
	switch cfg.Kind.(type) {
	case Date:
		dr, err := typed.ParseDateRange(val)
		if err != nil {
			return nil, err
		}
		r = dr
	case Time:
		tr, err := typed.ParseTimeRange(val, p.location)
		if err != nil {
			return nil, err
		}
		r = tr
	default:
		accepts := func(s string) bool {
			_, err := p.parseOne(ctx, cfg.Kind, s)
			return err == nil
		}
		from, to, found := typed.SplitRange(val, accepts)
		if !found {
			from, to = val, val
		}
		fv, err := p.parseOne(ctx, cfg.Kind, from)
		if err != nil {
			return nil, err
		}
		tv, err := p.parseOne(ctx, cfg.Kind, to)
		if err != nil {
			return nil, err
		}
		r = ir.Range{From: fv, To: tv}
	}

	r = ir.Ordered(r)
	if err := p.limit(cfg, r.From, val); err != nil {
		return nil, err
	}
	if err := p.limit(cfg, r.To, val); err != nil {
		return nil, err
	}
	return ir.Collapse(r), nil
}

func (p *Parser) limit(cfg Config, v ir.Value, raw string) error {
	if cfg.Limit == nil {
		return nil
	}
	return cfg.Limit.check(v, raw)
}

// parseOne parses a single value of kind k.
func (p *Parser) parseOne(ctx context.Context, k Kind, val string) (ir.Value, error) {
	switch k := k.(type) {
	case Integer:
		n, err := typed.ParseInteger(val)
		return ir.Int(n), err
	case Float:
		f, err := typed.ParseFloat(val)
		return ir.Float(f), err
	case Boolean:
		b, err := typed.ParseBoolean(val, false)
		if err != nil {
			return nil, parseerr.BadParameterValue(val, typed.TypeBoolean)
		}
		return ir.Bool(b), nil
	case String:
		return ir.String(val), nil
	case Date:
		d, err := typed.ParseDate(val)
		return d, err
	case Time:
		t, err := typed.ParseTime(val, p.location)
		return t, err
	case Email:
		s, err := typed.ParseEmail(val)
		return ir.String(s), err
	case Coordinate:
		return parseCoordinate(k.Axis, val)
	case Enum:
		s, err := typed.MatchEnum(val, k.Allowed)
		return ir.String(s), err
	case Language:
		s, err := typed.MatchLanguage(val, k.Allowed)
		return ir.String(s), err
	case Object:
		return p.parseObject(ctx, k, val)
	}
	return nil, fmt.Errorf("unhandled kind %T", k)
}

func parseCoordinate(axis geo.Axis, val string) (ir.Value, error) {
	if axis == geo.Altitude {
		m, err := geo.ParseAltitude(val)
		if err != nil {
			return nil, parseerr.BadParameterValue(val, string(axis))
		}
		return ir.Int(m), nil
	}
	f, err := geo.Parse(axis, val)
	if err != nil {
		return nil, parseerr.BadParameterValue(val, string(axis))
	}
	return ir.Float(f), nil
}

func (p *Parser) parseObject(ctx context.Context, k Object, val string) (ir.Value, error) {
	id, err := resolver.LookupOne(ctx, p.resolver, k.Type, val)
	if err != nil {
		return nil, err
	}
	if err := resolver.Require(ctx, p.resolver, k.Type, id, k.Permissions, p.actor); err != nil {
		return nil, err
	}
	return ir.Int(id), nil
}
