package param

import (
	"fmt"
	"strconv"

	"github.com/roach88/obsparse/internal/geo"
	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/parseerr"
	"github.com/roach88/obsparse/internal/typed"
)

// Limit restricts the values a parameter accepts beyond its grammar.
type Limit interface {
	check(v ir.Value, raw string) error
	compatible(k Kind) error
}

type rangeLimit struct {
	min, max ir.Value
}

type setLimit struct {
	values []string
}

type exactLimit struct {
	want bool
}

// Between limits values to the inclusive range [min, max]. Bounds must be of
// the type the parameter's kind produces: ir.Int for Integer and altitude,
// ir.Float for Float and latitude/longitude, ir.Date for Date, ir.Time for
// Time.
func Between(min, max ir.Value) Limit { return rangeLimit{min: min, max: max} }

// OneOf limits values to an explicit set, compared on their string form.
func OneOf(values ...string) Limit { return setLimit{values: values} }

// Exactly requires a Boolean parameter to equal want.
func Exactly(want bool) Limit { return exactLimit{want: want} }

func (l rangeLimit) check(v ir.Value, raw string) error {
	// Year-agnostic dates carry no year to compare against.
	if _, ok := v.(ir.MonthDay); ok {
		return nil
	}
	lo, okLo := ir.Compare(v, l.min)
	hi, okHi := ir.Compare(v, l.max)
	if !okLo || !okHi {
		return parseerr.BadLimitedRange(raw, ir.Native(l.min), ir.Native(l.max))
	}
	if lo < 0 || hi > 0 {
		return parseerr.BadLimitedRange(raw, ir.Native(l.min), ir.Native(l.max))
	}
	return nil
}

func (l rangeLimit) compatible(k Kind) error {
	if l.min == nil || l.max == nil {
		return fmt.Errorf("range limit needs both bounds")
	}
	if c, ok := ir.Compare(l.min, l.max); !ok || c > 0 {
		return fmt.Errorf("range limit bounds %v..%v are not ordered", l.min, l.max)
	}
	if !ordinal(k) {
		return fmt.Errorf("range limit on unordered kind %s", k.Name())
	}
	for _, b := range []ir.Value{l.min, l.max} {
		if !boundFits(k, b) {
			return fmt.Errorf("range limit bound %T does not match kind %s", b, k.Name())
		}
	}
	return nil
}

// boundFits reports whether b has the value type kind k parses to.
func boundFits(k Kind, b ir.Value) bool {
	switch k := k.(type) {
	case Integer:
		_, ok := b.(ir.Int)
		return ok
	case Float:
		_, ok := b.(ir.Float)
		return ok
	case Date:
		_, ok := b.(ir.Date)
		return ok
	case Time:
		_, ok := b.(ir.Time)
		return ok
	case Coordinate:
		if k.Axis == geo.Altitude {
			_, ok := b.(ir.Int)
			return ok
		}
		_, ok := b.(ir.Float)
		return ok
	}
	return false
}

func (l setLimit) check(v ir.Value, raw string) error {
	s := limitString(v)
	for _, allowed := range l.values {
		if s == allowed {
			return nil
		}
	}
	return parseerr.BadLimitedSet(raw, l.values, typed.Suggest(raw, l.values))
}

func (l setLimit) compatible(k Kind) error {
	if len(l.values) == 0 {
		return fmt.Errorf("set limit needs at least one value")
	}
	switch k.(type) {
	case String, Integer, Float:
		return nil
	}
	return fmt.Errorf("set limit on kind %s", k.Name())
}

func (l exactLimit) check(v ir.Value, raw string) error {
	if b, ok := v.(ir.Bool); ok && bool(b) == l.want {
		return nil
	}
	return parseerr.BadLimitedSet(raw, []string{strconv.FormatBool(l.want)}, nil)
}

func (l exactLimit) compatible(k Kind) error {
	if _, ok := k.(Boolean); !ok {
		return fmt.Errorf("exact limit on non-boolean kind %s", k.Name())
	}
	return nil
}

func limitString(v ir.Value) string {
	switch v := v.(type) {
	case ir.String:
		return string(v)
	case ir.Int:
		return strconv.FormatInt(int64(v), 10)
	case ir.Float:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
