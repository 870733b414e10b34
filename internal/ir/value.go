package ir

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf16"
)

// Value is a sealed interface over every value a parser can produce.
// Only the types in this file implement it, so type switches over Value
// are exhaustive.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null is the explicit absent value (a parameter that was never supplied
// and has no default).
type Null struct{}

func (Null) value() {}

// String is a text value.
type String string

func (String) value() {}

// Int is an integer value. Entity ids are Ints.
type Int int64

func (Int) value() {}

// Float is a floating point value (coordinates, confidence).
type Float float64

func (Float) value() {}

// Bool is a boolean value.
type Bool bool

func (Bool) value() {}

// Date is a calendar day without time or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (Date) value() {}

// NewDate creates a Date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Valid reports whether d names a real calendar day.
func (d Date) Valid() bool {
	if d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}
	return d.Day <= DaysIn(d.Year, d.Month)
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthDay is a year-agnostic day, used by season ranges such as 11-01..02-28.
// A Range of MonthDays with From after To wraps around the new year.
type MonthDay struct {
	Month int
	Day   int
}

func (MonthDay) value() {}

// String formats the day as MM-DD.
func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", md.Month, md.Day)
}

// Time is an instant.
type Time time.Time

func (Time) value() {}

// Std returns the underlying time.Time.
func (t Time) Std() time.Time {
	return time.Time(t)
}

// String formats the instant as RFC 3339.
func (t Time) String() string {
	return time.Time(t).Format(time.RFC3339)
}

// Range is an inclusive (From, To) pair. From <= To for every ordered type
// except MonthDay, where From > To means the range wraps the year end.
type Range struct {
	From Value
	To   Value
}

func (Range) value() {}

// List is an ordered sequence of values.
type List []Value

func (List) value() {}

// Object maps names to values. Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) value() {}

// Compare orders two values of the same scalar kind. The boolean result is
// false when the values are not comparable (different kinds, or a kind
// without a natural order).
func Compare(a, b Value) (int, bool) {
	switch x := a.(type) {
	case Int:
		if y, ok := b.(Int); ok {
			return cmpOrdered(x, y), true
		}
	case Float:
		if y, ok := b.(Float); ok {
			return cmpOrdered(x, y), true
		}
	case String:
		if y, ok := b.(String); ok {
			return strings.Compare(string(x), string(y)), true
		}
	case Date:
		if y, ok := b.(Date); ok {
			return cmpDate(x, y), true
		}
	case MonthDay:
		if y, ok := b.(MonthDay); ok {
			if c := cmpOrdered(x.Month, y.Month); c != 0 {
				return c, true
			}
			return cmpOrdered(x.Day, y.Day), true
		}
	case Time:
		if y, ok := b.(Time); ok {
			return time.Time(x).Compare(time.Time(y)), true
		}
	case Bool:
		if y, ok := b.(Bool); ok {
			if x == y {
				return 0, true
			}
			if !x {
				return -1, true
			}
			return 1, true
		}
	}
	return 0, false
}

// Equal reports whether a and b are the same scalar value.
func Equal(a, b Value) bool {
	c, ok := Compare(a, b)
	return ok && c == 0
}

// Collapse returns r.From when both ends are equal, otherwise r itself.
func Collapse(r Range) Value {
	if Equal(r.From, r.To) {
		return r.From
	}
	return r
}

// Ordered returns r with its ends swapped when From is after To.
// MonthDay ranges are returned unchanged since they may wrap.
func Ordered(r Range) Range {
	if _, ok := r.From.(MonthDay); ok {
		return r
	}
	if c, ok := Compare(r.From, r.To); ok && c > 0 {
		return Range{From: r.To, To: r.From}
	}
	return r
}

func cmpOrdered[T int | int64 | float64 | Int | Float | time.Month](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpDate(a, b Date) int {
	if c := cmpOrdered(a.Year, b.Year); c != 0 {
		return c
	}
	if c := cmpOrdered(a.Month, b.Month); c != 0 {
		return c
	}
	return cmpOrdered(a.Day, b.Day)
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// CRITICAL: Go's sort.Strings uses UTF-8 which produces DIFFERENT order.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	// If all compared units are equal, shorter string comes first
	return cmpOrdered(len(a16), len(b16))
}

// Native converts a Value to plain Go values (string, int64, float64, bool,
// []any, map[string]any). Dates, days and instants become their string forms.
// Used for YAML comparison in the conformance harness.
func Native(v Value) any {
	switch val := v.(type) {
	case nil, Null:
		return nil
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bool:
		return bool(val)
	case Date:
		return val.String()
	case MonthDay:
		return val.String()
	case Time:
		return val.String()
	case Range:
		return map[string]any{"from": Native(val.From), "to": Native(val.To)}
	case List:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Native(elem)
		}
		return out
	case Object:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = Native(elem)
		}
		return out
	default:
		return fmt.Sprintf("%v", v)
	}
}
