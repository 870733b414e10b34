package typed

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/parseerr"
)

// partialRe matches a timestamp truncated at any granularity from year to
// second. Separators between fields are optional.
var partialRe = regexp.MustCompile(
	`^(\d{4})(?:-?(\d\d)(?:-?(\d\d)(?:[ T]?(\d\d)(?::?(\d\d)(?::?(\d\d))?)?)?)?)?$`)

// partial holds the fields present in a timestamp; -1 marks a missing field.
type partial struct {
	year, month, day, hour, min, sec int
}

func parsePartial(val string) (partial, bool) {
	m := partialRe.FindStringSubmatch(strings.TrimSpace(val))
	if m == nil {
		return partial{}, false
	}
	f := [6]int{}
	for i, g := range m[1:] {
		if g == "" {
			f[i] = -1
			continue
		}
		f[i], _ = strconv.Atoi(g)
	}
	p := partial{year: f[0], month: f[1], day: f[2], hour: f[3], min: f[4], sec: f[5]}
	return p, p.valid()
}

func (p partial) valid() bool {
	if p.month != -1 && (p.month < 1 || p.month > 12) {
		return false
	}
	if p.day != -1 && (p.day < 1 || p.day > ir.DaysIn(p.year, time.Month(p.month))) {
		return false
	}
	if p.hour > 23 || p.min > 59 || p.sec > 59 {
		return false
	}
	return true
}

// yearOnly reports whether only the year is present.
func (p partial) yearOnly() bool { return p.month == -1 }

// floor fills missing fields with their minimum.
func (p partial) floor(loc *time.Location) time.Time {
	return time.Date(p.year, time.Month(or(p.month, 1)), or(p.day, 1),
		or(p.hour, 0), or(p.min, 0), or(p.sec, 0), 0, loc)
}

// ceil fills missing fields with their maximum.
func (p partial) ceil(loc *time.Location) time.Time {
	month := or(p.month, 12)
	return time.Date(p.year, time.Month(month), or(p.day, ir.DaysIn(p.year, time.Month(month))),
		or(p.hour, 23), or(p.min, 59), or(p.sec, 59), 0, loc)
}

func or(v, def int) int {
	if v == -1 {
		return def
	}
	return v
}

func refLocation(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

// ParseTime parses a timestamp of at least day precision (YYYYMMDD, then
// optional HH, MM and SS), filling missing fields with their minimum. The
// wall clock is read in loc, UTC when nil.
func ParseTime(val string, loc *time.Location) (ir.Time, error) {
	p, ok := parsePartial(val)
	if !ok || p.day == -1 {
		return ir.Time{}, parseerr.BadParameterValue(val, TypeTime)
	}
	return ir.Time(p.floor(refLocation(loc))), nil
}

// ParseTimeRange interprets a timestamp range. A value that is itself a
// single partial timestamp brackets that period. Otherwise each '-' is tried
// as the separator until both sides parse as partial timestamps; missing
// fields take their minimum on the from side and maximum on the to side.
// The result is neither ordered nor collapsed.
func ParseTimeRange(val string, loc *time.Location) (ir.Range, error) {
	loc = refLocation(loc)

	if p, ok := parsePartial(val); ok {
		return ir.Range{From: ir.Time(p.floor(loc)), To: ir.Time(p.ceil(loc))}, nil
	}

	for i := 0; i < len(val); i++ {
		if val[i] != '-' {
			continue
		}
		from, okFrom := parsePartial(val[:i])
		to, okTo := parsePartial(val[i+1:])
		if !okFrom || !okTo {
			continue
		}
		if from.yearOnly() && to.yearOnly() && from.year < MinRangeYear {
			continue
		}
		return ir.Range{From: ir.Time(from.floor(loc)), To: ir.Time(to.ceil(loc))}, nil
	}

	return ir.Range{}, parseerr.BadParameterValue(val, TypeTimeRange)
}
