package typed

import (
	"regexp"
	"strconv"

	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/parseerr"
)

// Value type names carried by BadParameterValue errors.
const (
	TypeInteger   = "integer"
	TypeFloat     = "float"
	TypeBoolean   = "boolean"
	TypeString    = "string"
	TypeDate      = "date"
	TypeDateRange = "date_range"
	TypeTime      = "time"
	TypeTimeRange = "time_range"
	TypeEmail     = "email"
)

// decimal is the body of the decimal literal grammar shared by floats and
// confidence percentages.
const decimal = `-?(?:\d+(?:\.\d+)?|\.\d+)`

var (
	integerRe = regexp.MustCompile(`^-?\d+$`)
	floatRe   = regexp.MustCompile(`^` + decimal + `$`)

	confidenceRe      = regexp.MustCompile(`^(` + decimal + `)$`)
	confidenceRangeRe = regexp.MustCompile(`^(` + decimal + `)-(` + decimal + `)$`)
)

// Confidence bounds: input is a percentage, output the vote scale.
const (
	ConfidenceMinPercent = -100
	ConfidenceMaxPercent = 100
	ConfidenceScale      = 3
)

// ParseInteger parses `^-?\d+$`.
func ParseInteger(val string) (int64, error) {
	if !integerRe.MatchString(val) {
		return 0, parseerr.BadParameterValue(val, TypeInteger)
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// Out of int64 range
		return 0, parseerr.BadParameterValue(val, TypeInteger)
	}
	return n, nil
}

// ParseFloat parses `^-?\d+(\.\d+)?$` or `^-?\.\d+$`.
func ParseFloat(val string) (float64, error) {
	if !floatRe.MatchString(val) {
		return 0, parseerr.BadParameterValue(val, TypeFloat)
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, parseerr.BadParameterValue(val, TypeFloat)
	}
	return f, nil
}

// ParseBoundedFloat parses a decimal literal and requires min <= v <= max.
// Both grammar and bound violations are BadFloat{min,max}.
func ParseBoundedFloat(val string, min, max float64) (float64, error) {
	if !floatRe.MatchString(val) {
		return 0, parseerr.BadFloat(val, min, max)
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f < min || f > max {
		return 0, parseerr.BadFloat(val, min, max)
	}
	return f, nil
}

// ParseConfidence parses a percentage in [-100, 100], or a dash-separated
// pair of them with from <= to, rescaling each by v*3/100. A single value
// yields ir.Float; a pair yields ir.Range of ir.Float, or one ir.Float when
// both ends are equal.
func ParseConfidence(val string) (ir.Value, error) {
	bad := parseerr.BadFloat(val, ConfidenceMinPercent, ConfidenceMaxPercent)

	if m := confidenceRe.FindStringSubmatch(val); m != nil {
		v, ok := percent(m[1])
		if !ok {
			return nil, bad
		}
		return ir.Float(v * ConfidenceScale / 100), nil
	}

	if m := confidenceRangeRe.FindStringSubmatch(val); m != nil {
		from, okFrom := percent(m[1])
		to, okTo := percent(m[2])
		if !okFrom || !okTo || from > to {
			return nil, bad
		}
		return ir.Collapse(ir.Range{
			From: ir.Float(from * ConfidenceScale / 100),
			To:   ir.Float(to * ConfidenceScale / 100),
		}), nil
	}

	return nil, bad
}

func percent(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < ConfidenceMinPercent || f > ConfidenceMaxPercent {
		return 0, false
	}
	return f, true
}
