package typed

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/parseerr"
)

// MinRangeYear is the smallest first year accepted by the YYYY-YYYY form of
// the API date and time range grammars. Earlier years do not match that form.
const MinRangeYear = 1500

// Search-term date range grammar, in precedence order.
var termDatePatterns = []struct {
	re    *regexp.Regexp
	build func(m []int) (from, to string)
}{
	{ // YYYY
		regexp.MustCompile(`^(\d{4})$`),
		func(m []int) (string, string) { return ymd(m[0], 1, 1), ymd(m[0], 12, 31) },
	},
	{ // YYYY-MM
		regexp.MustCompile(`^(\d{4})-(\d\d?)$`),
		func(m []int) (string, string) { return ymd(m[0], m[1], 1), ymd(m[0], m[1], 31) },
	},
	{ // YYYY-MM-DD
		regexp.MustCompile(`^(\d{4})-(\d\d?)-(\d\d?)$`),
		func(m []int) (string, string) { d := ymd(m[0], m[1], m[2]); return d, d },
	},
	{ // YYYY-YYYY
		regexp.MustCompile(`^(\d{4})-(\d{4})$`),
		func(m []int) (string, string) { return ymd(m[0], 1, 1), ymd(m[1], 12, 31) },
	},
	{ // YYYY-MM-YYYY-MM
		regexp.MustCompile(`^(\d{4})-(\d\d?)-(\d{4})-(\d\d?)$`),
		func(m []int) (string, string) { return ymd(m[0], m[1], 1), ymd(m[2], m[3], 31) },
	},
	{ // YYYY-MM-DD-YYYY-MM-DD
		regexp.MustCompile(`^(\d{4})-(\d\d?)-(\d\d?)-(\d{4})-(\d\d?)-(\d\d?)$`),
		func(m []int) (string, string) { return ymd(m[0], m[1], m[2]), ymd(m[3], m[4], m[5]) },
	},
	{ // MM
		regexp.MustCompile(`^(\d\d?)$`),
		func(m []int) (string, string) { return md(m[0], 1), md(m[0], 31) },
	},
	{ // MM-MM
		regexp.MustCompile(`^(\d\d?)-(\d\d?)$`),
		func(m []int) (string, string) { return md(m[0], 1), md(m[1], 31) },
	},
	{ // MM-DD-MM-DD
		regexp.MustCompile(`^(\d\d?)-(\d\d?)-(\d\d?)-(\d\d?)$`),
		func(m []int) (string, string) { return md(m[0], m[1]), md(m[2], m[3]) },
	},
}

func ymd(y, m, d int) string { return fmt.Sprintf("%04d-%02d-%02d", y, m, d) }
func md(m, d int) string     { return fmt.Sprintf("%02d-%02d", m, d) }

func atois(groups []string) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		// Groups are all-digit and at most four long.
		out[i], _ = strconv.Atoi(g)
	}
	return out
}

// ParseDateRangeStrings interprets a search-term date value as an inclusive
// (from, to) pair of ISO strings. Year-bearing forms produce YYYY-MM-DD,
// month-only forms produce MM-DD. Components are not calendar validated and
// month-only ranges may wrap the year end.
func ParseDateRangeStrings(val string) (string, string, error) {
	for _, p := range termDatePatterns {
		if m := p.re.FindStringSubmatch(val); m != nil {
			from, to := p.build(atois(m[1:]))
			return from, to, nil
		}
	}
	return "", "", parseerr.BadDateRange(val)
}

var (
	dateRe = regexp.MustCompile(`^(\d{4})-?(\d\d)-?(\d\d)$`)

	apiDatePatterns = []struct {
		re    *regexp.Regexp
		build func(m []int) (ir.Value, ir.Value, bool)
	}{
		{ // YYYY-MM-DD - YYYY-MM-DD, dashes optional
			regexp.MustCompile(`^(\d{4})-?(\d\d)-?(\d\d)\s*-\s*(\d{4})-?(\d\d)-?(\d\d)$`),
			func(m []int) (ir.Value, ir.Value, bool) {
				return validDates(date(m[0], m[1], m[2]), date(m[3], m[4], m[5]))
			},
		},
		{ // YYYY-MM-DD
			dateRe,
			func(m []int) (ir.Value, ir.Value, bool) {
				d := date(m[0], m[1], m[2])
				return validDates(d, d)
			},
		},
		{ // YYYY-MM - YYYY-MM
			regexp.MustCompile(`^(\d{4})-?(\d\d)\s*-\s*(\d{4})-?(\d\d)$`),
			func(m []int) (ir.Value, ir.Value, bool) {
				return validDates(date(m[0], m[1], 1), monthEnd(m[2], m[3]))
			},
		},
		{ // YYYY-MM
			regexp.MustCompile(`^(\d{4})-?(\d\d)$`),
			func(m []int) (ir.Value, ir.Value, bool) {
				return validDates(date(m[0], m[1], 1), monthEnd(m[0], m[1]))
			},
		},
		{ // YYYY-YYYY
			regexp.MustCompile(`^(\d{4})\s*-\s*(\d{4})$`),
			func(m []int) (ir.Value, ir.Value, bool) {
				if m[0] < MinRangeYear {
					return nil, nil, false
				}
				return date(m[0], 1, 1), date(m[1], 12, 31), true
			},
		},
		{ // YYYY
			regexp.MustCompile(`^(\d{4})$`),
			func(m []int) (ir.Value, ir.Value, bool) {
				return date(m[0], 1, 1), date(m[0], 12, 31), true
			},
		},
		{ // MM-DD-MM-DD
			regexp.MustCompile(`^(\d\d?)-(\d\d?)-(\d\d?)-(\d\d?)$`),
			func(m []int) (ir.Value, ir.Value, bool) {
				return validMonthDays(ir.MonthDay{Month: m[0], Day: m[1]}, ir.MonthDay{Month: m[2], Day: m[3]})
			},
		},
		{ // MM-MM
			regexp.MustCompile(`^(\d\d?)-(\d\d?)$`),
			func(m []int) (ir.Value, ir.Value, bool) {
				return validMonthDays(ir.MonthDay{Month: m[0], Day: 1}, ir.MonthDay{Month: m[1], Day: 31})
			},
		},
		{ // MM
			regexp.MustCompile(`^(\d\d?)$`),
			func(m []int) (ir.Value, ir.Value, bool) {
				return validMonthDays(ir.MonthDay{Month: m[0], Day: 1}, ir.MonthDay{Month: m[0], Day: 31})
			},
		},
	}
)

func date(y, m, d int) ir.Date { return ir.NewDate(y, time.Month(m), d) }

func monthEnd(y, m int) ir.Date {
	if m < 1 || m > 12 {
		return date(y, m, 0)
	}
	return date(y, m, ir.DaysIn(y, time.Month(m)))
}

func validDates(from, to ir.Date) (ir.Value, ir.Value, bool) {
	if !from.Valid() || !to.Valid() {
		return nil, nil, false
	}
	return from, to, true
}

func validMonthDays(from, to ir.MonthDay) (ir.Value, ir.Value, bool) {
	for _, v := range []ir.MonthDay{from, to} {
		if v.Month < 1 || v.Month > 12 || v.Day < 1 || v.Day > 31 {
			return nil, nil, false
		}
	}
	return from, to, true
}

// ParseDate parses a single calendar day written YYYY-MM-DD or YYYYMMDD.
func ParseDate(val string) (ir.Date, error) {
	m := dateRe.FindStringSubmatch(val)
	if m == nil {
		return ir.Date{}, parseerr.BadParameterValue(val, TypeDate)
	}
	n := atois(m[1:])
	d := date(n[0], n[1], n[2])
	if !d.Valid() {
		return ir.Date{}, parseerr.BadParameterValue(val, TypeDate)
	}
	return d, nil
}

// ParseDateRange interprets an API date value as an inclusive range. The
// first shape that matches with calendar-valid components wins. Year-bearing
// shapes yield ir.Date ends; month-only shapes yield ir.MonthDay ends that
// may wrap the year end. The result is neither ordered nor collapsed.
func ParseDateRange(val string) (ir.Range, error) {
	for _, p := range apiDatePatterns {
		m := p.re.FindStringSubmatch(val)
		if m == nil {
			continue
		}
		if from, to, ok := p.build(atois(m[1:])); ok {
			return ir.Range{From: from, To: to}, nil
		}
	}
	return ir.Range{}, parseerr.BadParameterValue(val, TypeDateRange)
}
