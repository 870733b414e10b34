package typed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/parseerr"
)

func TestParseBoolean(t *testing.T) {
	tests := []struct {
		val     string
		onlyYes bool
		want    bool
		code    parseerr.Code
	}{
		{"YES", false, true, ""},
		{"true", false, true, ""},
		{"1", true, true, ""},
		{"No", false, false, ""},
		{"0", false, false, ""},
		{"no", true, false, parseerr.CodeBadYes},
		{"maybe", true, false, parseerr.CodeBadYes},
		{"maybe", false, false, parseerr.CodeBadBoolean},
	}
	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			got, err := ParseBoolean(tt.val, tt.onlyYes)
			if tt.code != "" {
				assert.True(t, parseerr.Is(err, tt.code), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseYesNoBoth(t *testing.T) {
	for val, want := range map[string]string{"yes": Only, "FALSE": No, "both": Either, "Either": Either} {
		got, err := ParseYesNoBoth(val)
		require.NoError(t, err, val)
		assert.Equal(t, want, got, val)
	}
	_, err := ParseYesNoBoth("sometimes")
	assert.True(t, parseerr.Is(err, parseerr.CodeBadYesNoBoth))
}

func TestParseInteger(t *testing.T) {
	n, err := ParseInteger("-42")
	require.NoError(t, err)
	assert.Equal(t, int64(-42), n)

	for _, bad := range []string{"", "4.2", "12a", "99999999999999999999"} {
		_, err := ParseInteger(bad)
		e, ok := parseerr.As(err)
		require.True(t, ok, bad)
		assert.Equal(t, parseerr.CodeBadParameterValue, e.Code)
		assert.Equal(t, TypeInteger, e.Type)
	}
}

func TestParseFloat(t *testing.T) {
	for val, want := range map[string]float64{"1": 1, "-2.5": -2.5, ".5": 0.5, "-.25": -0.25} {
		got, err := ParseFloat(val)
		require.NoError(t, err, val)
		assert.Equal(t, want, got, val)
	}
	for _, bad := range []string{"1.", "1e5", "abc", "+1"} {
		_, err := ParseFloat(bad)
		assert.True(t, parseerr.Is(err, parseerr.CodeBadParameterValue), bad)
	}
}

func TestParseBoundedFloat(t *testing.T) {
	got, err := ParseBoundedFloat("45.5", -90, 90)
	require.NoError(t, err)
	assert.Equal(t, 45.5, got)

	_, err = ParseBoundedFloat("91", -90, 90)
	e, ok := parseerr.As(err)
	require.True(t, ok)
	assert.Equal(t, parseerr.CodeBadFloat, e.Code)
	assert.Equal(t, float64(-90), e.Min)
	assert.Equal(t, float64(90), e.Max)

	_, err = ParseBoundedFloat("north", -90, 90)
	assert.True(t, parseerr.Is(err, parseerr.CodeBadFloat))
}

func TestParseConfidence(t *testing.T) {
	v, err := ParseConfidence("50")
	require.NoError(t, err)
	assert.Equal(t, ir.Float(1.5), v)

	v, err = ParseConfidence("-100-100")
	require.NoError(t, err)
	assert.Equal(t, ir.Range{From: ir.Float(-3), To: ir.Float(3)}, v)

	v, err = ParseConfidence("50-50")
	require.NoError(t, err)
	assert.Equal(t, ir.Float(1.5), v)

	v, err = ParseConfidence(".5")
	require.NoError(t, err)
	assert.Equal(t, ir.Float(0.015), v)

	v, err = ParseConfidence("-.5-.5")
	require.NoError(t, err)
	assert.Equal(t, ir.Range{From: ir.Float(-0.015), To: ir.Float(0.015)}, v)

	for _, val := range []string{"1.5", ".5", "-.5", "50"} {
		_, cerr := ParseConfidence(val)
		_, ferr := ParseFloat(val)
		assert.Equal(t, ferr == nil, cerr == nil, val)
	}

	for _, bad := range []string{"101", "50-10", "-200--100", "high"} {
		_, err := ParseConfidence(bad)
		e, ok := parseerr.As(err)
		require.True(t, ok, bad)
		assert.Equal(t, parseerr.CodeBadFloat, e.Code, bad)
		assert.Equal(t, float64(ConfidenceMinPercent), e.Min)
	}
}

func TestParseDateRangeStrings(t *testing.T) {
	tests := []struct {
		val      string
		from, to string
	}{
		{"2010", "2010-01-01", "2010-12-31"},
		{"2010-3", "2010-03-01", "2010-03-31"},
		{"2010-03-05", "2010-03-05", "2010-03-05"},
		{"2010-2012", "2010-01-01", "2012-12-31"},
		{"2010-02-2011-4", "2010-02-01", "2011-04-31"},
		{"2010-03-05-2010-04-06", "2010-03-05", "2010-04-06"},
		{"11", "11-01", "11-31"},
		{"08-10", "08-01", "10-31"},
		{"11-2", "11-01", "02-31"},
		{"11-15-2-1", "11-15", "02-01"},
	}
	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			from, to, err := ParseDateRangeStrings(tt.val)
			require.NoError(t, err)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}

	for _, bad := range []string{"", "201", "2010-", "2010/01", "1-2-3", "spring"} {
		_, _, err := ParseDateRangeStrings(bad)
		assert.True(t, parseerr.Is(err, parseerr.CodeBadDateRange), bad)
	}
}

func TestParseDate(t *testing.T) {
	for _, val := range []string{"2010-02-28", "20100228"} {
		d, err := ParseDate(val)
		require.NoError(t, err, val)
		assert.Equal(t, ir.NewDate(2010, time.February, 28), d)
	}
	for _, bad := range []string{"2010-02-30", "2010-02", "02-28", "2010-2-28"} {
		_, err := ParseDate(bad)
		e, ok := parseerr.As(err)
		require.True(t, ok, bad)
		assert.Equal(t, TypeDate, e.Type)
	}
}

func TestParseDateRange(t *testing.T) {
	d := ir.NewDate
	tests := []struct {
		val  string
		want ir.Range
	}{
		{"2010", ir.Range{From: d(2010, 1, 1), To: d(2010, 12, 31)}},
		{"2010-2012", ir.Range{From: d(2010, 1, 1), To: d(2012, 12, 31)}},
		{"201002", ir.Range{From: d(2010, 2, 1), To: d(2010, 2, 28)}},
		{"2012-02", ir.Range{From: d(2012, 2, 1), To: d(2012, 2, 29)}},
		{"201001-201004", ir.Range{From: d(2010, 1, 1), To: d(2010, 4, 30)}},
		{"20100215", ir.Range{From: d(2010, 2, 15), To: d(2010, 2, 15)}},
		{"2010-01-05 - 2010-02-01", ir.Range{From: d(2010, 1, 5), To: d(2010, 2, 1)}},
		{"08-10", ir.Range{From: ir.MonthDay{Month: 8, Day: 1}, To: ir.MonthDay{Month: 10, Day: 31}}},
		{"11-02", ir.Range{From: ir.MonthDay{Month: 11, Day: 1}, To: ir.MonthDay{Month: 2, Day: 31}}},
		{"5", ir.Range{From: ir.MonthDay{Month: 5, Day: 1}, To: ir.MonthDay{Month: 5, Day: 31}}},
		{"3-15-4-1", ir.Range{From: ir.MonthDay{Month: 3, Day: 15}, To: ir.MonthDay{Month: 4, Day: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			got, err := ParseDateRange(tt.val)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateRange_YearBoundary(t *testing.T) {
	_, err := ParseDateRange("1400-1600")
	e, ok := parseerr.As(err)
	require.True(t, ok)
	assert.Equal(t, parseerr.CodeBadParameterValue, e.Code)
	assert.Equal(t, TypeDateRange, e.Type)

	r, err := ParseDateRange("1500-1600")
	require.NoError(t, err)
	assert.Equal(t, ir.NewDate(1500, 1, 1), r.From)
}

func TestParseDateRange_Rejects(t *testing.T) {
	for _, bad := range []string{"2010-13", "13", "2010-02-30", "1-2-3", "yesterday"} {
		_, err := ParseDateRange(bad)
		assert.True(t, parseerr.Is(err, parseerr.CodeBadParameterValue), bad)
	}
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2010-01-02 03:04:05", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2010, 1, 2, 3, 4, 5, 0, time.UTC), got.Std())

	got, err = ParseTime("20100102T03", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2010, 1, 2, 3, 0, 0, 0, time.UTC), got.Std())

	loc := time.FixedZone("EST", -5*3600)
	got, err = ParseTime("20100102", loc)
	require.NoError(t, err)
	assert.True(t, time.Date(2010, 1, 2, 5, 0, 0, 0, time.UTC).Equal(got.Std()))

	for _, bad := range []string{"2010", "201001", "20100132", "20100102 24", "noon"} {
		_, err := ParseTime(bad, nil)
		e, ok := parseerr.As(err)
		require.True(t, ok, bad)
		assert.Equal(t, TypeTime, e.Type)
	}
}

func TestParseTimeRange(t *testing.T) {
	utc := func(y int, mo time.Month, d, h, mi, s int) ir.Time {
		return ir.Time(time.Date(y, mo, d, h, mi, s, 0, time.UTC))
	}
	tests := []struct {
		val  string
		want ir.Range
	}{
		{"2010", ir.Range{From: utc(2010, 1, 1, 0, 0, 0), To: utc(2010, 12, 31, 23, 59, 59)}},
		{"201002", ir.Range{From: utc(2010, 2, 1, 0, 0, 0), To: utc(2010, 2, 28, 23, 59, 59)}},
		{"2010-2012", ir.Range{From: utc(2010, 1, 1, 0, 0, 0), To: utc(2012, 12, 31, 23, 59, 59)}},
		{"2010-01-2011-02", ir.Range{From: utc(2010, 1, 1, 0, 0, 0), To: utc(2011, 2, 28, 23, 59, 59)}},
		{"20100102 03-20100104", ir.Range{From: utc(2010, 1, 2, 3, 0, 0), To: utc(2010, 1, 4, 23, 59, 59)}},
		{"2010-01-02 03:04", ir.Range{From: utc(2010, 1, 2, 3, 4, 0), To: utc(2010, 1, 2, 3, 4, 59)}},
	}
	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			got, err := ParseTimeRange(tt.val, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want.From.(ir.Time).Std(), got.From.(ir.Time).Std())
			assert.Equal(t, tt.want.To.(ir.Time).Std(), got.To.(ir.Time).Std())
		})
	}

	for _, bad := range []string{"1400-1600", "2010-13", "then-now"} {
		_, err := ParseTimeRange(bad, nil)
		e, ok := parseerr.As(err)
		require.True(t, ok, bad)
		assert.Equal(t, TypeTimeRange, e.Type, bad)
	}
}

func TestParseEmail(t *testing.T) {
	_, err := ParseEmail("webmaster@mushroom-observer.org")
	assert.NoError(t, err)
	for _, bad := range []string{"nobody", "a@b", "a b@c.org", "@c.org"} {
		_, err := ParseEmail(bad)
		assert.True(t, parseerr.Is(err, parseerr.CodeBadParameterValue), bad)
	}
}

func TestMatchEnum(t *testing.T) {
	sizes := []string{"thumbnail", "small", "medium", "large"}

	got, err := MatchEnum("MEDIUM", sizes)
	require.NoError(t, err)
	assert.Equal(t, "medium", got)

	_, err = MatchEnum("medim", sizes)
	e, ok := parseerr.As(err)
	require.True(t, ok)
	assert.Equal(t, parseerr.CodeBadLimitedParameterValue, e.Code)
	assert.Equal(t, sizes, e.Allowed)
	assert.Contains(t, e.Suggestions, "medium")
}

func TestMatchLanguage(t *testing.T) {
	langs := []string{"en", "fr", "pt-BR"}

	for val, want := range map[string]string{"EN": "en", "en-US": "en", "fr-CA": "fr", "pt-br": "pt-BR", "pt": "pt-BR"} {
		got, err := MatchLanguage(val, langs)
		require.NoError(t, err, val)
		assert.Equal(t, want, got, val)
	}

	_, err := MatchLanguage("de-DE", langs)
	assert.True(t, parseerr.Is(err, parseerr.CodeBadLimitedParameterValue))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "three"}, SplitList("1, 2 ,three"))
	assert.Equal(t, []string{"a,b", "c"}, SplitList(`a\,b,c`))
	assert.Equal(t, []string{"solo"}, SplitList("solo"))
}

func TestSplitRange(t *testing.T) {
	from, to, ok := SplitRange("-5--1", isInteger)
	require.True(t, ok)
	assert.Equal(t, "-5", from)
	assert.Equal(t, "-1", to)

	from, to, ok = SplitRange("1.5 - 3", isFloat)
	require.True(t, ok)
	assert.Equal(t, "1.5", from)
	assert.Equal(t, "3", to)

	_, _, ok = SplitRange("-5", isInteger)
	assert.False(t, ok)
}

func isInteger(s string) bool {
	_, err := ParseInteger(s)
	return err == nil
}

func isFloat(s string) bool {
	_, err := ParseFloat(s)
	return err == nil
}
