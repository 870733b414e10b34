package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Value
		want   int
		wantOK bool
	}{
		{"ints", Int(1), Int(2), -1, true},
		{"floats", Float(2.5), Float(2.5), 0, true},
		{"strings", String("b"), String("a"), 1, true},
		{"dates by year", NewDate(2010, 1, 1), NewDate(2009, 12, 31), 1, true},
		{"dates by day", NewDate(2010, 1, 1), NewDate(2010, 1, 2), -1, true},
		{"month days", MonthDay{Month: 11, Day: 1}, MonthDay{Month: 2, Day: 28}, 1, true},
		{"bools", Bool(false), Bool(true), -1, true},
		{"times", Time(time.Unix(10, 0)), Time(time.Unix(5, 0)), 1, true},
		{"mixed kinds", Int(1), Float(1), 0, false},
		{"lists", List{Int(1)}, List{Int(1)}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compare(tt.a, tt.b)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCollapse(t *testing.T) {
	d := NewDate(2010, 6, 1)
	assert.Equal(t, Value(d), Collapse(Range{From: d, To: d}))

	r := Range{From: Int(1), To: Int(3)}
	assert.Equal(t, Value(r), Collapse(r))
}

func TestOrdered(t *testing.T) {
	assert.Equal(t, Range{From: Int(1), To: Int(5)}, Ordered(Range{From: Int(5), To: Int(1)}))

	// Wrap-around seasons keep their order
	season := Range{From: MonthDay{Month: 11, Day: 1}, To: MonthDay{Month: 2, Day: 31}}
	assert.Equal(t, season, Ordered(season))
}

func TestDateValid(t *testing.T) {
	assert.True(t, NewDate(2012, time.February, 29).Valid())
	assert.False(t, NewDate(2011, time.February, 29).Valid())
	assert.False(t, NewDate(2011, 13, 1).Valid())
	assert.False(t, NewDate(2011, 4, 31).Valid())
	assert.False(t, NewDate(2011, 4, 0).Valid())
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 31, DaysIn(2010, time.January))
	assert.Equal(t, 28, DaysIn(2010, time.February))
	assert.Equal(t, 29, DaysIn(2000, time.February))
	assert.Equal(t, 30, DaysIn(2010, time.November))
}

func TestSortedKeys_UTF16Order(t *testing.T) {
	obj := Object{
		"b":          Int(1),
		"a":          Int(2),
		"\u00e9":     Int(3),
		"\U0001F600": Int(4),
		"\ufb01":     Int(5),
	}
	// U+1F600 encodes as the surrogate pair D83D DE00, which sorts before U+FB01
	assert.Equal(t, []string{"a", "b", "\u00e9", "\U0001F600", "\ufb01"}, obj.SortedKeys())
}

func TestNative(t *testing.T) {
	v := List{
		Int(42),
		Range{From: NewDate(2010, 1, 1), To: NewDate(2010, 12, 31)},
		Float(0.5),
		Null{},
	}
	got := Native(v)
	require.IsType(t, []any{}, got)
	assert.Equal(t, []any{
		int64(42),
		map[string]any{"from": "2010-01-01", "to": "2010-12-31"},
		0.5,
		nil,
	}, got)
}
