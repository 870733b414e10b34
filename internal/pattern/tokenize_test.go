package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/obsparse/internal/parseerr"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Term
	}{
		{
			name:  "bare word is pattern",
			input: "foo",
			want:  []Term{{Field: "pattern", Values: []string{"foo"}}},
		},
		{
			name:  "prefixed",
			input: "user:jason",
			want:  []Term{{Field: "user", Values: []string{"jason"}}},
		},
		{
			name:  "range is not split",
			input: "date:20090101-20100101",
			want:  []Term{{Field: "date", Values: []string{"20090101-20100101"}}},
		},
		{
			name:  "comma inside quotes",
			input: `a:1,2,"three, four"`,
			want:  []Term{{Field: "a", Values: []string{"1", "2", "three, four"}}},
		},
		{
			name:  "single quotes with escape",
			input: `user:'O\'Brien'`,
			want:  []Term{{Field: "user", Values: []string{"O'Brien"}}},
		},
		{
			name:  "escaped comma in bare value",
			input: `name:a\,b,c`,
			want:  []Term{{Field: "name", Values: []string{"a,b", "c"}}},
		},
		{
			name:  "whitespace collapsed",
			input: "  Russula \t  user:jason\n\n date:2010  ",
			want: []Term{
				{Field: "pattern", Values: []string{"Russula"}},
				{Field: "user", Values: []string{"jason"}},
				{Field: "date", Values: []string{"2010"}},
			},
		},
		{
			name:  "inner quoted whitespace collapsed too",
			input: `"has   notes"`,
			want:  []Term{{Field: "pattern", Values: []string{"has notes"}}},
		},
		{
			name:  "repeated field accumulates in first position",
			input: "user:1 foo user:2 bar",
			want: []Term{
				{Field: "user", Values: []string{"1", "2"}},
				{Field: "pattern", Values: []string{"foo", "bar"}},
			},
		},
		{
			name:  "prefix without value is a bare value",
			input: "user:",
			want:  []Term{{Field: "pattern", Values: []string{"user:"}}},
		},
		{
			name:  "run-on quote falls back to bare",
			input: `"ab"cd`,
			want:  []Term{{Field: "pattern", Values: []string{`"ab"cd`}}},
		},
		{
			name:  "unterminated quote is bare",
			input: `"abc`,
			want:  []Term{{Field: "pattern", Values: []string{`"abc`}}},
		},
		{
			name:  "empty",
			input: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_SyntaxErrors(t *testing.T) {
	tests := []struct {
		input, remaining string
	}{
		{"a:1,", "a:1,"},
		{"foo a:1, bar", "a:1, bar"},
		{",foo", ",foo"},
		{`foo \`, `\`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			e, ok := parseerr.As(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, parseerr.CodeSyntax, e.Code)
			assert.Equal(t, tt.remaining, e.Value)
		})
	}
}

func TestDequote(t *testing.T) {
	tests := map[string]string{
		`"abc"`:     "abc",
		`'abc'`:     "abc",
		`"a\"b"`:    `a"b`,
		`a\\b`:      `a\b`,
		`'abc"`:     `'abc"`,
		`"`:         `"`,
		`trailing\`: `trailing\`,
		`\x\y`:      "xy",
	}
	for in, want := range tests {
		assert.Equal(t, want, Dequote(in), in)
	}
}

func TestQuote_RoundTrip(t *testing.T) {
	for _, s := range []string{
		"plain",
		"two words",
		`say "hi"`,
		"it's",
		`back\slash`,
		"a,b",
		"user:jason",
		"",
		`'"\`,
		"tab\there",
	} {
		t.Run(s, func(t *testing.T) {
			assert.Equal(t, s, Dequote(Quote(s)))
		})
	}
	assert.Equal(t, "plain", Quote("plain"))
}

func TestFormat_RoundTrip(t *testing.T) {
	terms := []Term{
		{Field: "pattern", Values: []string{"Russula", "has notes"}},
		{Field: "user", Values: []string{"jason", "Alan R.", "O'Brien"}},
		{Field: "name", Values: []string{"a,b"}},
		{Field: "location", Values: []string{`C:\fungi`}},
	}
	got, err := Tokenize(Format(terms))
	require.NoError(t, err)
	assert.Equal(t, terms, got)
}
