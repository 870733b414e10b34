package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/obsparse/internal/parseerr"
)

func TestRun_Scenarios(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			sc, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(sc)
			require.NoError(t, err)
			assert.True(t, result.Pass, strings.Join(result.Errors, "\n"))
			assert.Len(t, result.Cases, len(sc.Cases))
		})
	}
}

func TestRun_Golden(t *testing.T) {
	sc, err := LoadScenario("testdata/scenarios/golden.yaml")
	require.NoError(t, err)
	require.NoError(t, RunWithGolden(t, sc))
}

func TestRun_BackendsAgree(t *testing.T) {
	sc, err := LoadScenario("testdata/scenarios/search.yaml")
	require.NoError(t, err)

	mem, err := Run(sc)
	require.NoError(t, err)

	sc.Backend = BackendSQLite
	sql, err := Run(sc)
	require.NoError(t, err)

	require.Len(t, sql.Cases, len(mem.Cases))
	for i := range mem.Cases {
		assert.Equal(t, mem.Cases[i].Fingerprint, sql.Cases[i].Fingerprint, mem.Cases[i].Name)
		assert.Equal(t, errorCodes(mem.Cases[i].Errors), errorCodes(sql.Cases[i].Errors), mem.Cases[i].Name)
	}
}

func TestRun_ReportsMismatch(t *testing.T) {
	sc := mustParse(t, `
name: mismatch
schema: testdata/schema
cases:
  - name: wrong value
    params: {id: "2"}
    expect:
      values: {id: 3}
  - name: wrong code
    search: 'color:red'
    expect:
      error: BAD_BOOLEAN
  - name: wrong field
    search: 'images:maybe'
    expect:
      error: BAD_BOOLEAN
      field: lichen
  - name: expected error got values
    search: 'images:yes'
    expect:
      error: BAD_BOOLEAN
  - name: expected absent
    params: {id: "2"}
    expect:
      values: {id: null}
`)
	result, err := Run(sc)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 5)
	for _, c := range result.Cases {
		assert.False(t, c.Pass(), c.Name)
	}
	assert.Contains(t, result.Errors[0], "field id: expected 3, got 2")
}

func TestRun_InlineEntities(t *testing.T) {
	sc := mustParse(t, `
name: inline
schema: testdata/schema
entities:
  - {type: user, id: 9, label: rolf}
cases:
  - name: user by name
    search: 'user:rolf'
    expect:
      values: {user: [9]}
`)
	result, err := Run(sc)
	require.NoError(t, err)
	assert.True(t, result.Pass, strings.Join(result.Errors, "\n"))
}

func TestRun_SetupErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing schema dir", `
name: x
schema: testdata/nope
cases: [{name: a, search: x, expect: {values: {}}}]
`},
		{"missing seed", `
name: x
schema: testdata/schema
seed: testdata/nope.yaml
cases: [{name: a, search: x, expect: {values: {}}}]
`},
		{"bad location", `
name: x
schema: testdata/schema
location: Mars/Olympus_Mons
cases: [{name: a, search: x, expect: {values: {}}}]
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(mustParse(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown field": `
name: x
schema: s
casez: []`,
		"no name": `
schema: s
cases: [{name: a, search: x, expect: {values: {}}}]`,
		"no schema": `
name: x
cases: [{name: a, search: x, expect: {values: {}}}]`,
		"no cases": `
name: x
schema: s`,
		"both inputs": `
name: x
schema: s
cases: [{name: a, search: x, params: {a: b}, expect: {values: {}}}]`,
		"no expectation": `
name: x
schema: s
cases: [{name: a, search: x}]`,
		"unknown code": `
name: x
schema: s
cases: [{name: a, search: x, expect: {error: NOPE}}]`,
		"field without error": `
name: x
schema: s
cases: [{name: a, search: x, expect: {values: {}, field: f}}]`,
		"duplicate case": `
name: x
schema: s
cases:
  - {name: a, search: x, expect: {values: {}}}
  - {name: a, search: y, expect: {values: {}}}`,
		"bad backend": `
name: x
schema: s
backend: postgres
cases: [{name: a, search: x, expect: {values: {}}}]`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScenario([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestLoadScenario_ResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: x
schema: schema
seed: seed.yaml
cases: [{name: a, search: x, expect: {values: {}}}]
`), 0o644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "schema"), sc.Schema)
	assert.Equal(t, filepath.Join(dir, "seed.yaml"), sc.Seed)
	assert.Empty(t, sc.Ranks)
}

func TestCase_Input(t *testing.T) {
	q := "name:42"
	assert.Equal(t, "name:42", Case{Search: &q}.Input())
	assert.Equal(t, SurfaceSearch, Case{Search: &q}.Surface())

	c := Case{Params: map[string]string{"b": "2", "a": "1"}}
	assert.Equal(t, "a=1 b=2", c.Input())
	assert.Equal(t, SurfaceParams, c.Surface())
}

func TestCheckExpect_ErrorOrder(t *testing.T) {
	errs := []*parseerr.Error{parseerr.BadTerm("x"), parseerr.CantBeBlank("notes")}
	assert.Empty(t, checkExpect(Expect{Error: parseerr.CodeBadTerm, Field: "x"}, nil, errs))
	assert.NotEmpty(t, checkExpect(Expect{Error: parseerr.CodeParameterCantBeBlank}, nil, errs))
}

func mustParse(t *testing.T, src string) *Scenario {
	t.Helper()
	sc, err := ParseScenario([]byte(src))
	require.NoError(t, err)
	return sc
}

func errorCodes(errs []*parseerr.Error) []parseerr.Code {
	var codes []parseerr.Code
	for _, e := range errs {
		codes = append(codes, e.Code)
	}
	return codes
}
