package schema

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/obsparse/internal/geo"
	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/param"
	"github.com/roach88/obsparse/internal/parseerr"
	"github.com/roach88/obsparse/internal/resolver"
	"github.com/roach88/obsparse/internal/search"
	"github.com/roach88/obsparse/internal/testutil"
)

func TestLoad_Observations(t *testing.T) {
	s, err := Load("testdata/observations")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Files)

	cfg, ok := s.Params.Lookup("size")
	require.True(t, ok)
	assert.Equal(t, param.Integer{}, cfg.Kind)
	assert.True(t, cfg.Range)
	assert.False(t, cfg.List)
	assert.Equal(t, param.Between(ir.Int(1), ir.Int(100)), cfg.Limit)

	cfg, _ = s.Params.Lookup("size_name")
	assert.Equal(t, ir.String("medium"), cfg.Default)

	cfg, _ = s.Params.Lookup("north")
	assert.Equal(t, param.Coordinate{Axis: geo.Latitude}, cfg.Kind)
	assert.Equal(t, param.Between(ir.Float(-90), ir.Float(90)), cfg.Limit)

	cfg, _ = s.Params.Lookup("project")
	assert.Equal(t, param.Object{
		Type:        resolver.Project,
		Permissions: []resolver.Permission{resolver.MustBeMember},
	}, cfg.Kind)

	f, ok := s.Search.Lookup("size")
	require.True(t, ok)
	assert.Equal(t, search.Field{Accessor: search.AccFloat, Min: 0, Max: 10}, f)

	f, _ = s.Search.Lookup("date")
	assert.Equal(t, search.AccDateRange, f.Accessor)
}

func TestLoad_DerivesEntityTypes(t *testing.T) {
	s, err := Load("testdata/observations")
	require.NoError(t, err)

	params := map[string]resolver.Type{
		"names":    resolver.Name,
		"herbaria": resolver.Herbarium,
		"project":  resolver.Project,
		"observer": resolver.User,
	}
	for name, want := range params {
		cfg, ok := s.Params.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, want, cfg.Kind.(param.Object).Type, name)
	}

	fields := map[string]resolver.Type{
		"name":         resolver.Name,
		"species_list": resolver.SpeciesList,
		"herbarium":    resolver.Herbarium,
	}
	for name, want := range fields {
		f, ok := s.Search.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, want, f.Type, name)
	}
}

func TestLoad_EndToEnd(t *testing.T) {
	s, err := Load("testdata/observations")
	require.NoError(t, err)
	ctx := context.Background()

	p := param.NewParser(s.Params, param.WithResolver(testutil.Catalog()), param.WithActor(testutil.Actor))
	res := p.ParseAll(ctx, param.Raw{"names": "42,Agaricus campestris", "size": "10-5"})
	require.True(t, res.OK(), "%v", res.Errors)
	assert.Equal(t, ir.List{ir.Int(42), ir.Int(70)}, res.Values["names"])
	assert.Equal(t, ir.Range{From: ir.Int(5), To: ir.Int(10)}, res.Values["size"])

	in := search.NewInterpreter(s.Search, search.WithResolver(testutil.Catalog()))
	got, err := in.Interpret(ctx, "Russula rank:genus-species")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestLoadDir_CollectAll(t *testing.T) {
	s, errs := LoadDir("testdata/broken", LoadModeCollectAll)
	assert.Nil(t, s)
	require.Len(t, errs, 4)

	var codes []string
	for _, err := range errs {
		var ce *CompileError
		require.True(t, errors.As(err, &ce), "%v", err)
		codes = append(codes, ce.Code)
		assert.True(t, ce.Pos.IsValid(), "error without position: %v", ce)
	}
	assert.Equal(t, []string{ErrCodeKind, ErrCodeKind, ErrCodeRef, ErrCodeAccessor}, codes)
}

func TestLoadDir_FailFast(t *testing.T) {
	_, errs := LoadDir("testdata/broken", LoadModeFailFast)
	require.Len(t, errs, 1)
}

func TestLoadDir_Missing(t *testing.T) {
	tests := []struct {
		name string
		dir  func(t *testing.T) string
		code string
	}{
		{"no such dir", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope") }, ErrCodeNotFound},
		{"no cue files", func(t *testing.T) string { return t.TempDir() }, ErrCodeNoFiles},
		{"not a dir", func(t *testing.T) string {
			p := filepath.Join(t.TempDir(), "file.cue")
			require.NoError(t, os.WriteFile(p, []byte("x: 1"), 0o644))
			return p
		}, ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := LoadDir(tt.dir(t), LoadModeFailFast)
			require.Len(t, errs, 1)
			var ce *CompileError
			require.True(t, errors.As(errs[0], &ce))
			assert.Equal(t, tt.code, ce.Code)
		})
	}
}

func TestCompileString_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"cue syntax", `param: {`, ErrCodeBuildFailed},
		{"unknown key", `param: id: {kind: "integer", lists: true}`, ErrCodeUnknown},
		{"enum without allowed", `param: s: {kind: "enum"}`, ErrCodeKind},
		{"bad permission", `param: project: {kind: "object", permissions: ["root"]}`, ErrCodeKind},
		{"bad default", `param: d: {kind: "date", default: "yesterday"}`, ErrCodeDefault},
		{"enum default outside set", `param: s: {kind: "enum", allowed: ["a"], default: "b"}`, ErrCodeDefault},
		{"half a range limit", `param: n: {kind: "integer", limit: {min: 1}}`, ErrCodeLimit},
		{"two limits", `param: n: {kind: "integer", limit: {min: 1, max: 2, one_of: ["1"]}}`, ErrCodeLimit},
		{"empty limit", `param: n: {kind: "integer", limit: {}}`, ErrCodeLimit},
		{"range on string", `param: s: {kind: "string", range: true}`, ErrCodeConfig},
		{"float without bounds", `search: size: "float"`, ErrCodeLimit},
		{"ref on non-list", `search: notes: {accessor: "string", ref: "name"}`, ErrCodeRef},
		{"list type not derivable", `search: widgets: {accessor: "list"}`, ErrCodeRef},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileString(tt.src)
			var ce *CompileError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, tt.code, ce.Code, ce.Error())
		})
	}
}

func TestCompileString_Values(t *testing.T) {
	s, err := CompileString(`
param: {
	since: {kind: "date", default: "2010-01-02", limit: {min: "2000-01-01", max: "2030-12-31"}}
	lang: {kind: "lang", allowed: ["en", "fr"], default: "EN"}
	level: {kind: "integer", limit: {one_of: [1, 2, 3]}}
	ratio: {kind: "float", default: 1}
}`)
	require.NoError(t, err)

	cfg, _ := s.Params.Lookup("since")
	assert.Equal(t, ir.NewDate(2010, 1, 2), cfg.Default)
	assert.Equal(t, param.Between(ir.NewDate(2000, 1, 1), ir.NewDate(2030, 12, 31)), cfg.Limit)

	cfg, _ = s.Params.Lookup("lang")
	assert.Equal(t, ir.String("en"), cfg.Default)

	cfg, _ = s.Params.Lookup("ratio")
	assert.Equal(t, ir.Float(1), cfg.Default)

	p := param.NewParser(s.Params)
	level := "4"
	_, err = p.Parse(context.Background(), "level", &level, param.Scalar)
	assert.True(t, parseerr.Is(err, parseerr.CodeBadLimitedParameterValue))

	f, ok := s.Search.Lookup("pattern")
	require.True(t, ok)
	assert.Equal(t, search.AccPattern, f.Accessor)
}
