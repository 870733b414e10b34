package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/parseerr"
	"github.com/roach88/obsparse/internal/resolver"
)

const seedYAML = `
entities:
  - {type: name, id: 42, label: Russula brevipes Peck, search_name: Russula brevipes}
  - {type: name, id: 43, label: Russula brevipes var. acrior Shaffer, search_name: Russula brevipes var. acrior}
  - {type: name, id: 50, label: Agaricus campestris L., search_name: Agaricus campestris}
  - {type: name, id: 51, label: Agaricus campestris Fr., search_name: Agaricus campestris, deprecated: true}
  - {type: user, id: 1, label: Jason Hollinger, search_name: jason}
  - {type: location, id: 9, label: "Mt. Tamalpais, Marin Co., California, USA"}
  - {type: project, id: 7, label: Bolete Project}
grants:
  - {type: project, id: 7, permission: member, actor: 1}
`

func seededStore(t *testing.T) *Store {
	t.Helper()
	s := createTestStore(t)
	seed, err := resolver.ParseSeed([]byte(seedYAML))
	require.NoError(t, err)
	require.NoError(t, s.LoadSeed(context.Background(), seed))
	return s
}

func TestResolveByID(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	id, err := s.ResolveByID(ctx, resolver.Name, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = s.ResolveByID(ctx, resolver.Name, 1)
	assert.ErrorIs(t, err, resolver.ErrNotFound)
}

func TestResolveByString(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	got, err := s.ResolveByString(ctx, resolver.Name, "russula BREVIPES")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(42), got[0].ID)
	assert.Equal(t, "Russula brevipes", got[0].SearchName)
	assert.Equal(t, int64(43), got[1].ID)

	got, err = s.ResolveByString(ctx, resolver.Location, "Mt. Tamalpais, Marin Co., California, USA")
	require.NoError(t, err)
	assert.Equal(t, int64(9), got[0].ID)

	_, err = s.ResolveByString(ctx, resolver.Name, "Russ")
	assert.ErrorIs(t, err, resolver.ErrNotFound)
}

func TestStore_AgreesWithLookup(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	id, err := resolver.LookupOne(ctx, s, resolver.Name, "Agaricus campestris")
	require.NoError(t, err)
	assert.Equal(t, int64(50), id)

	id, err = resolver.LookupOne(ctx, s, resolver.Name, "Russula brevipes")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = resolver.LookupOne(ctx, s, resolver.User, "99")
	assert.True(t, parseerr.Is(err, parseerr.CodeObjectNotFoundByID))
}

func TestPutEntity_Replaces(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutEntity(ctx, resolver.Entity{Type: resolver.User, ID: 1, Label: "J. Hollinger", SearchName: "jhollinger"}))

	_, err := s.ResolveByString(ctx, resolver.User, "jason")
	assert.ErrorIs(t, err, resolver.ErrNotFound)
	got, err := s.ResolveByString(ctx, resolver.User, "jhollinger")
	require.NoError(t, err)
	assert.Equal(t, "J. Hollinger", got[0].Label)

	assert.Error(t, s.PutEntity(ctx, resolver.Entity{Type: "mushroom", ID: 1, Label: "x"}))
}

func TestCheckPermission(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	ok, err := s.CheckPermission(ctx, resolver.Project, 7, resolver.MustBeMember, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.CheckPermission(ctx, resolver.Project, 7, resolver.MustBeAdmin, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	// Granting twice is a no-op
	require.NoError(t, s.Grant(ctx, resolver.Project, 7, resolver.MustBeMember, 1))
}

func TestGrant_RequiresEntity(t *testing.T) {
	s := createTestStore(t)
	err := s.Grant(context.Background(), resolver.Project, 404, resolver.MustBeAdmin, 1)
	assert.Error(t, err, "foreign key should reject grants on missing entities")
}

func TestLoadSeed_Atomic(t *testing.T) {
	s := createTestStore(t)
	seed := &resolver.Seed{
		Entities: []resolver.Entity{{Type: resolver.User, ID: 1, Label: "a"}},
		Grants:   []resolver.SeedGrant{{Type: resolver.Project, ID: 404, Permission: resolver.MustBeAdmin, Actor: 1}},
	}
	require.Error(t, s.LoadSeed(context.Background(), seed))

	_, err := s.ResolveByID(context.Background(), resolver.User, 1)
	assert.ErrorIs(t, err, resolver.ErrNotFound, "failed seed must not leave partial rows")
}

func TestRecordQuery(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	v := ir.Object{"user": ir.List{ir.Int(1)}}
	fp1, err := s.RecordQuery(ctx, SurfaceSearch, "user:1", v)
	require.NoError(t, err)
	fp2, err := s.RecordQuery(ctx, SurfaceSearch, "user:jason", v)
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)

	fp3, err := s.RecordQuery(ctx, SurfaceParams, "user=1", v)
	require.NoError(t, err)
	assert.NotEqual(t, fp1, fp3)

	log, err := s.Queries(ctx)
	require.NoError(t, err)
	require.Len(t, log, 2)
	assert.Equal(t, "user:1", log[0].Input)
	assert.Equal(t, `{"user":[1]}`, log[0].Result)
	assert.Equal(t, int64(1), log[0].Seq)
	assert.Equal(t, int64(2), log[0].Hits)
	assert.Equal(t, SurfaceParams, log[1].Surface)
	assert.Equal(t, int64(1), log[1].Hits)

	_, err = s.RecordQuery(ctx, "graphql", "x", v)
	assert.Error(t, err)
}
