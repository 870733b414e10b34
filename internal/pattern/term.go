package pattern

import (
	"context"
	"strings"

	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/parseerr"
	"github.com/roach88/obsparse/internal/rank"
	"github.com/roach88/obsparse/internal/resolver"
	"github.com/roach88/obsparse/internal/typed"
)

// Latitude and longitude bounds for ParseLatitude and ParseLongitude.
const (
	MaxLatitude  = 90
	MaxLongitude = 180
)

// single returns the only value of t.
func (t Term) single() (string, error) {
	switch len(t.Values) {
	case 0:
		return "", parseerr.MissingValue(t.Field)
	case 1:
		return t.Values[0], nil
	}
	return "", parseerr.TooManyValues(t.Field)
}

func (t Term) values() ([]string, error) {
	if len(t.Values) == 0 {
		return nil, parseerr.MissingValue(t.Field)
	}
	return t.Values, nil
}

// ParseString returns the single value unchanged.
func (t Term) ParseString() (string, error) {
	return t.single()
}

// ParseStrings returns every value.
func (t Term) ParseStrings() ([]string, error) {
	return t.values()
}

// ParsePattern rebuilds the free-text pattern: values quoted as needed and
// joined by spaces.
func (t Term) ParsePattern() (string, error) {
	vals, err := t.values()
	if err != nil {
		return "", err
	}
	quoted := make([]string, len(vals))
	for i, v := range vals {
		quoted[i] = Quote(v)
	}
	return strings.Join(quoted, " "), nil
}

// ParseBoolean accepts 1/yes/true and 0/no/false, ignoring case. With
// onlyYes, false-ish values are rejected.
func (t Term) ParseBoolean(onlyYes bool) (bool, error) {
	v, err := t.single()
	if err != nil {
		return false, err
	}
	b, err := typed.ParseBoolean(v, onlyYes)
	return b, parseerr.Attach(err, t.Field)
}

// ParseYesNoBoth returns "only", "no" or "either".
func (t Term) ParseYesNoBoth() (string, error) {
	v, err := t.single()
	if err != nil {
		return "", err
	}
	s, err := typed.ParseYesNoBoth(v)
	return s, parseerr.Attach(err, t.Field)
}

// ParseFloat parses a decimal literal in [min, max].
func (t Term) ParseFloat(min, max float64) (float64, error) {
	v, err := t.single()
	if err != nil {
		return 0, err
	}
	f, err := typed.ParseBoundedFloat(v, min, max)
	return f, parseerr.Attach(err, t.Field)
}

func (t Term) ParseLatitude() (float64, error) {
	return t.ParseFloat(-MaxLatitude, MaxLatitude)
}

func (t Term) ParseLongitude() (float64, error) {
	return t.ParseFloat(-MaxLongitude, MaxLongitude)
}

// ParseConfidence parses a vote percentage or percentage range and rescales
// it to the [-3, 3] vote scale.
func (t Term) ParseConfidence() (ir.Value, error) {
	v, err := t.single()
	if err != nil {
		return nil, err
	}
	c, err := typed.ParseConfidence(v)
	return c, parseerr.Attach(err, t.Field)
}

// ParseDateRange returns the inclusive ISO date bounds of the value. See
// typed.ParseDateRangeStrings for the accepted forms.
func (t Term) ParseDateRange() (from, to string, err error) {
	v, err := t.single()
	if err != nil {
		return "", "", err
	}
	from, to, err = typed.ParseDateRangeStrings(v)
	return from, to, parseerr.Attach(err, t.Field)
}

// ParseRankRange resolves one rank or a dash-separated pair against table,
// lowest rank first. A single rank yields from == to.
func (t Term) ParseRankRange(table *rank.Table) (from, to string, err error) {
	v, err := t.single()
	if err != nil {
		return "", "", err
	}
	from, to, err = table.ParseRange(v)
	return from, to, parseerr.Attach(err, t.Field)
}

// ParseListOf resolves every value to entity ids, in order. Numeric values
// are ids; others are looked up by text and contribute every surviving
// match. The first failure fails the whole list.
func (t Term) ParseListOf(ctx context.Context, r resolver.Resolver, typ resolver.Type) ([]int64, error) {
	vals, err := t.values()
	if err != nil {
		return nil, err
	}
	var ids []int64
	for _, v := range vals {
		cands, err := resolver.Lookup(ctx, r, typ, v)
		if err != nil {
			return nil, parseerr.Attach(err, t.Field)
		}
		for _, c := range cands {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (t Term) ParseListOfNames(ctx context.Context, r resolver.Resolver) ([]int64, error) {
	return t.ParseListOf(ctx, r, resolver.Name)
}

func (t Term) ParseListOfUsers(ctx context.Context, r resolver.Resolver) ([]int64, error) {
	return t.ParseListOf(ctx, r, resolver.User)
}

func (t Term) ParseListOfProjects(ctx context.Context, r resolver.Resolver) ([]int64, error) {
	return t.ParseListOf(ctx, r, resolver.Project)
}

func (t Term) ParseListOfLocations(ctx context.Context, r resolver.Resolver) ([]int64, error) {
	return t.ParseListOf(ctx, r, resolver.Location)
}

func (t Term) ParseListOfHerbaria(ctx context.Context, r resolver.Resolver) ([]int64, error) {
	return t.ParseListOf(ctx, r, resolver.Herbarium)
}

func (t Term) ParseListOfSpeciesLists(ctx context.Context, r resolver.Resolver) ([]int64, error) {
	return t.ParseListOf(ctx, r, resolver.SpeciesList)
}
