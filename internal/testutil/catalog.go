// Package testutil holds fixtures shared by package tests.
package testutil

import "github.com/roach88/obsparse/internal/resolver"

// Actor is the user the catalog's grants are made to.
const Actor int64 = 1

// CatalogSeed returns a small catalog covering every resolution outcome:
//
//   - name 42 resolves uniquely by search name
//   - "Boletus edulis" is ambiguous between 60 and 61
//   - "Agaricus campestris" narrows to 70 because 71 is deprecated
//   - "Amanita muscaria var." matches 80 by label only
//   - project 7 grants membership to Actor; project 8 grants nothing
func CatalogSeed() *resolver.Seed {
	return &resolver.Seed{
		Entities: []resolver.Entity{
			{Type: resolver.Name, ID: 42, Label: "Russula brevipes Peck", SearchName: "Russula brevipes"},
			{Type: resolver.Name, ID: 60, Label: "Boletus edulis Bull.", SearchName: "Boletus edulis"},
			{Type: resolver.Name, ID: 61, Label: "Boletus edulis Fr.", SearchName: "Boletus edulis"},
			{Type: resolver.Name, ID: 70, Label: "Agaricus campestris L.", SearchName: "Agaricus campestris"},
			{Type: resolver.Name, ID: 71, Label: "Agaricus campestris Fr.", SearchName: "Agaricus campestris", Deprecated: true},
			{Type: resolver.Name, ID: 80, Label: "Amanita muscaria var. flavivolvata", SearchName: "Amanita muscaria flavivolvata"},
			{Type: resolver.User, ID: 1, Label: "jason"},
			{Type: resolver.User, ID: 2, Label: "mary"},
			{Type: resolver.Project, ID: 7, Label: "Bolete Project"},
			{Type: resolver.Project, ID: 8, Label: "Secret Project"},
			{Type: resolver.Location, ID: 100, Label: "Burbank, California, USA"},
			{Type: resolver.Herbarium, ID: 5, Label: "NY Botanical Garden"},
			{Type: resolver.SpeciesList, ID: 9, Label: "Mendocino Foray"},
		},
		Grants: []resolver.SeedGrant{
			{Type: resolver.Project, ID: 7, Permission: resolver.MustBeMember, Actor: Actor},
			{Type: resolver.Project, ID: 7, Permission: resolver.MustHaveView, Actor: Actor},
		},
	}
}

// Catalog returns CatalogSeed loaded into a fresh in-memory resolver.
func Catalog() *resolver.Memory {
	m := resolver.NewMemory()
	CatalogSeed().Apply(m)
	return m
}
