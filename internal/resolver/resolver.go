// Package resolver defines the entity lookup collaborator that turns raw ids
// and names in queries into catalog entity ids.
//
// Parsers depend only on the Resolver interface. Memory is an in-process
// implementation for tests and small seeds; internal/store provides the
// sqlite-backed one.
package resolver

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Type tags an entity table.
type Type string

const (
	Observation      Type = "observation"
	Name             Type = "name"
	User             Type = "user"
	Project          Type = "project"
	Location         Type = "location"
	Herbarium        Type = "herbarium"
	Image            Type = "image"
	SpeciesList      Type = "species_list"
	CollectionNumber Type = "collection_number"
	HerbariumRecord  Type = "herbarium_record"
	Sequence         Type = "sequence"
	ExternalLink     Type = "external_link"
)

// Types lists every entity type.
var Types = []Type{
	Observation, Name, User, Project, Location, Herbarium, Image,
	SpeciesList, CollectionNumber, HerbariumRecord, Sequence, ExternalLink,
}

// Valid reports whether t is a known entity type.
func (t Type) Valid() bool {
	for _, k := range Types {
		if k == t {
			return true
		}
	}
	return false
}

// Permission is a post-resolution check on an entity.
type Permission string

const (
	MustHaveView Permission = "view"
	MustHaveEdit Permission = "edit"
	MustBeAdmin  Permission = "admin"
	MustBeMember Permission = "member"
)

// Valid reports whether p is a known permission.
func (p Permission) Valid() bool {
	switch p {
	case MustHaveView, MustHaveEdit, MustBeAdmin, MustBeMember:
		return true
	}
	return false
}

// ErrNotFound is returned by resolvers when nothing matches.
var ErrNotFound = errors.New("entity not found")

// Candidate is one textual match.
type Candidate struct {
	ID         int64  `json:"id" yaml:"id"`
	Label      string `json:"label" yaml:"label"`
	SearchName string `json:"search_name,omitempty" yaml:"search_name,omitempty"`
	Deprecated bool   `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// Resolver looks entities up by id or text and checks permissions.
// Implementations must be safe for concurrent use.
type Resolver interface {
	// ResolveByID returns id when an entity of type t exists, else ErrNotFound.
	ResolveByID(ctx context.Context, t Type, id int64) (int64, error)

	// ResolveByString returns every entity of type t matching text, in id
	// order, or ErrNotFound when there are none.
	ResolveByString(ctx context.Context, t Type, text string) ([]Candidate, error)

	// CheckPermission reports whether actor holds perm on the entity.
	CheckPermission(ctx context.Context, t Type, id int64, perm Permission, actor int64) (bool, error)
}

// Key normalizes text for name comparison: NFC, case folded, inner
// whitespace collapsed.
func Key(text string) string {
	s := norm.NFC.String(strings.Join(strings.Fields(text), " "))
	return cases.Fold().String(s)
}

// Matches reports whether query selects an entity with the given label and
// search name: an exact match on either, or the label starting with query
// followed by a space (an author citation, say).
func Matches(query, label, searchName string) bool {
	q := Key(query)
	if q == "" {
		return false
	}
	l := Key(label)
	return q == l || q == Key(searchName) || strings.HasPrefix(l, q+" ")
}
