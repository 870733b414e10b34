package resolver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed is a YAML fixture of entities and permission grants.
//
//	entities:
//	  - {type: name, id: 42, label: Russula brevipes Peck, search_name: Russula brevipes}
//	grants:
//	  - {type: project, id: 7, permission: member, actor: 1}
type Seed struct {
	Entities []Entity    `yaml:"entities"`
	Grants   []SeedGrant `yaml:"grants,omitempty"`
}

// SeedGrant is one permission row in a Seed.
type SeedGrant struct {
	Type       Type       `yaml:"type"`
	ID         int64      `yaml:"id"`
	Permission Permission `yaml:"permission"`
	Actor      int64      `yaml:"actor"`
}

// ParseSeed decodes and validates a seed. Unknown fields are rejected.
func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return &s, nil
}

// LoadSeed reads a seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// Validate checks types, permissions and id uniqueness.
func (s *Seed) Validate() error {
	seen := make(map[Type]map[int64]bool)
	for i, e := range s.Entities {
		if !e.Type.Valid() {
			return fmt.Errorf("entity %d: unknown type %q", i, e.Type)
		}
		if e.ID <= 0 {
			return fmt.Errorf("entity %d: id must be positive", i)
		}
		if seen[e.Type] == nil {
			seen[e.Type] = make(map[int64]bool)
		}
		if seen[e.Type][e.ID] {
			return fmt.Errorf("entity %d: duplicate %s id %d", i, e.Type, e.ID)
		}
		seen[e.Type][e.ID] = true
	}
	for i, g := range s.Grants {
		if !g.Type.Valid() {
			return fmt.Errorf("grant %d: unknown type %q", i, g.Type)
		}
		if !g.Permission.Valid() {
			return fmt.Errorf("grant %d: unknown permission %q", i, g.Permission)
		}
	}
	return nil
}

// Apply loads the seed into m.
func (s *Seed) Apply(m *Memory) {
	for _, e := range s.Entities {
		m.Put(e)
	}
	for _, g := range s.Grants {
		m.Grant(g.Type, g.ID, g.Permission, g.Actor)
	}
}
