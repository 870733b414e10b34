// Package rank holds the ordered table of taxonomic ranks used by rank-range
// search terms, together with the alias names each rank answers to.
//
// The table is data, not code: the built-in one is embedded from ranks.yaml
// and a deployment may load its own with Load.
package rank

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/roach88/obsparse/internal/parseerr"
	"github.com/roach88/obsparse/internal/typed"
)

//go:embed ranks.yaml
var defaultRanks []byte

// Rank is one row of the table.
type Rank struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases,omitempty"`
}

type file struct {
	Ranks []Rank `yaml:"ranks"`
}

// Table is an immutable ordered rank list, lowest rank first.
// Safe for concurrent use.
type Table struct {
	ranks  []Rank
	index  map[string]int // folded name or alias -> position
	spoken []string       // every name and alias, for suggestions
}

// New builds a table. Names and aliases must be unique ignoring case.
func New(ranks []Rank) (*Table, error) {
	if len(ranks) == 0 {
		return nil, fmt.Errorf("rank table is empty")
	}
	fold := cases.Fold()
	t := &Table{
		ranks: make([]Rank, len(ranks)),
		index: make(map[string]int),
	}
	for i, r := range ranks {
		if r.Name == "" {
			return nil, fmt.Errorf("rank %d: name is required", i)
		}
		t.ranks[i] = Rank{Name: r.Name, Aliases: append([]string(nil), r.Aliases...)}
		for _, n := range append([]string{r.Name}, r.Aliases...) {
			key := fold.String(n)
			if prev, dup := t.index[key]; dup {
				return nil, fmt.Errorf("rank %q: name %q already used by %q", r.Name, n, t.ranks[prev].Name)
			}
			t.index[key] = i
			t.spoken = append(t.spoken, n)
		}
	}
	return t, nil
}

// Parse decodes a YAML rank table. Unknown fields are rejected.
func Parse(data []byte) (*Table, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse rank table: %w", err)
	}
	return New(f.Ranks)
}

// Load reads a YAML rank table from path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rank table: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in table.
func Default() *Table {
	t, err := Parse(defaultRanks)
	if err != nil {
		panic(fmt.Sprintf("embedded rank table: %v", err))
	}
	return t
}

// Names returns the canonical rank names, lowest first.
func (t *Table) Names() []string {
	out := make([]string, len(t.ranks))
	for i, r := range t.ranks {
		out[i] = r.Name
	}
	return out
}

// Lookup resolves a rank name or alias, ignoring case, to its canonical name
// and position.
func (t *Table) Lookup(name string) (string, int, bool) {
	i, ok := t.index[cases.Fold().String(strings.TrimSpace(name))]
	if !ok {
		return "", -1, false
	}
	return t.ranks[i].Name, i, true
}

// ParseRange resolves "Rank" or "Rank-Rank" to canonical names, lowest rank
// first. A single rank yields from == to.
func (t *Table) ParseRange(val string) (from, to string, err error) {
	left, right, found := strings.Cut(val, "-")
	if !found {
		right = left
	}
	f, fi, okF := t.Lookup(left)
	g, gi, okG := t.Lookup(right)
	if !okF || !okG {
		bad := left
		if okF {
			bad = right
		}
		return "", "", parseerr.BadRankRange(val, typed.Suggest(strings.TrimSpace(bad), t.spoken))
	}
	if fi > gi {
		f, g = g, f
	}
	return f, g, nil
}
