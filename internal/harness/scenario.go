package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/obsparse/internal/parseerr"
	"github.com/roach88/obsparse/internal/resolver"
)

// Backends a scenario can run against.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Scenario is a set of parse cases sharing one schema and seed.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Schema is the CUE schema directory. Relative paths are resolved
	// against the scenario file's directory by LoadScenario.
	Schema string `yaml:"schema"`

	// Seed is an optional seed file, resolved like Schema.
	Seed string `yaml:"seed,omitempty"`

	// Entities and Grants are seeded after Seed.
	Entities []resolver.Entity    `yaml:"entities,omitempty"`
	Grants   []resolver.SeedGrant `yaml:"grants,omitempty"`

	// Backend selects the resolver; empty means BackendMemory.
	Backend string `yaml:"backend,omitempty"`

	// Actor is the user object parameters check permissions for.
	Actor int64 `yaml:"actor,omitempty"`

	// Location is the IANA zone time parameters are read in; empty is UTC.
	Location string `yaml:"location,omitempty"`

	// Ranks is an optional rank table file, resolved like Schema.
	Ranks string `yaml:"ranks,omitempty"`

	Cases []Case `yaml:"cases"`
}

// Case is one input and its expected outcome.
type Case struct {
	Name string `yaml:"name"`

	// Search is a search string. Exactly one of Search and Params is set.
	Search *string `yaml:"search,omitempty"`

	// Params maps parameter names to raw values.
	Params map[string]string `yaml:"params,omitempty"`

	Expect Expect `yaml:"expect"`
}

// Surface names the surface the case exercises.
func (c Case) Surface() string {
	if c.Search != nil {
		return SurfaceSearch
	}
	return SurfaceParams
}

// Input returns the case input as one string, for reports.
func (c Case) Input() string {
	if c.Search != nil {
		return *c.Search
	}
	return formatParams(c.Params)
}

// Surfaces.
const (
	SurfaceSearch = "search"
	SurfaceParams = "params"
)

// Expect is the expected outcome of a case. Exactly one of Values and
// Error is set.
type Expect struct {
	// Values is a subset of the parsed values by field name.
	Values map[string]any `yaml:"values,omitempty"`

	// Error is the expected error code of the first error.
	Error parseerr.Code `yaml:"error,omitempty"`

	// Field optionally names the field the error is attached to.
	Field string `yaml:"field,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected. Relative schema, seed and ranks paths are resolved against the
// file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	sc.Schema = resolvePath(base, sc.Schema)
	sc.Seed = resolvePath(base, sc.Seed)
	sc.Ranks = resolvePath(base, sc.Ranks)
	return sc, nil
}

// ParseScenario decodes and validates a scenario. Paths are left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func validateScenario(sc *Scenario) error {
	if sc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if sc.Schema == "" {
		return fmt.Errorf("schema is required")
	}
	switch sc.Backend {
	case "", BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q", sc.Backend)
	}
	if len(sc.Cases) == 0 {
		return fmt.Errorf("at least one case is required")
	}

	seen := make(map[string]bool)
	for i, c := range sc.Cases {
		if err := validateCase(i, c); err != nil {
			return err
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate name %q", i, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

func validateCase(index int, c Case) error {
	if c.Name == "" {
		return fmt.Errorf("cases[%d]: name is required", index)
	}
	if (c.Search == nil) == (c.Params == nil) {
		return fmt.Errorf("cases[%d]: exactly one of search and params is required", index)
	}
	hasValues, hasError := c.Expect.Values != nil, c.Expect.Error != ""
	if hasValues == hasError {
		return fmt.Errorf("cases[%d]: expect needs exactly one of values and error", index)
	}
	if hasError && !c.Expect.Error.Valid() {
		return fmt.Errorf("cases[%d]: unknown error code %q", index, c.Expect.Error)
	}
	if c.Expect.Field != "" && !hasError {
		return fmt.Errorf("cases[%d]: field applies to error expectations only", index)
	}
	return nil
}
