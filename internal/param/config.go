package param

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/typed"
)

// Mode selects scalar, list or range parsing.
type Mode = typed.Mode

const (
	Scalar = typed.Scalar
	List   = typed.List
	Range  = typed.Range
)

// Config declares one parameter.
type Config struct {
	Kind Kind

	// Default is returned when the parameter is absent. It is not parsed
	// or limited.
	Default ir.Value

	// NotBlank rejects a supplied value that is empty after trimming.
	NotBlank bool

	// List and Range allow those modes; Scalar is always allowed.
	List  bool
	Range bool

	Limit Limit
}

// Allows reports whether cfg permits mode.
func (cfg Config) Allows(m Mode) bool {
	switch m {
	case Scalar:
		return true
	case List:
		return cfg.List
	case Range:
		return cfg.Range
	}
	return false
}

// ModeFor picks the mode ParseAll uses for raw: a list when lists are
// allowed and raw has a comma, else a range when ranges are allowed, else a
// list when lists are allowed, else a scalar.
func (cfg Config) ModeFor(raw string) Mode {
	switch {
	case cfg.List && strings.Contains(raw, ","):
		return List
	case cfg.Range:
		return Range
	case cfg.List:
		return List
	}
	return Scalar
}

func (cfg Config) validate() error {
	if err := validateKind(cfg.Kind); err != nil {
		return err
	}
	if cfg.Range && !ordinal(cfg.Kind) {
		return fmt.Errorf("range mode on unordered kind %s", cfg.Kind.Name())
	}
	if cfg.Limit != nil {
		if err := cfg.Limit.compatible(cfg.Kind); err != nil {
			return err
		}
	}
	return nil
}

// ConfigSet is an immutable set of parameter declarations. Safe for
// concurrent use.
type ConfigSet struct {
	names   []string
	configs map[string]Config
}

// ErrInvalidConfig is wrapped by every NewConfigSet failure.
var ErrInvalidConfig = errors.New("invalid parameter config")

// NewConfigSet validates and freezes configs.
func NewConfigSet(configs map[string]Config) (*ConfigSet, error) {
	set := &ConfigSet{configs: make(map[string]Config, len(configs))}
	for name, cfg := range configs {
		if name == "" {
			return nil, fmt.Errorf("%w: empty parameter name", ErrInvalidConfig)
		}
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
		}
		set.configs[name] = cfg
		set.names = append(set.names, name)
	}
	sort.Strings(set.names)
	return set, nil
}

// MustConfigSet is NewConfigSet that panics, for static declarations.
func MustConfigSet(configs map[string]Config) *ConfigSet {
	set, err := NewConfigSet(configs)
	if err != nil {
		panic(err)
	}
	return set
}

// Lookup returns the declaration of name.
func (s *ConfigSet) Lookup(name string) (Config, bool) {
	cfg, ok := s.configs[name]
	return cfg, ok
}

// Names returns the declared names in sorted order.
func (s *ConfigSet) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of declared parameters.
func (s *ConfigSet) Len() int { return len(s.names) }
