package schema

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/obsparse/internal/param"
	"github.com/roach88/obsparse/internal/search"
)

// Schema is a compiled set of declarations.
type Schema struct {
	Params *param.ConfigSet
	Search *search.Schema

	// Files is the number of CUE files the schema was loaded from; zero for
	// CompileString.
	Files int
}

// LoadMode controls how errors are handled while compiling.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Load compiles the CUE package in dir, stopping at the first error.
func Load(dir string) (*Schema, error) {
	s, errs := LoadDir(dir, LoadModeFailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return s, nil
}

// LoadDir compiles the CUE package in dir. With LoadModeCollectAll every
// declaration error is returned; the schema is nil whenever errs is not
// empty.
func LoadDir(dir string, mode LoadMode) (*Schema, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&CompileError{Code: ErrCodeNotFound, Field: dir, Message: "schema directory not found"}}
	}
	if err != nil {
		return nil, []error{&CompileError{Code: ErrCodeNotFound, Field: dir, Message: err.Error()}}
	}
	if !info.IsDir() {
		return nil, []error{&CompileError{Code: ErrCodeNotFound, Field: dir, Message: "not a directory"}}
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&CompileError{Code: ErrCodeScanError, Field: dir, Message: err.Error()}}
	}
	if len(files) == 0 {
		return nil, []error{&CompileError{Code: ErrCodeNoFiles, Field: dir, Message: "no CUE files found"}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&CompileError{Code: ErrCodeLoadFailed, Field: dir, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&CompileError{Code: ErrCodeLoadFailed, Field: dir, Message: inst.Err.Error()}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		ce := formatCUEError(err, dir).(*CompileError)
		ce.Code = ErrCodeBuildFailed
		return nil, []error{ce}
	}

	s, errs := compile(value, mode)
	if s != nil {
		s.Files = len(files)
	}
	return s, errs
}

// CompileString compiles a schema from CUE source, stopping at the first
// error.
func CompileString(src string) (*Schema, error) {
	value := cuecontext.New().CompileString(src, cue.Filename("schema.cue"))
	if err := value.Err(); err != nil {
		ce := formatCUEError(err, "schema.cue").(*CompileError)
		ce.Code = ErrCodeBuildFailed
		return nil, ce
	}
	s, errs := compile(value, LoadModeFailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return s, nil
}

func compile(value cue.Value, mode LoadMode) (*Schema, []error) {
	var errs []error
	fail := func(err error) bool {
		errs = append(errs, err)
		return mode == LoadModeFailFast
	}

	configs := map[string]param.Config{}
	if pv := value.LookupPath(cue.ParsePath("param")); pv.Exists() {
		iter, err := pv.Fields()
		if err != nil {
			return nil, []error{formatCUEError(err, "param")}
		}
		for iter.Next() {
			name := iter.Selector().Unquoted()
			cfg, err := CompileParam(name, iter.Value())
			if err != nil {
				if fail(err) {
					return nil, errs
				}
				continue
			}
			configs[name] = cfg
		}
	}

	fields := map[string]search.Field{}
	if sv := value.LookupPath(cue.ParsePath("search")); sv.Exists() {
		iter, err := sv.Fields()
		if err != nil {
			return nil, append(errs, formatCUEError(err, "search"))
		}
		for iter.Next() {
			name := iter.Selector().Unquoted()
			f, err := CompileSearchField(name, iter.Value())
			if err != nil {
				if fail(err) {
					return nil, errs
				}
				continue
			}
			fields[name] = f
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	params, err := param.NewConfigSet(configs)
	if err != nil {
		errs = append(errs, &CompileError{Code: ErrCodeConfig, Field: "param", Message: err.Error()})
	}
	searchSchema, err := search.NewSchema(fields)
	if err != nil {
		errs = append(errs, &CompileError{Code: ErrCodeConfig, Field: "search", Message: err.Error()})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &Schema{Params: params, Search: searchSchema}, nil
}

// FindCUEFiles walks dir and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return files, nil
}
