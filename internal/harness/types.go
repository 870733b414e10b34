package harness

import (
	"sort"
	"strings"

	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/parseerr"
)

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name    string `json:"name"`
	Surface string `json:"surface"`
	Input   string `json:"input"`

	// Values holds the parsed values; nil when the case failed to parse.
	Values ir.Object `json:"values,omitempty"`

	// Fingerprint identifies Values; empty when the case failed to parse.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Errors holds every structured error the case produced.
	Errors []*parseerr.Error `json:"errors,omitempty"`

	// Mismatch describes how the outcome differs from the expectation.
	Mismatch string `json:"mismatch,omitempty"`
}

// Pass reports whether the case met its expectation.
func (c CaseResult) Pass() bool { return c.Mismatch == "" }

// Result is the outcome of a scenario.
type Result struct {
	// Pass is true when every case met its expectation.
	Pass bool `json:"pass"`

	Cases []CaseResult `json:"cases"`

	// Errors holds one message per failed case.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddCase records a case outcome, failing the result on a mismatch.
func (r *Result) AddCase(c CaseResult) {
	r.Cases = append(r.Cases, c)
	if !c.Pass() {
		r.AddError(c.Name + ": " + c.Mismatch)
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func formatParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + params[k]
	}
	return strings.Join(parts, " ")
}
