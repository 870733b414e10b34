package schema

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error codes. E0xx are loading failures, E1xx are declaration errors.
const (
	ErrCodeGeneric     = "E001"
	ErrCodeScanError   = "E002"
	ErrCodeNoFiles     = "E003"
	ErrCodeLoadFailed  = "E004"
	ErrCodeNotFound    = "E005"
	ErrCodeBuildFailed = "E006"

	ErrCodeKind     = "E101" // missing or unknown kind
	ErrCodeRef      = "E102" // object type cannot be determined
	ErrCodeDefault  = "E103" // default does not fit the kind
	ErrCodeLimit    = "E104" // malformed limit
	ErrCodeUnknown  = "E105" // unknown declaration key
	ErrCodeAccessor = "E111" // missing or unknown search accessor
	ErrCodeConfig   = "E120" // declaration rejected as a whole
	ErrCodeCUE      = "E130" // CUE evaluation error
)

// CompileError is a declaration error with its CUE source position.
type CompileError struct {
	Code    string
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error, field string) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Code: ErrCodeCUE, Field: field, Message: err.Error()}
	}

	first := errs[0]
	ce := &CompileError{Code: ErrCodeCUE, Field: field, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
