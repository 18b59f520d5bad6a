package build

import "errors"

// Sentinel errors classifying build failures. BuildError unwraps to one of
// them, so errors.Is works on any failure returned by Driver.Build.
var (
	ErrCompile            = errors.New("appbuilder: compile error")
	ErrWarningsAsErrors   = errors.New("appbuilder: warnings treated as errors")
	ErrCompilerInvocation = errors.New("appbuilder: compiler invocation failed")
)

// Kind classifies a BuildError.
type Kind int

const (
	// KindCompile means the bundler reported at least one error.
	KindCompile Kind = iota
	// KindWarningsAsErrors means CI is enabled and warnings were produced.
	KindWarningsAsErrors
	// KindInvocation means the bundler failed without a descriptive message.
	KindInvocation
)

func (k Kind) String() string {
	switch k {
	case KindCompile:
		return "compile"
	case KindWarningsAsErrors:
		return "warnings-as-errors"
	case KindInvocation:
		return "invocation"
	default:
		return "unknown"
	}
}

// BuildError is the failure returned by Driver.Build. Message holds the text
// shown after "Failed to compile."; it is empty only for KindInvocation, in
// which case Err carries the raw failure.
type BuildError struct {
	Kind    Kind
	Message string
	Err     error
	// Warnings is the number of warnings promoted for KindWarningsAsErrors.
	Warnings int
}

func (e *BuildError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

func (e *BuildError) Unwrap() []error {
	errs := []error{e.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *BuildError) sentinel() error {
	switch e.Kind {
	case KindWarningsAsErrors:
		return ErrWarningsAsErrors
	case KindInvocation:
		return ErrCompilerInvocation
	default:
		return ErrCompile
	}
}
