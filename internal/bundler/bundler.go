// Package bundler is the boundary to the external bundler. The build driver
// only sees the Compiler interface; the production implementation runs
// esbuild in-process.
package bundler

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Compiler runs one compilation. Run is called at most once per Compiler and
// either returns statistics or fails because the compiler could not run.
// Diagnostics about the compiled code are reported through Stats, not error.
type Compiler interface {
	Run(ctx context.Context) (*Stats, error)
}

// CompilerFunc adapts a function to the Compiler interface.
type CompilerFunc func(ctx context.Context) (*Stats, error)

// Run calls f.
func (f CompilerFunc) Run(ctx context.Context) (*Stats, error) { return f(ctx) }

// Message is a single diagnostic.
type Message struct {
	Text     string
	File     string
	Line     int
	Column   int
	LineText string
	// Syntax marks parse failures; they take precedence when reporting.
	Syntax bool
	Notes  []string
}

// Stats is the structured result of a compilation.
type Stats struct {
	Errors   []Message
	Warnings []Message
	// Outputs lists every emitted file relative to the output directory,
	// slash separated.
	Outputs []string
	// Entrypoints lists the outputs loaded by the HTML entry.
	Entrypoints []string
	// Files maps logical asset names (main.js, main.css, index.html) to
	// their served URLs.
	Files map[string]string
	// PublicPath is the URL prefix the bundler emitted references with.
	PublicPath string
	Duration   time.Duration
}

// HasErrors reports whether any error diagnostics were produced.
func (s *Stats) HasErrors() bool { return s != nil && len(s.Errors) > 0 }

// HasWarnings reports whether any warning diagnostics were produced.
func (s *Stats) HasWarnings() bool { return s != nil && len(s.Warnings) > 0 }

// Raw renders every diagnostic as text, errors and warnings separately.
func (s *Stats) Raw() (errs, warnings []string) {
	if s == nil {
		return nil, nil
	}
	for _, m := range s.Errors {
		errs = append(errs, m.Format())
	}
	for _, m := range s.Warnings {
		warnings = append(warnings, m.Format())
	}
	return errs, warnings
}

// Format renders a diagnostic the way it is shown to the user:
//
//	./src/App.js
//	Syntax error: Expected ";" but found "b" (3:8)
//
//	  3 | const a b = 1
//	    |         ^
func (m Message) Format() string {
	var b strings.Builder
	if m.File != "" {
		file := m.File
		if !strings.HasPrefix(file, "/") && !strings.HasPrefix(file, ".") {
			file = "./" + file
		}
		b.WriteString(file)
		b.WriteString("\n")
	}
	if m.Syntax {
		b.WriteString("Syntax error: ")
	}
	b.WriteString(m.Text)
	if m.File != "" && m.Line > 0 {
		fmt.Fprintf(&b, " (%d:%d)", m.Line, m.Column)
	}
	if m.LineText != "" && m.Line > 0 {
		gutter := fmt.Sprintf("%d", m.Line)
		fmt.Fprintf(&b, "\n\n  %s | %s\n  %s | %s^", gutter, m.LineText, strings.Repeat(" ", len(gutter)), strings.Repeat(" ", m.Column))
	}
	for _, note := range m.Notes {
		b.WriteString("\n")
		b.WriteString(note)
	}
	return b.String()
}
