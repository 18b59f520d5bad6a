package build

import (
	"regexp"
	"strings"
)

// RawMessages are diagnostics as the bundler rendered them.
type RawMessages struct {
	Errors   []string
	Warnings []string
}

// CompileMessages are normalised diagnostics ready to print.
type CompileMessages struct {
	Errors   []string
	Warnings []string
}

var (
	stackFrame   = regexp.MustCompile(`(?m)^\s*at\s.*:\d+:\d+[\s)]*(\n|$)`)
	syntaxPrefix = regexp.MustCompile(`SyntaxError[:\s]\s*`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

const syntaxErrorLabel = "Syntax error:"

// NormalizeMessages cleans up every message. When any error looks like a
// syntax error only the syntax errors are kept, since the rest are usually
// caused by it.
func NormalizeMessages(raw RawMessages) CompileMessages {
	out := CompileMessages{
		Errors:   formatAll(raw.Errors),
		Warnings: formatAll(raw.Warnings),
	}
	var syntax []string
	for _, e := range out.Errors {
		if isLikelySyntaxError(e) {
			syntax = append(syntax, e)
		}
	}
	if len(syntax) > 0 {
		out.Errors = syntax
	}
	return out
}

func formatAll(msgs []string) []string {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, formatMessage(m))
	}
	return out
}

func formatMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = syntaxPrefix.ReplaceAllString(msg, syntaxErrorLabel+" ")
	msg = stackFrame.ReplaceAllString(msg, "")
	msg = blankRuns.ReplaceAllString(msg, "\n\n")
	return strings.TrimSpace(msg)
}

func isLikelySyntaxError(msg string) bool {
	return strings.Contains(msg, syntaxErrorLabel)
}
