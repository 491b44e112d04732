// Package diag provides structured diagnostics shared by the markup and
// stylesheet parsers. Parse failures are reported as values, never panics:
// callers inspect the list and decide whether to proceed.
package diag

import (
	"fmt"
	"strings"
)

// Kind classifies a diagnostic.
type Kind int

const (
	// KindStructural marks malformed input that aborted the parse.
	KindStructural Kind = iota
	// KindIO marks an unreadable file.
	KindIO
	// KindUnsupported marks well-formed input the grammar does not cover.
	KindUnsupported
)

// String returns a short label for the kind.
func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindIO:
		return "io"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Severity indicates how a diagnostic should be treated.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns the severity label.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is a single location-tagged message. Line and Col are 1-based
// where known; zero means the position is not available.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Path     string
	Line     int
	Col      int
	Message  string
}

// String formats the diagnostic as path:line:col: severity: message,
// omitting parts that are not set.
func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Path != "" {
		b.WriteString(d.Path)
		b.WriteByte(':')
	}
	if d.Line > 0 {
		fmt.Fprintf(&b, "%d:", d.Line)
		if d.Col > 0 {
			fmt.Fprintf(&b, "%d:", d.Col)
		}
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(d.Severity.String())
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// List accumulates diagnostics in the order they were produced.
type List []Diagnostic

// Structural appends a structural parse error.
func (l *List) Structural(path string, line, col int, format string, args ...any) {
	*l = append(*l, Diagnostic{
		Kind:     KindStructural,
		Severity: SeverityError,
		Path:     path,
		Line:     line,
		Col:      col,
		Message:  fmt.Sprintf(format, args...),
	})
}

// IO appends a file-access error.
func (l *List) IO(path string, err error) {
	*l = append(*l, Diagnostic{
		Kind:     KindIO,
		Severity: SeverityError,
		Path:     path,
		Message:  err.Error(),
	})
}

// Unsupported appends a warning for well-formed but unsupported input.
func (l *List) Unsupported(path string, line int, format string, args ...any) {
	*l = append(*l, Diagnostic{
		Kind:     KindUnsupported,
		Severity: SeverityWarning,
		Path:     path,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Extend appends all diagnostics from other.
func (l *List) Extend(other List) {
	*l = append(*l, other...)
}

// HasErrors reports whether any diagnostic has error severity.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// String joins all diagnostics with newlines.
func (l List) String() string {
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}
