package wavefront

import (
	"fmt"
	"strings"
)

// Severity classifies a parser diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns a short severity label.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARN"
	case SeverityError:
		return "ERROR"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Diagnostic is a single non-fatal message produced during a parse.
// Line is the 1-based source line it refers to, or 0 when the message
// is not tied to a specific line.
type Diagnostic struct {
	Severity Severity
	Message  string
	Line     int
}

// String formats the diagnostic as "WARN: message (line N)".
func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s: %s (line %d)", d.Severity, d.Message, d.Line)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Diagnostics is an ordered list of parser messages.
type Diagnostics []Diagnostic

// String joins all diagnostics with newlines.
func (ds Diagnostics) String() string {
	if len(ds) == 0 {
		return ""
	}
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

func (ds *Diagnostics) warnf(line int, format string, args ...interface{}) {
	*ds = append(*ds, Diagnostic{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
	})
}
