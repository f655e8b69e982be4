// Package logs distills a raw test log into a short failure brief for the
// model prompt.
package logs

import (
	"os"
	"regexp"
	"strings"
)

const tailLines = 20

var (
	testNameRegex  = regexp.MustCompile(`__+ (test[^\s:]+)`)
	errorLineRegex = regexp.MustCompile(`E\s+([A-Za-z_]+Error):\s*(.+)`)
)

// Brief is the condensed view of the first failure in a test log.
type Brief struct {
	Test      string
	ErrorType string
	ErrorMsg  string
	Tail      string
}

// ReadText returns the file's content, or "" when it does not exist.
func ReadText(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

// LooksFailing reports whether the log contains any failure indicator worth
// sending to the model.
func LooksFailing(text string) bool {
	return strings.Contains(text, "FAILED") ||
		strings.Contains(text, "ERROR") ||
		strings.Contains(text, "AssertionError")
}

// Parse extracts the failing test name, the first error line, and a short
// traceback tail.
func Parse(text string) Brief {
	var b Brief
	if m := testNameRegex.FindStringSubmatch(text); m != nil {
		b.Test = m[1]
	}
	if m := errorLineRegex.FindStringSubmatch(text); m != nil {
		b.ErrorType = m[1]
		b.ErrorMsg = m[2]
		if len(b.ErrorMsg) > 300 {
			b.ErrorMsg = b.ErrorMsg[:300]
		}
	}
	lines := strings.Split(text, "\n")
	if len(lines) > tailLines {
		lines = lines[len(lines)-tailLines:]
	}
	b.Tail = strings.Join(lines, "\n")
	return b
}

// HasFailure reports whether the brief identified anything to fix.
func (b Brief) HasFailure() bool {
	return b.Test != "" || b.ErrorType != ""
}

// Format renders the brief for inclusion in the model prompt.
func (b Brief) Format() string {
	var parts []string
	if b.Test != "" {
		parts = append(parts, "Failing test "+b.Test)
	}
	if b.ErrorType != "" {
		parts = append(parts, "Exception "+b.ErrorType)
	}
	if b.ErrorMsg != "" {
		parts = append(parts, "Message "+b.ErrorMsg)
	}
	tail := b.Tail
	if len(tail) > 2000 {
		tail = tail[:2000]
	}
	parts = append(parts, "Trace tail", tail)
	return strings.Join(parts, "\n")
}
