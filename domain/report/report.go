// Package report defines diagnostics and the sink they are delivered to.
// A diagnostic never aborts validation; it is recorded and the walk goes on.
package report

import (
	"fmt"
	"strings"

	"github.com/artpar/tiger/domain/token"
)

// Severity orders diagnostics from least to most serious.
type Severity int

const (
	Advice Severity = iota
	Info
	Warning
	Error
)

var severityNames = []string{"advice", "info", "warning", "error"}

// String returns the lowercase severity name.
func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "unknown"
}

// ParseSeverity parses a severity name case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	for i, name := range severityNames {
		if strings.EqualFold(s, name) {
			return Severity(i), nil
		}
	}
	return Advice, fmt.Errorf("unknown severity %q: must be one of %s", s, strings.Join(severityNames, ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Key classifies what kind of problem a diagnostic reports.
type Key string

const (
	KeyValidation  Key = "validation"  // misplaced fields, bad literals
	KeyScopes      Key = "scopes"      // wrong scope type
	KeyUnknown     Key = "unknown"     // unknown token or prefix
	KeyMissingItem Key = "missing-item"
	KeyParse       Key = "parse"
	KeyRead        Key = "read"
	KeyDepth       Key = "depth"
	KeyDuplicate   Key = "duplicate"
	KeyStructure   Key = "structure" // values where blocks are expected and vice versa
)

// Diagnostic is one finding about a script.
type Diagnostic struct {
	Severity Severity  `json:"severity" yaml:"severity"`
	Key      Key       `json:"key" yaml:"key"`
	Loc      token.Loc `json:"location" yaml:"location"`
	Message  string    `json:"message" yaml:"message"`
}

// String formats the diagnostic on one line.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s(%s): %s at %s", d.Severity, d.Key, d.Message, d.Loc)
}

// Sink receives diagnostics.
type Sink interface {
	Report(d Diagnostic)
}

// Errorf records an Error at loc.
func Errorf(s Sink, loc token.Loc, key Key, format string, args ...any) {
	s.Report(Diagnostic{Severity: Error, Key: key, Loc: loc, Message: fmt.Sprintf(format, args...)})
}

// Warnf records a Warning at loc.
func Warnf(s Sink, loc token.Loc, key Key, format string, args ...any) {
	s.Report(Diagnostic{Severity: Warning, Key: key, Loc: loc, Message: fmt.Sprintf(format, args...)})
}

// Advicef records an Advice at loc.
func Advicef(s Sink, loc token.Loc, key Key, format string, args ...any) {
	s.Report(Diagnostic{Severity: Advice, Key: key, Loc: loc, Message: fmt.Sprintf(format, args...)})
}

// Infof records an Info at loc.
func Infof(s Sink, loc token.Loc, key Key, format string, args ...any) {
	s.Report(Diagnostic{Severity: Info, Key: key, Loc: loc, Message: fmt.Sprintf(format, args...)})
}
