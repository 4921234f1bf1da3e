package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2"
)

// Location is a position in a source text. Line and Column are 1-based, Cursor is the
// 0-based byte offset.
type Location struct {
	Line   int
	Column int
	Cursor int
}

// String returns "line:column".
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Severity is how bad a diagnostic is. Info is used by @print and @debug.
type Severity int

const (
	Info Severity = iota
	Warn
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warn:
		return "warning"
	case Error:
		return "error"
	}
	return "unknown"
}

// Diagnostic is one compiler message. Location is nil for messages that are not tied to
// source text (e.g. a failed import). Context is the offending source line with a caret
// under the column.
type Diagnostic struct {
	Message  string
	Source   string
	Location *Location
	Severity Severity
	Context  string
}

// Error implements error so a single diagnostic can be returned or wrapped.
func (d Diagnostic) Error() string {
	return d.Formatted()
}

// Formatted renders the diagnostic compiler-style:
//
//	main.sheet:3:12: error: unexpected '}'
//	    3: .a { color: red; }}
//	                  ^
func (d Diagnostic) Formatted() string {
	var b strings.Builder
	if d.Source != "" {
		b.WriteString(d.Source)
		b.WriteByte(':')
	}
	if d.Location != nil {
		b.WriteString(d.Location.String())
		b.WriteByte(':')
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(d.Severity.String())
	b.WriteString(": ")
	b.WriteString(d.Message)
	if d.Context != "" {
		b.WriteByte('\n')
		b.WriteString(d.Context)
	}
	return b.String()
}

// Listener receives diagnostics as they are reported. A listener decides the failure
// policy: the core never aborts on its own.
type Listener interface {
	Report(d Diagnostic)
}

// ListenerFunc adapts a function to a Listener.
type ListenerFunc func(d Diagnostic)

func (f ListenerFunc) Report(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Listener = ListenerFunc(func(Diagnostic) {})

// Errors collects the diagnostics of one parse or compile of one source and forwards them
// to a listener. It is not safe for concurrent use.
type Errors struct {
	source   string
	text     string
	listener Listener
	list     []Diagnostic
}

// NewErrors returns a sink for the named source text. A nil listener discards.
func NewErrors(source, text string, l Listener) *Errors {
	if l == nil {
		l = Discard
	}
	return &Errors{source: source, text: text, listener: l}
}

// Source returns the source name the sink was created for.
func (e *Errors) Source() string { return e.source }

// Text returns the source text the sink was created for.
func (e *Errors) Text() string { return e.text }

// Listener returns the listener diagnostics are forwarded to.
func (e *Errors) Listener() Listener { return e.listener }

// Report records a diagnostic at loc (which may be nil).
func (e *Errors) Report(sev Severity, loc *Location, format string, args ...any) {
	d := Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Source:   e.source,
		Severity: sev,
	}
	if loc != nil {
		l := *loc
		d.Location = &l
		d.Context = excerpt(e.text, l.Cursor)
	}
	e.list = append(e.list, d)
	e.listener.Report(d)
}

func (e *Errors) Error(loc Location, format string, args ...any) {
	e.Report(Error, &loc, format, args...)
}

func (e *Errors) Warn(loc Location, format string, args ...any) {
	e.Report(Warn, &loc, format, args...)
}

func (e *Errors) Info(loc Location, format string, args ...any) {
	e.Report(Info, &loc, format, args...)
}

// All returns every recorded diagnostic in report order.
func (e *Errors) All() []Diagnostic {
	return e.list
}

// Count returns the number of diagnostics of the given severity.
func (e *Errors) Count(sev Severity) int {
	n := 0
	for _, d := range e.list {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// HasErrors reports whether any Error severity diagnostic was recorded.
func (e *Errors) HasErrors() bool {
	return e.Count(Error) > 0
}

// Err joins every error diagnostic into one error, or returns nil.
func (e *Errors) Err() error {
	var errs []error
	for _, d := range e.list {
		if d.Severity == Error {
			errs = append(errs, d)
		}
	}
	return errors.Join(errs...)
}

func excerpt(text string, cursor int) string {
	if text == "" || cursor < 0 {
		return ""
	}
	if cursor > len(text) {
		cursor = len(text)
	}
	_, _, context := parse.Position(strings.NewReader(text), cursor)
	return strings.TrimRight(context, "\n")
}
