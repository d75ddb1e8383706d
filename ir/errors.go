package ir

import (
	"fmt"
	"strings"
)

// Location identifies a position in a shader source file.
// Line and Column are 1-based; zero means "unknown".
type Location struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

// StdLocation is the location of compiler-provided symbols.
var StdLocation = Location{Filename: "<std>"}

// String renders the location the way diagnostics prefix it.
func (l Location) String() string {
	switch {
	case l.Line == 0:
		return l.Filename
	case l.Column == 0:
		return fmt.Sprintf("%s(%d)", l.Filename, l.Line)
	default:
		return fmt.Sprintf("%s(%d, %d)", l.Filename, l.Line, l.Column)
	}
}

// Error is the single error kind produced by every compiler stage.
type Error struct {
	Location Location
	Message  string
	// Internal marks compiler bugs as opposed to problems in the input.
	Internal bool
}

// Errorf creates an error at loc.
func Errorf(loc Location, format string, args ...any) *Error {
	return &Error{Location: loc, Message: fmt.Sprintf(format, args...)}
}

// Internalf creates an internal compiler error at the std location.
func Internalf(format string, args ...any) *Error {
	return &Error{
		Location: StdLocation,
		Message:  "Internal compiler error: " + fmt.Sprintf(format, args...),
		Internal: true,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Location.String() + ": error: " + e.Message
}

// FormatWithContext returns the error message with source context.
// Shows the offending line with a caret under the error column.
func (e *Error) FormatWithContext(source string) string {
	if source == "" || e.Location.Line == 0 {
		return e.Error()
	}

	lines := strings.Split(source, "\n")
	lineNum := e.Location.Line
	if lineNum < 1 || lineNum > len(lines) {
		return e.Error()
	}

	line := strings.TrimRight(lines[lineNum-1], "\r")
	col := e.Location.Column
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}

	var sb strings.Builder
	sb.WriteString(e.Error())
	sb.WriteString("\n   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", lineNum, line)
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))

	return sb.String()
}
