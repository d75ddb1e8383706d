package gen

import (
	"fmt"
	"strconv"
	"strings"
)

// Writer accumulates generated source text. Indentation is two spaces per
// level and is applied lazily, at the first write following a newline.
type Writer struct {
	out    strings.Builder
	indent int
	bol    bool
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	w := &Writer{}
	w.out.Grow(1024)
	return w
}

// Write appends s. s must not contain newlines; use Newline for those.
func (w *Writer) Write(s string) {
	if s == "" {
		return
	}
	if w.bol {
		for range w.indent {
			w.out.WriteString("  ")
		}
		w.bol = false
	}
	w.out.WriteString(s)
}

// Writef appends a formatted string.
func (w *Writer) Writef(format string, args ...any) {
	w.Write(fmt.Sprintf(format, args...))
}

// WriteInt appends a decimal integer.
func (w *Writer) WriteInt(v int) {
	w.Write(strconv.Itoa(v))
}

// Newline ends the current line.
func (w *Writer) Newline() {
	w.out.WriteByte('\n')
	w.bol = true
}

// Line writes a formatted line followed by a newline.
func (w *Writer) Line(format string, args ...any) {
	w.Writef(format, args...)
	w.Newline()
}

// Indent increases the indentation level.
func (w *Writer) Indent() { w.indent++ }

// Unindent decreases the indentation level.
func (w *Writer) Unindent() {
	if w.indent > 0 {
		w.indent--
	}
}

// OpenBrace writes "{", ends the line and indents.
func (w *Writer) OpenBrace() {
	w.Write("{")
	w.Newline()
	w.Indent()
}

// CloseBrace unindents and writes "}" or "};".
func (w *Writer) CloseBrace(semicolon bool) {
	w.Unindent()
	if semicolon {
		w.Write("};")
	} else {
		w.Write("}")
	}
}

// Pad appends n spaces.
func (w *Writer) Pad(n int) {
	w.Write(strings.Repeat(" ", n))
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.out.Len() }

// String returns the accumulated text.
func (w *Writer) String() string { return w.out.String() }
