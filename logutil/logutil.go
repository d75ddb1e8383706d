// Package logutil provides the loggers used across the compiler.
package logutil

import (
	"io"
	"log"
	"os"
)

// Discard is a Logger that ignores all loggings.
var Discard = log.New(io.Discard, "", 0)

// New returns a logger writing to w with the given prefix, or Discard when
// w is nil.
func New(w io.Writer, prefix string) *log.Logger {
	if w == nil {
		return Discard
	}
	return log.New(w, prefix, log.Ltime|log.Lmicroseconds)
}

// OrDiscard returns l, or Discard when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard
	}
	return l
}

// OpenFile returns a logger appending to the file at path and a function
// closing it. An empty path yields Discard.
func OpenFile(path, prefix string) (*log.Logger, func() error, error) {
	if path == "" {
		return Discard, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return New(f, prefix), f.Close, nil
}
