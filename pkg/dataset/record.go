// Package dataset loads the bilateral migrant-stock table into an immutable
// in-memory form. The table is read once at startup and never mutated.
package dataset

import "fmt"

// Record is one observed migrant stock: people born in Origin residing in
// Destination during Year.
type Record struct {
	Origin      string
	Destination string
	Year        int
	Count       int64
}

// LoadError reports a fatal problem with the input file. There is no retry
// path: the caller logs it and exits.
type LoadError struct {
	Path   string
	Line   int
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	msg := "load dataset"
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(": line %d", e.Line)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }
