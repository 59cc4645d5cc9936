// Package importer turns a Google Takeout "saved places" export into
// normalized place records.
//
// The pipeline is deliberately best-effort: a Takeout export is messy, and
// one malformed row must never block the rows that parse. Each row commits
// independently; failures are collected into a report instead of aborting.
package importer

import "strings"

// Row is one raw record from the export, already decoded into plain string
// fields. The CSV (or any other) parsing lives at the source boundary — the
// pipeline itself only ever sees this well-typed shape.
type Row struct {
	Title   string
	Note    string
	URL     string
	Tags    string // comma-separated free text, e.g. "Coffee, Brunch"
	Comment string
}

// RowSource produces a lazy, finite, forward-only sequence of rows.
// Next returns io.EOF after the last row; any other error is a stream-level
// failure that aborts the whole import (row boundaries past a decode error
// can't be trusted).
type RowSource interface {
	Next() (*Row, error)
}

// looksLikePlace reports whether the row has the shape of a saved place.
// Takeout exports mix in starred lists, label rows and plain URLs; rows
// without a title or without a Maps place URL are silently skipped — that's
// expected input, not an error.
func (r *Row) looksLikePlace() bool {
	return r.Title != "" && strings.Contains(r.URL, "google.com/maps/place/")
}

// notes merges the export's Note and Comment fields into one free-text blob,
// comment after a " | " separator when both are present.
func (r *Row) notes() string {
	switch {
	case r.Note != "" && r.Comment != "":
		return r.Note + " | " + r.Comment
	case r.Comment != "":
		return r.Comment
	default:
		return r.Note
	}
}
