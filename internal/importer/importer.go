package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mhasan/pinpoint/internal/apperror"
	"github.com/mhasan/pinpoint/internal/model"
)

// TagResolver maps a tag name to its id, creating the tag when it doesn't
// exist yet. Resolution must be safe to call concurrently for the same name.
type TagResolver interface {
	Resolve(ctx context.Context, userID, name string) (string, error)
}

// PlaceStore is the slice of the storage layer the pipeline writes through.
type PlaceStore interface {
	CreatePlace(ctx context.Context, place *model.Place) error
	AttachTag(ctx context.Context, userID, placeID, tagID string) error
}

// RowError records one row that was valid-looking but failed to import.
type RowError struct {
	Row    string `json:"row"`
	Reason string `json:"reason"`
}

// Report summarizes an import run. Imported + Skipped + len(Errors) equals
// the number of rows consumed from the source.
type Report struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

// Importer drives the row-by-row import of a Takeout export.
type Importer struct {
	places PlaceStore
	tags   TagResolver
}

func New(places PlaceStore, tags TagResolver) *Importer {
	return &Importer{places: places, tags: tags}
}

// Import drains src and writes each place-shaped row into the store.
//
// Each row commits on its own: a row that fails is recorded in the report and
// the next row proceeds. Only three things abort the run early, each returning
// the partial report alongside the error: context cancellation, a stream-level
// decode failure, and the store becoming unreachable (apperror.ErrUnavailable),
// since retrying row after row against a dead store would just pad the error
// list.
func (im *Importer) Import(ctx context.Context, userID string, src RowSource) (*Report, error) {
	report := &Report{Errors: []RowError{}}

	for i := 1; ; i++ {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return report, nil
		}
		if err != nil {
			return report, err
		}

		if !row.looksLikePlace() {
			report.Skipped++
			continue
		}

		if err := im.importRow(ctx, userID, row); err != nil {
			if errors.Is(err, apperror.ErrUnavailable) {
				return report, err
			}
			report.Errors = append(report.Errors, RowError{
				Row:    rowLabel(row, i),
				Reason: err.Error(),
			})
			continue
		}
		report.Imported++
	}
}

func (im *Importer) importRow(ctx context.Context, userID string, row *Row) error {
	place := &model.Place{
		UserID:        userID,
		Name:          row.Title,
		URL:           row.URL,
		Notes:         row.notes(),
		GooglePlaceID: ExtractPlaceID(row.URL),
	}

	if err := im.places.CreatePlace(ctx, place); err != nil {
		return fmt.Errorf("creating place: %w", err)
	}

	for _, name := range splitTags(row.Tags) {
		tagID, err := im.tags.Resolve(ctx, userID, name)
		if err != nil {
			return fmt.Errorf("resolving tag %q: %w", name, err)
		}
		if err := im.places.AttachTag(ctx, userID, place.ID, tagID); err != nil {
			return fmt.Errorf("attaching tag %q: %w", name, err)
		}
	}

	return nil
}

// splitTags breaks the comma-separated tag column into clean names. Duplicate
// names are left in: resolution and attachment are both idempotent, so the
// second occurrence is a harmless no-op.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	names := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// rowLabel identifies a row in the error report, preferring the title over
// the bare position.
func rowLabel(row *Row, index int) string {
	if row.Title != "" {
		return row.Title
	}
	return "row " + strconv.Itoa(index)
}
