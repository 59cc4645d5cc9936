package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// TakeoutSource adapts a Takeout saved-places CSV into a RowSource.
//
// The reader is consumed lazily, one record per Next call — a large export is
// never buffered in memory. Column positions come from the header row, so
// exports with reordered or extra columns still parse.
type TakeoutSource struct {
	r       *csv.Reader
	cols    map[string]int
	started bool
}

// NewTakeoutSource wraps an already-open CSV stream. The caller keeps
// ownership of the underlying reader (and of any spooled upload file backing
// it) and releases it when the import finishes either way.
func NewTakeoutSource(r io.Reader) *TakeoutSource {
	cr := csv.NewReader(r)
	// Takeout rows are ragged: trailing fields are dropped when empty.
	cr.FieldsPerRecord = -1
	return &TakeoutSource{r: cr}
}

// Next returns the next row, io.EOF at the end of the export, or a stream
// error if the CSV itself can't be decoded. The first call consumes the
// header row.
func (s *TakeoutSource) Next() (*Row, error) {
	if !s.started {
		if err := s.readHeader(); err != nil {
			return nil, err
		}
		s.started = true
	}

	record, err := s.r.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("importer: reading csv record: %w", err)
	}

	return &Row{
		Title:   s.field(record, "title"),
		Note:    s.field(record, "note"),
		URL:     s.field(record, "url"),
		Tags:    s.field(record, "tags"),
		Comment: s.field(record, "comment"),
	}, nil
}

func (s *TakeoutSource) readHeader() error {
	header, err := s.r.Read()
	if err == io.EOF {
		return io.EOF // empty file: zero rows, not a failure
	}
	if err != nil {
		return fmt.Errorf("importer: reading csv header: %w", err)
	}

	s.cols = make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			// Takeout writes a UTF-8 BOM in front of the first header cell.
			name = strings.TrimPrefix(name, "\ufeff")
		}
		s.cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	if _, ok := s.cols["title"]; !ok {
		return fmt.Errorf("importer: csv header has no Title column")
	}
	if _, ok := s.cols["url"]; !ok {
		return fmt.Errorf("importer: csv header has no URL column")
	}

	return nil
}

func (s *TakeoutSource) field(record []string, name string) string {
	i, ok := s.cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}
