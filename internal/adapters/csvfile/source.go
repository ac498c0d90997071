package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/samirrijal/citysketch/internal/core/domain"
)

// Source implements ports.DatasetSource by reading a comma-delimited file
// with a header row from a fixed local path.
type Source struct {
	path string
}

// New creates a new CSV file source.
func New(path string) *Source {
	return &Source{path: path}
}

// Fetch re-reads the file on every call.
func (s *Source) Fetch(ctx context.Context) (*domain.Dataset, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", s.path, domain.ErrSourceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if len(records) == 0 {
		return &domain.Dataset{}, nil
	}
	return &domain.Dataset{Columns: records[0], Rows: records[1:]}, nil
}
