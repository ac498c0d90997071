package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/samirrijal/citysketch/internal/core/domain"
)

// undefinedTable is the postgres error code for a missing relation.
const undefinedTable = "42P01"

// Source implements ports.DatasetSource by reading an entire table.
type Source struct {
	db    *DB
	table string
}

// NewSource creates a new table-backed dataset source. The table name comes
// from configuration, never from user input.
func NewSource(db *DB, table string) *Source {
	return &Source{db: db, table: table}
}

// Fetch reads all rows, rendering every value as a string.
func (s *Source) Fetch(ctx context.Context) (*domain.Dataset, error) {
	query := fmt.Sprintf("SELECT * FROM %s", pgx.Identifier{s.table}.Sanitize())

	rows, err := s.db.Pool.Query(ctx, query)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
			return nil, fmt.Errorf("table %s: %w", s.table, domain.ErrSourceNotFound)
		}
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	ds := &domain.Dataset{}
	for _, fd := range rows.FieldDescriptions() {
		ds.Columns = append(ds.Columns, fd.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			if v == nil {
				continue
			}
			row[i] = fmt.Sprint(v)
		}
		ds.Rows = append(ds.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.table, err)
	}

	return ds, nil
}
