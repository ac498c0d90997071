package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Dataset holds tabular data: a header row plus data rows, all values as
// strings. Read-only to every component that receives it.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// RowCount returns the number of data rows (header excluded).
func (d *Dataset) RowCount() int { return len(d.Rows) }

// ColumnCount returns the number of columns.
func (d *Dataset) ColumnCount() int { return len(d.Columns) }

// Empty reports whether the dataset has no data rows.
func (d *Dataset) Empty() bool { return len(d.Rows) == 0 }

// ColumnIndex returns the index of the named column (case-insensitive),
// or -1 when absent.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return i
		}
	}
	return -1
}

// Coordinates extracts (latitude, longitude) pairs from the dataset.
// Column detection: lat|latitude and lon|lng|longitude, case-insensitive.
// Rows whose values do not parse as floats are skipped.
func (d *Dataset) Coordinates() ([]GeoPoint, error) {
	latIdx, lonIdx := -1, -1
	for _, name := range []string{"latitude", "lat"} {
		if latIdx = d.ColumnIndex(name); latIdx >= 0 {
			break
		}
	}
	for _, name := range []string{"longitude", "lon", "lng"} {
		if lonIdx = d.ColumnIndex(name); lonIdx >= 0 {
			break
		}
	}
	if latIdx < 0 || lonIdx < 0 {
		return nil, fmt.Errorf("no latitude/longitude columns in %v", d.Columns)
	}

	points := make([]GeoPoint, 0, len(d.Rows))
	for _, row := range d.Rows {
		if latIdx >= len(row) || lonIdx >= len(row) {
			continue
		}
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(row[latIdx]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(row[lonIdx]), 64)
		if errLat != nil || errLon != nil {
			continue
		}
		points = append(points, GeoPoint{Lat: lat, Lon: lon})
	}
	return points, nil
}
