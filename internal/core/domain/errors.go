package domain

import "errors"

var (
	// ErrNoLocation is returned when a region operation is given neither a
	// coordinate set nor a single point.
	ErrNoLocation = errors.New("no coordinates available")

	// ErrSourceNotFound is returned by dataset sources whose backing
	// location (file, table) does not exist.
	ErrSourceNotFound = errors.New("dataset source not found")
)
