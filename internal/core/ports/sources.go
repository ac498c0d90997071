package ports

import (
	"context"

	"github.com/samirrijal/citysketch/internal/core/domain"
)

// DatasetSource fetches tabular data from one backing location. A missing
// location is reported as domain.ErrSourceNotFound.
type DatasetSource interface {
	Fetch(ctx context.Context) (*domain.Dataset, error)
}
