package usecases

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samirrijal/citysketch/internal/core/domain"
	"github.com/samirrijal/citysketch/internal/core/ports"
	"github.com/samirrijal/citysketch/internal/pkg/metrics"
)

// DatasetService loads the tabular dataset from its configured source.
type DatasetService struct {
	source ports.DatasetSource
	log    *slog.Logger
}

// NewDatasetService creates a new DatasetService.
func NewDatasetService(source ports.DatasetSource, log *slog.Logger) *DatasetService {
	return &DatasetService{source: source, log: log}
}

// Load fetches the dataset, re-reading the source on every call. A nil result
// means no usable data; every failure is logged here and none propagates.
func (s *DatasetService) Load(ctx context.Context) *domain.Dataset {
	s.log.Info("loading dataset")

	ds, err := s.source.Fetch(ctx)
	switch {
	case errors.Is(err, domain.ErrSourceNotFound):
		metrics.DatasetLoads.WithLabelValues("missing").Inc()
		s.log.Error("dataset source not found", "error", err)
		return nil
	case err != nil:
		metrics.DatasetLoads.WithLabelValues("error").Inc()
		s.log.Error("could not load dataset", "error", err)
		return nil
	case ds.Empty():
		metrics.DatasetLoads.WithLabelValues("empty").Inc()
		s.log.Warn("loaded dataset is empty")
		return nil
	}

	metrics.DatasetLoads.WithLabelValues("ok").Inc()
	s.log.Info("dataset loaded", "rows", ds.RowCount(), "columns", ds.ColumnCount())
	return ds
}
