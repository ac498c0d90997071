package ports

import (
	"context"

	"github.com/paulmach/orb/geojson"
	"github.com/samirrijal/citysketch/internal/core/domain"
)

// RoadNetworkRetriever fetches the way graph within a bounding box.
type RoadNetworkRetriever interface {
	RoadNetwork(ctx context.Context, box domain.BoundingBox) (*domain.RoadNetwork, error)
}

// BoundaryRetriever resolves a place name to its administrative boundary.
type BoundaryRetriever interface {
	Boundary(ctx context.Context, placeName string) (*geojson.FeatureCollection, error)
}

// FeatureRetriever fetches map features within a bounding box that match any
// of the given tag keys (a key mapped to false is ignored).
type FeatureRetriever interface {
	FeaturesWithin(ctx context.Context, box domain.BoundingBox, tags map[string]bool) (*geojson.FeatureCollection, error)
}

// MapCanvas composes retrieved layers into a figure.
type MapCanvas interface {
	Render(ctx context.Context, scene *domain.Scene) error
}
