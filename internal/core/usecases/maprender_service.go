package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/citysketch/internal/core/domain"
	"github.com/samirrijal/citysketch/internal/core/ports"
	"github.com/samirrijal/citysketch/internal/pkg/geospatial"
	"github.com/samirrijal/citysketch/internal/pkg/metrics"
)

// DefaultBoxSizeKm is the box size used when the caller does not pick one.
const DefaultBoxSizeKm = 2.0

// DefaultPOITags is the tag set matched when the caller supplies none.
func DefaultPOITags() map[string]bool {
	return map[string]bool{
		"amenity":  true,
		"building": true,
		"historic": true,
		"leisure":  true,
		"shop":     true,
		"tourism":  true,
		"religion": true,
		"memorial": true,
	}
}

// MapRenderService computes a bounding box for a region and composes the map
// layers retrieved for it into one figure.
type MapRenderService struct {
	roads    ports.RoadNetworkRetriever
	boundary ports.BoundaryRetriever
	features ports.FeatureRetriever
	canvas   ports.MapCanvas
	log      *slog.Logger
}

// NewMapRenderService creates a new MapRenderService.
func NewMapRenderService(
	roads ports.RoadNetworkRetriever,
	boundary ports.BoundaryRetriever,
	features ports.FeatureRetriever,
	canvas ports.MapCanvas,
	log *slog.Logger,
) *MapRenderService {
	return &MapRenderService{roads: roads, boundary: boundary, features: features, canvas: canvas, log: log}
}

// ComputeBoundingBox derives the region to map from either a coordinate set
// or a single point.
//
// With coordinates, the box is the tight min/max span of the set padded by
// boxSizeKm/111/10 degrees per side. With a single point, the box is centered
// on it with a full width and height of boxSizeKm/111 degrees. The two modes
// pad at different scales (factor 10 per unit boxSizeKm); both behaviors are
// kept exactly as-is, see DESIGN.md.
//
// Returns domain.ErrNoLocation when neither input is supplied.
func (s *MapRenderService) ComputeBoundingBox(coords []domain.GeoPoint, point *domain.GeoPoint, boxSizeKm float64) (domain.BoundingBox, error) {
	switch {
	case len(coords) > 0:
		latMin, latMax := coords[0].Lat, coords[0].Lat
		lonMin, lonMax := coords[0].Lon, coords[0].Lon
		for _, p := range coords[1:] {
			if p.Lat < latMin {
				latMin = p.Lat
			}
			if p.Lat > latMax {
				latMax = p.Lat
			}
			if p.Lon < lonMin {
				lonMin = p.Lon
			}
			if p.Lon > lonMax {
				lonMax = p.Lon
			}
		}
		margin := boxSizeKm / geospatial.KmPerDegree / 10
		return domain.BoundingBox{
			West:  lonMin - margin,
			South: latMin - margin,
			East:  lonMax + margin,
			North: latMax + margin,
		}, nil

	case point != nil:
		half := boxSizeKm / geospatial.KmPerDegree / 2
		return domain.BoundingBox{
			West:  point.Lon - half,
			South: point.Lat - half,
			East:  point.Lon + half,
			North: point.Lat + half,
		}, nil

	default:
		return domain.BoundingBox{}, domain.ErrNoLocation
	}
}

// Render retrieves the four map layers for the box and composes them into one
// figure, bottom to top: administrative area, buildings, road edges, road
// nodes, POIs, input markers.
//
// Retrieval failures propagate to the caller. A composition failure does not:
// it is logged at warn and the call returns nil.
func (s *MapRenderService) Render(ctx context.Context, placeName string, box domain.BoundingBox, markers domain.Markers, poiTags map[string]bool) error {
	roads, err := s.roads.RoadNetwork(ctx, box)
	if err != nil {
		return fmt.Errorf("road network: %w", err)
	}
	area, err := s.boundary.Boundary(ctx, placeName)
	if err != nil {
		return fmt.Errorf("boundary for %q: %w", placeName, err)
	}
	buildings, err := s.features.FeaturesWithin(ctx, box, map[string]bool{"building": true})
	if err != nil {
		return fmt.Errorf("buildings: %w", err)
	}
	pois, err := s.features.FeaturesWithin(ctx, box, poiTags)
	if err != nil {
		return fmt.Errorf("points of interest: %w", err)
	}

	scene := &domain.Scene{
		Title:     placeName,
		Box:       box,
		Area:      area,
		Buildings: buildings,
		Roads:     roads,
		POIs:      pois,
		Markers:   markers,
	}

	if err := s.canvas.Render(ctx, scene); err != nil {
		metrics.RenderFailures.Inc()
		s.log.Warn("could not compose map", "place", placeName, "error", err)
		return nil
	}
	metrics.RendersComposed.Inc()
	return nil
}

// RenderRequest describes one region to map. Coords takes precedence over
// Point when both are set.
type RenderRequest struct {
	PlaceName string
	Coords    []domain.GeoPoint
	Point     *domain.GeoPoint
	BoxSizeKm float64
	POITags   map[string]bool
}

// RenderRegion validates the request, computes the bounding box and renders
// the region in one go.
func (s *MapRenderService) RenderRegion(ctx context.Context, req RenderRequest) error {
	size := req.BoxSizeKm
	if size <= 0 {
		size = DefaultBoxSizeKm
	}

	box, err := s.ComputeBoundingBox(req.Coords, req.Point, size)
	if err != nil {
		return err
	}

	tags := req.POITags
	if tags == nil {
		tags = DefaultPOITags()
	}

	markers := domain.Markers{Points: req.Coords, Style: domain.MarkerDots, Label: "Cameras"}
	if len(req.Coords) == 0 {
		markers = domain.Markers{Points: []domain.GeoPoint{*req.Point}, Style: domain.MarkerCross, Label: "Point"}
	}

	s.log.Info("rendering region",
		"place", req.PlaceName,
		"west", box.West, "south", box.South, "east", box.East, "north", box.North,
		"span_km", geospatial.Haversine(box.South, box.West, box.North, box.East)/1000,
	)

	return s.Render(ctx, req.PlaceName, box, markers, tags)
}
