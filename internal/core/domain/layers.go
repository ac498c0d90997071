package domain

import "github.com/paulmach/orb/geojson"

// RoadNetwork holds the way graph retrieved for a bounding box. Nodes and
// edges are separate because they render as distinct layers.
type RoadNetwork struct {
	Nodes []GeoPoint
	Edges []Polyline
}

// MarkerStyle selects how the caller's input locations are drawn.
type MarkerStyle int

const (
	// MarkerDots draws each point as a small dot (a coordinate set,
	// e.g. camera locations).
	MarkerDots MarkerStyle = iota
	// MarkerCross draws a single query point as a cross.
	MarkerCross
)

// Markers are the caller's original input locations, drawn on top of every
// retrieved layer in a highlight color.
type Markers struct {
	Points []GeoPoint
	Style  MarkerStyle
	Label  string
}

// Scene is everything a canvas needs to compose one figure. Feature
// collections are opaque to the core: they pass through untouched from
// retrieval to rendering.
type Scene struct {
	Title string
	Box   BoundingBox

	Area      *geojson.FeatureCollection
	Buildings *geojson.FeatureCollection
	Roads     *RoadNetwork
	POIs      *geojson.FeatureCollection
	Markers   Markers
}
