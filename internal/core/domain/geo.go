package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Polyline represents an ordered sequence of geographic coordinates.
type Polyline []GeoPoint

// BoundingBox represents a rectangular geographic region bounded by
// west/south/east/north coordinates. Boxes are derived per call and never
// persisted.
type BoundingBox struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// Valid reports whether the box spans a non-empty region.
func (b BoundingBox) Valid() bool {
	return b.West < b.East && b.South < b.North
}

// Contains reports whether p lies within the box, borders included.
func (b BoundingBox) Contains(p GeoPoint) bool {
	return p.Lon >= b.West && p.Lon <= b.East && p.Lat >= b.South && p.Lat <= b.North
}

// Width returns the box's longitudinal span in degrees.
func (b BoundingBox) Width() float64 { return b.East - b.West }

// Height returns the box's latitudinal span in degrees.
func (b BoundingBox) Height() float64 { return b.North - b.South }
