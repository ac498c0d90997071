package canvas

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/citysketch/internal/core/domain"
)

// Renderer implements ports.MapCanvas by rasterizing a scene to a PNG file.
type Renderer struct {
	width   int
	height  int
	outPath string
	log     *slog.Logger
}

// New creates a new Renderer writing to outPath.
func New(width, height int, outPath string, log *slog.Logger) *Renderer {
	return &Renderer{width: width, height: height, outPath: outPath, log: log}
}

// style carries the draw parameters for one layer.
type style struct {
	r, g, b, a float64
	lineWidth  float64
	radius     float64
	fill       bool
}

// Palette matching the figure this tool replaces: tan area, gray buildings,
// faint black roads, green POIs, red input markers.
var (
	areaStyle     = style{r: 0.82, g: 0.71, b: 0.55, a: 0.5, fill: true}
	buildingStyle = style{r: 0.5, g: 0.5, b: 0.5, a: 1, lineWidth: 1, fill: true}
	edgeStyle     = style{r: 0, g: 0, b: 0, a: 0.3, lineWidth: 1}
	nodeStyle     = style{r: 0, g: 0, b: 0, a: 0.3, radius: 1}
	poiStyle      = style{r: 0, g: 0.6, b: 0, a: 1, radius: 2.5}
	markerStyle   = style{r: 0.85, g: 0, b: 0, a: 1, radius: 3, lineWidth: 2}
)

// Render composes the scene bottom to top and writes the PNG. The projection
// maps the bounding box onto the full image, so anything outside the box falls
// off the raster: the visible extent is exactly the box.
func (r *Renderer) Render(ctx context.Context, scene *domain.Scene) error {
	if !scene.Box.Valid() {
		return fmt.Errorf("degenerate bounding box: %+v", scene.Box)
	}

	dc := gg.NewContext(r.width, r.height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	p := projection{box: scene.Box, w: float64(r.width), h: float64(r.height)}

	r.drawCollection(dc, p, scene.Area, areaStyle)
	r.drawCollection(dc, p, scene.Buildings, buildingStyle)
	r.drawRoads(dc, p, scene.Roads)
	r.drawCollection(dc, p, scene.POIs, poiStyle)
	r.drawMarkers(dc, p, scene.Markers)

	if scene.Title != "" {
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(scene.Title, float64(r.width)/2, 16, 0.5, 0.5)
	}

	if err := dc.SavePNG(r.outPath); err != nil {
		return fmt.Errorf("write %s: %w", r.outPath, err)
	}

	r.log.Info("map written", "path", r.outPath, "width", r.width, "height", r.height)
	return nil
}

// projection maps lon/lat linearly onto image pixels, north up.
type projection struct {
	box  domain.BoundingBox
	w, h float64
}

func (p projection) xy(lon, lat float64) (float64, float64) {
	x := (lon - p.box.West) / p.box.Width() * p.w
	y := (p.box.North - lat) / p.box.Height() * p.h
	return x, y
}

func (r *Renderer) drawRoads(dc *gg.Context, p projection, net *domain.RoadNetwork) {
	if net == nil {
		return
	}
	for _, edge := range net.Edges {
		drawPolyline(dc, p, edge, edgeStyle)
	}
	for _, node := range net.Nodes {
		drawDot(dc, p, node, nodeStyle)
	}
}

func (r *Renderer) drawMarkers(dc *gg.Context, p projection, m domain.Markers) {
	for _, pt := range m.Points {
		if m.Style == domain.MarkerCross {
			drawCross(dc, p, pt, markerStyle)
		} else {
			drawDot(dc, p, pt, markerStyle)
		}
	}

	// Legend: a swatch plus the marker label, bottom-left corner.
	if m.Label != "" && len(m.Points) > 0 {
		x, y := 10.0, float64(r.height)-12
		dc.SetRGBA(markerStyle.r, markerStyle.g, markerStyle.b, markerStyle.a)
		dc.DrawCircle(x, y, markerStyle.radius)
		dc.Fill()
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(m.Label, x+8, y, 0, 0.4)
	}
}

func (r *Renderer) drawCollection(dc *gg.Context, p projection, fc *geojson.FeatureCollection, st style) {
	if fc == nil {
		return
	}
	for _, f := range fc.Features {
		drawGeometry(dc, p, f.Geometry, st)
	}
}

func drawGeometry(dc *gg.Context, p projection, g orb.Geometry, st style) {
	switch geom := g.(type) {
	case orb.Point:
		drawDot(dc, p, domain.GeoPoint{Lat: geom.Lat(), Lon: geom.Lon()}, st)
	case orb.MultiPoint:
		for _, pt := range geom {
			drawDot(dc, p, domain.GeoPoint{Lat: pt.Lat(), Lon: pt.Lon()}, st)
		}
	case orb.LineString:
		drawPath(dc, p, geom, st)
	case orb.MultiLineString:
		for _, ls := range geom {
			drawPath(dc, p, ls, st)
		}
	case orb.Ring:
		drawRings(dc, p, []orb.Ring{geom}, st)
	case orb.Polygon:
		drawRings(dc, p, geom, st)
	case orb.MultiPolygon:
		for _, poly := range geom {
			drawRings(dc, p, poly, st)
		}
	case orb.Collection:
		for _, sub := range geom {
			drawGeometry(dc, p, sub, st)
		}
	}
}

func drawDot(dc *gg.Context, p projection, pt domain.GeoPoint, st style) {
	x, y := p.xy(pt.Lon, pt.Lat)
	radius := st.radius
	if radius == 0 {
		radius = 1.5
	}
	dc.SetRGBA(st.r, st.g, st.b, st.a)
	dc.DrawCircle(x, y, radius)
	dc.Fill()
}

func drawCross(dc *gg.Context, p projection, pt domain.GeoPoint, st style) {
	x, y := p.xy(pt.Lon, pt.Lat)
	arm := st.radius * 2
	dc.SetRGBA(st.r, st.g, st.b, st.a)
	dc.SetLineWidth(st.lineWidth)
	dc.DrawLine(x-arm, y-arm, x+arm, y+arm)
	dc.DrawLine(x-arm, y+arm, x+arm, y-arm)
	dc.Stroke()
}

func drawPolyline(dc *gg.Context, p projection, line domain.Polyline, st style) {
	if len(line) < 2 {
		return
	}
	dc.SetRGBA(st.r, st.g, st.b, st.a)
	dc.SetLineWidth(st.lineWidth)
	for i, pt := range line {
		x, y := p.xy(pt.Lon, pt.Lat)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()
}

func drawPath(dc *gg.Context, p projection, ls orb.LineString, st style) {
	line := make(domain.Polyline, 0, len(ls))
	for _, pt := range ls {
		line = append(line, domain.GeoPoint{Lat: pt.Lat(), Lon: pt.Lon()})
	}
	drawPolyline(dc, p, line, st)
}

func drawRings(dc *gg.Context, p projection, rings []orb.Ring, st style) {
	dc.SetRGBA(st.r, st.g, st.b, st.a)
	for _, ring := range rings {
		dc.NewSubPath()
		for i, pt := range ring {
			x, y := p.xy(pt.Lon(), pt.Lat())
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
	}
	if st.fill {
		dc.SetFillRuleEvenOdd()
		dc.FillPreserve()
	}
	if st.lineWidth > 0 {
		dc.SetLineWidth(st.lineWidth)
		dc.Stroke()
	} else {
		dc.ClearPath()
	}
}
