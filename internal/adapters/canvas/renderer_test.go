package canvas_test

import (
	"context"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/citysketch/internal/adapters/canvas"
	"github.com/samirrijal/citysketch/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testScene() *domain.Scene {
	area := geojson.NewFeatureCollection()
	area.Append(geojson.NewFeature(orb.Polygon{orb.Ring{
		{-0.11, 51.49}, {-0.09, 51.49}, {-0.09, 51.51}, {-0.11, 51.51}, {-0.11, 51.49},
	}}))

	buildings := geojson.NewFeatureCollection()
	buildings.Append(geojson.NewFeature(orb.Polygon{orb.Ring{
		{-0.101, 51.501}, {-0.100, 51.501}, {-0.100, 51.502}, {-0.101, 51.502}, {-0.101, 51.501},
	}}))

	pois := geojson.NewFeatureCollection()
	pois.Append(geojson.NewFeature(orb.Point{-0.1, 51.5}))
	pois.Append(geojson.NewFeature(orb.LineString{{-0.105, 51.495}, {-0.095, 51.505}}))

	return &domain.Scene{
		Title: "London",
		Box:   domain.BoundingBox{West: -0.11, South: 51.49, East: -0.09, North: 51.51},
		Area:  area, Buildings: buildings, POIs: pois,
		Roads: &domain.RoadNetwork{
			Nodes: []domain.GeoPoint{{Lat: 51.5, Lon: -0.1}},
			Edges: []domain.Polyline{{{Lat: 51.495, Lon: -0.105}, {Lat: 51.505, Lon: -0.095}}},
		},
		Markers: domain.Markers{
			Points: []domain.GeoPoint{{Lat: 51.5, Lon: -0.1}},
			Style:  domain.MarkerCross,
			Label:  "Point",
		},
	}
}

func TestRender_WritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "map.png")
	r := canvas.New(300, 200, out, testLogger())

	if err := r.Render(context.Background(), testScene()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("figure not written: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 300 || bounds.Dy() != 200 {
		t.Errorf("figure is %dx%d, want 300x200", bounds.Dx(), bounds.Dy())
	}
}

func TestRender_NilLayersTolerated(t *testing.T) {
	out := filepath.Join(t.TempDir(), "map.png")
	r := canvas.New(100, 100, out, testLogger())

	scene := &domain.Scene{
		Box: domain.BoundingBox{West: 0, South: 0, East: 1, North: 1},
	}
	if err := r.Render(context.Background(), scene); err != nil {
		t.Fatalf("empty scene should still render a blank figure: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("figure not written: %v", err)
	}
}

func TestRender_DegenerateBox(t *testing.T) {
	out := filepath.Join(t.TempDir(), "map.png")
	r := canvas.New(100, 100, out, testLogger())

	scene := testScene()
	scene.Box = domain.BoundingBox{West: 1, South: 1, East: 1, North: 1}

	if err := r.Render(context.Background(), scene); err == nil {
		t.Error("expected an error for a zero-area box")
	}
}

func TestRender_UnwritablePath(t *testing.T) {
	r := canvas.New(100, 100, filepath.Join(t.TempDir(), "missing", "dir", "map.png"), testLogger())

	if err := r.Render(context.Background(), testScene()); err == nil {
		t.Error("expected an error when the output path cannot be written")
	}
}
