package overpass_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"github.com/samirrijal/citysketch/internal/adapters/overpass"
	"github.com/samirrijal/citysketch/internal/core/domain"
)

var testBox = domain.BoundingBox{West: -0.11, South: 51.49, East: -0.09, North: 51.51}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRoadNetwork(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/interpreter" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotQuery = r.FormValue("data")
		w.Write([]byte(`{
			"elements": [
				{"type": "way", "id": 1, "tags": {"highway": "residential"},
				 "geometry": [
					{"lat": 51.50, "lon": -0.10},
					{"lat": 51.501, "lon": -0.101},
					{"lat": 51.502, "lon": -0.102}
				 ]},
				{"type": "way", "id": 2,
				 "geometry": [
					{"lat": 51.502, "lon": -0.102},
					{"lat": 51.503, "lon": -0.103}
				 ]},
				{"type": "way", "id": 3, "geometry": [{"lat": 51.5, "lon": -0.1}]}
			]
		}`))
	}))
	defer srv.Close()

	c := overpass.New(srv.URL, 5*time.Second, testLogger())

	net, err := c.RoadNetwork(context.Background(), testBox)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(gotQuery, "way[highway]") {
		t.Errorf("query should select highways, got: %s", gotQuery)
	}
	// Overpass bbox order is south,west,north,east.
	if !strings.Contains(gotQuery, "(51.490000,-0.110000,51.510000,-0.090000)") {
		t.Errorf("query bbox wrong: %s", gotQuery)
	}

	if len(net.Edges) != 2 {
		t.Fatalf("expected 2 edges (single-vertex way skipped), got %d", len(net.Edges))
	}
	if len(net.Edges[0]) != 3 {
		t.Errorf("first edge should keep all 3 vertices, got %d", len(net.Edges[0]))
	}
	// Endpoints of both ways, with the shared one deduplicated.
	if len(net.Nodes) != 3 {
		t.Errorf("expected 3 deduplicated endpoint nodes, got %d", len(net.Nodes))
	}
}

func TestFeaturesWithin(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.FormValue("data")
		w.Write([]byte(`{
			"elements": [
				{"type": "node", "id": 10, "lat": 51.5, "lon": -0.1, "tags": {"amenity": "cafe", "name": "Perk"}},
				{"type": "way", "id": 11, "center": {"lat": 51.501, "lon": -0.101},
				 "geometry": [
					{"lat": 51.5, "lon": -0.1},
					{"lat": 51.5, "lon": -0.101},
					{"lat": 51.501, "lon": -0.101},
					{"lat": 51.5, "lon": -0.1}
				 ], "tags": {"building": "yes"}},
				{"type": "way", "id": 12, "center": {"lat": 51.502, "lon": -0.102}, "tags": {"amenity": "parking"}}
			]
		}`))
	}))
	defer srv.Close()

	c := overpass.New(srv.URL, 5*time.Second, testLogger())

	fc, err := c.FeaturesWithin(context.Background(), testBox, map[string]bool{"amenity": true, "building": true, "skipped": false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []string{`nwr["amenity"]`, `nwr["building"]`} {
		if !strings.Contains(gotQuery, key) {
			t.Errorf("query missing %s: %s", key, gotQuery)
		}
	}
	if strings.Contains(gotQuery, "skipped") {
		t.Errorf("disabled tags must not be queried: %s", gotQuery)
	}

	if len(fc.Features) != 3 {
		t.Fatalf("expected 3 features, got %d", len(fc.Features))
	}

	if _, ok := fc.Features[0].Geometry.(orb.Point); !ok {
		t.Errorf("node should map to a point, got %T", fc.Features[0].Geometry)
	}
	if fc.Features[0].Properties["amenity"] != "cafe" {
		t.Errorf("tags should become properties, got %v", fc.Features[0].Properties)
	}
	if _, ok := fc.Features[1].Geometry.(orb.Polygon); !ok {
		t.Errorf("closed way should map to a polygon, got %T", fc.Features[1].Geometry)
	}
	if _, ok := fc.Features[2].Geometry.(orb.Point); !ok {
		t.Errorf("geometry-less way should fall back to its center, got %T", fc.Features[2].Geometry)
	}
}

func TestFeaturesWithin_NoEnabledTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected when every tag is disabled")
	}))
	defer srv.Close()

	c := overpass.New(srv.URL, 5*time.Second, testLogger())

	fc, err := c.FeaturesWithin(context.Background(), testBox, map[string]bool{"amenity": false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.Features) != 0 {
		t.Errorf("expected an empty collection, got %d features", len(fc.Features))
	}
}

func TestQueryFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := overpass.New(srv.URL, 5*time.Second, testLogger())

	if _, err := c.RoadNetwork(context.Background(), testBox); err == nil {
		t.Error("expected an error on status 429")
	}

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer bad.Close()

	c = overpass.New(bad.URL, 5*time.Second, testLogger())
	if _, err := c.FeaturesWithin(context.Background(), testBox, map[string]bool{"amenity": true}); err == nil {
		t.Error("expected a decode error")
	}
}
