package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/citysketch/internal/core/domain"
	"github.com/samirrijal/citysketch/internal/pkg/metrics"
)

// Client talks to an Overpass API endpoint. It implements
// ports.RoadNetworkRetriever and ports.FeatureRetriever.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *slog.Logger
}

// New creates a new Overpass client.
func New(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Wire types for the Overpass JSON output.

type latLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type element struct {
	ID       int64             `json:"id"`
	Type     string            `json:"type"`
	Lat      float64           `json:"lat"`
	Lon      float64           `json:"lon"`
	Center   *latLon           `json:"center,omitempty"`
	Geometry []latLon          `json:"geometry,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`
}

type response struct {
	Elements []element `json:"elements"`
}

// RoadNetwork fetches every highway-tagged way within the box and returns its
// geometry as edge polylines plus deduplicated endpoint nodes.
func (c *Client) RoadNetwork(ctx context.Context, box domain.BoundingBox) (*domain.RoadNetwork, error) {
	ql := fmt.Sprintf("[out:json][timeout:90];way[highway](%s);out geom;", bboxClause(box))

	res, err := c.query(ctx, "roads", ql)
	if err != nil {
		return nil, err
	}

	net := &domain.RoadNetwork{}
	seen := make(map[latLon]struct{})
	for _, el := range res.Elements {
		if len(el.Geometry) < 2 {
			continue
		}
		edge := make(domain.Polyline, 0, len(el.Geometry))
		for _, g := range el.Geometry {
			edge = append(edge, domain.GeoPoint{Lat: g.Lat, Lon: g.Lon})
		}
		net.Edges = append(net.Edges, edge)

		// Node layer: way endpoints, deduplicated.
		for _, end := range []latLon{el.Geometry[0], el.Geometry[len(el.Geometry)-1]} {
			if _, ok := seen[end]; ok {
				continue
			}
			seen[end] = struct{}{}
			net.Nodes = append(net.Nodes, domain.GeoPoint{Lat: end.Lat, Lon: end.Lon})
		}
	}
	return net, nil
}

// FeaturesWithin fetches nodes, ways and relations carrying any of the given
// tag keys. Ways with geometry become line strings (closed ones polygons);
// everything else becomes a point. Element tags end up as feature properties.
func (c *Client) FeaturesWithin(ctx context.Context, box domain.BoundingBox, tags map[string]bool) (*geojson.FeatureCollection, error) {
	keys := make([]string, 0, len(tags))
	for k, enabled := range tags {
		if enabled {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return geojson.NewFeatureCollection(), nil
	}
	sort.Strings(keys) // deterministic queries

	var b strings.Builder
	b.WriteString("[out:json][timeout:90];(")
	for _, k := range keys {
		fmt.Fprintf(&b, "nwr[%q](%s);", k, bboxClause(box))
	}
	b.WriteString(");out geom;")

	res, err := c.query(ctx, "features", b.String())
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()
	for _, el := range res.Elements {
		f := featureFor(el)
		if f == nil {
			continue
		}
		fc.Append(f)
	}
	return fc, nil
}

func featureFor(el element) *geojson.Feature {
	var f *geojson.Feature
	switch {
	case len(el.Geometry) >= 2:
		ls := make(orb.LineString, 0, len(el.Geometry))
		for _, g := range el.Geometry {
			ls = append(ls, orb.Point{g.Lon, g.Lat})
		}
		if len(ls) >= 4 && ls[0] == ls[len(ls)-1] {
			f = geojson.NewFeature(orb.Polygon{orb.Ring(ls)})
		} else {
			f = geojson.NewFeature(ls)
		}
	case el.Center != nil:
		f = geojson.NewFeature(orb.Point{el.Center.Lon, el.Center.Lat})
	case el.Lat != 0 || el.Lon != 0:
		f = geojson.NewFeature(orb.Point{el.Lon, el.Lat})
	default:
		return nil
	}

	f.ID = el.ID
	f.Properties["osm_type"] = el.Type
	for k, v := range el.Tags {
		f.Properties[k] = v
	}
	return f
}

// bboxClause renders a box in Overpass order: south,west,north,east.
func bboxClause(box domain.BoundingBox) string {
	return fmt.Sprintf("%f,%f,%f,%f", box.South, box.West, box.North, box.East)
}

func (c *Client) query(ctx context.Context, layer, ql string) (*response, error) {
	start := time.Now()

	form := url.Values{"data": {ql}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/interpreter", strings.NewReader(form))
	if err != nil {
		return nil, fmt.Errorf("overpass %s: %w", layer, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.httpc.Do(req)
	if err != nil {
		metrics.LayerFetchErrors.WithLabelValues(layer).Inc()
		return nil, fmt.Errorf("overpass %s: %w", layer, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		metrics.LayerFetchErrors.WithLabelValues(layer).Inc()
		return nil, fmt.Errorf("overpass %s: unexpected status %d", layer, res.StatusCode)
	}

	var out response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		metrics.LayerFetchErrors.WithLabelValues(layer).Inc()
		return nil, fmt.Errorf("overpass %s: decode: %w", layer, err)
	}

	metrics.LayerFetchDuration.WithLabelValues(layer).Observe(time.Since(start).Seconds())
	c.log.Debug("overpass layer fetched", "layer", layer, "elements", len(out.Elements), "took", time.Since(start))
	return &out, nil
}
