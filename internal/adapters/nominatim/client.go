package nominatim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/citysketch/internal/pkg/metrics"
)

// Client resolves place names against a Nominatim endpoint. It implements
// ports.BoundaryRetriever.
type Client struct {
	baseURL   string
	userAgent string
	httpc     *http.Client
	log       *slog.Logger
}

// New creates a new Nominatim client. The Nominatim usage policy requires an
// identifying User-Agent on every request.
func New(baseURL, userAgent string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		httpc:     &http.Client{Timeout: timeout},
		log:       log,
	}
}

// Boundary geocodes placeName and returns its boundary polygon as a feature
// collection. No match at all is an error.
func (c *Client) Boundary(ctx context.Context, placeName string) (*geojson.FeatureCollection, error) {
	start := time.Now()

	q := url.Values{
		"q":               {placeName},
		"format":          {"geojson"},
		"polygon_geojson": {"1"},
		"limit":           {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("nominatim: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.httpc.Do(req)
	if err != nil {
		metrics.LayerFetchErrors.WithLabelValues("boundary").Inc()
		return nil, fmt.Errorf("nominatim: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		metrics.LayerFetchErrors.WithLabelValues("boundary").Inc()
		return nil, fmt.Errorf("nominatim: unexpected status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		metrics.LayerFetchErrors.WithLabelValues("boundary").Inc()
		return nil, fmt.Errorf("nominatim: read: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		metrics.LayerFetchErrors.WithLabelValues("boundary").Inc()
		return nil, fmt.Errorf("nominatim: decode: %w", err)
	}
	if len(fc.Features) == 0 {
		metrics.LayerFetchErrors.WithLabelValues("boundary").Inc()
		return nil, fmt.Errorf("nominatim: no match for %q", placeName)
	}

	metrics.LayerFetchDuration.WithLabelValues("boundary").Observe(time.Since(start).Seconds())
	c.log.Debug("boundary fetched", "place", placeName, "features", len(fc.Features), "took", time.Since(start))
	return fc, nil
}
