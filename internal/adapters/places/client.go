package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/waypost-app/waypost/internal/core/domain"
	"github.com/waypost-app/waypost/internal/core/ports"
	"github.com/waypost-app/waypost/internal/pkg/metrics"
)

// Client implements ports.PlacesSearcher against a Mapbox-style forward
// geocoding API. One request per sample point, each with its own timeout
// via the underlying http.Client.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a places client.
func NewClient(token, baseURL string, timeout time.Duration) *Client {
	return &Client{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search performs a forward search for query near center, constrained to a
// bounding box of roughly radiusMeters around it.
func (c *Client) Search(ctx context.Context, query string, center domain.GeoPoint, radiusMeters float64, limit int) ([]ports.Place, error) {
	if limit <= 0 {
		limit = 10
	}

	// Provider expects lon,lat ordering.
	latPad := radiusMeters / 111320.0
	lonPad := radiusMeters / (111320.0 * math.Cos(center.Lat*math.Pi/180))
	bbox := fmt.Sprintf("%.6f,%.6f,%.6f,%.6f",
		center.Lon-lonPad, center.Lat-latPad, center.Lon+lonPad, center.Lat+latPad)

	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(query))
	params := url.Values{
		"access_token": {c.token},
		"proximity":    {fmt.Sprintf("%.6f,%.6f", center.Lon, center.Lat)},
		"bbox":         {bbox},
		"types":        {"poi"},
		"limit":        {fmt.Sprintf("%d", limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.PlacesLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("places request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.PlacesLookups.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("places API error: status %d: %s", resp.StatusCode, body)
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		metrics.PlacesLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}
	metrics.PlacesLookups.WithLabelValues("ok").Inc()

	out := make([]ports.Place, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		if len(f.Center) != 2 {
			continue
		}
		category := f.Properties.Category
		if category == "" {
			category = f.PlaceName
		}
		out = append(out, ports.Place{
			Name:     f.Text,
			Location: domain.GeoPoint{Lat: f.Center[1], Lon: f.Center[0]},
			Category: category,
		})
	}
	return out, nil
}

// Provider API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center     []float64 `json:"center"` // [lon, lat]
	Text       string    `json:"text"`
	PlaceName  string    `json:"place_name"`
	Properties struct {
		Category string `json:"category"`
	} `json:"properties"`
}
