// Package feed retrieves raw incident records from the county crash-feed
// export endpoint.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/roadwatch/crashweekly/internal/domain"
)

// Client fetches the raw record set for a query scope. It performs a single
// HTTP call per Fetch: no retries (retry policy is a caller concern) and no
// caching between runs.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a feed client for the given export endpoint.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch retrieves the raw record set in both encodings. Network, HTTP, and
// payload failures wrap domain.ErrFetch.
func (c *Client) Fetch(ctx context.Context, q domain.FeedQuery) (domain.RawFeed, error) {
	params := url.Values{
		"filetype":  {"json"},
		"startyear": {strconv.Itoa(q.StartYear)},
		"county":    {q.County},
	}
	for _, s := range q.Severities {
		params.Add("injsvr", s)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.RawFeed{}, fmt.Errorf("%w: create request: %w", domain.ErrFetch, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RawFeed{}, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.RawFeed{}, fmt.Errorf("%w: status %d: %s", domain.ErrFetch, resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.RawFeed{}, fmt.Errorf("%w: read body: %w", domain.ErrFetch, err)
	}

	feed, err := ParseBody(body)
	if err != nil {
		return domain.RawFeed{}, err
	}

	c.logger.Debug("feed fetched",
		"county", q.County,
		"start_year", q.StartYear,
		"records", len(feed.Geo),
	)
	return feed, nil
}

// ParseBody decodes a feed response body into both encodings. The same bytes
// are parsed twice: once as a GeoJSON feature collection for the
// geometry-bearing encoding, and once re-parsed flat for the characteristic
// flags the geometry exporter does not reliably carry. Both encodings keep
// the feed's record order.
func ParseBody(body []byte) (domain.RawFeed, error) {
	geo, err := parseGeoEncoding(body)
	if err != nil {
		return domain.RawFeed{}, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}

	flat, err := parseFlatEncoding(body)
	if err != nil {
		return domain.RawFeed{}, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}

	return domain.RawFeed{Geo: geo, Flat: flat}, nil
}

func parseGeoEncoding(body []byte) ([]domain.GeoRecord, error) {
	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}

	records := make([]domain.GeoRecord, 0, len(fc.Features))
	for _, f := range fc.Features {
		records = append(records, domain.GeoRecord{
			Date:         propString(f.Properties, "date"),
			Fatalities:   propString(f.Properties, "totfatl"),
			Injuries:     propString(f.Properties, "totinj"),
			Municipality: propString(f.Properties, "muniname"),
		})
	}
	return records, nil
}

// flatEnvelope mirrors the feature collection shape just enough to pull the
// flag columns out of each feature's properties.
type flatEnvelope struct {
	Features []struct {
		Properties domain.FlatRecord `json:"properties"`
	} `json:"features"`
}

func parseFlatEncoding(body []byte) ([]domain.FlatRecord, error) {
	var env flatEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode flat properties: %w", err)
	}

	records := make([]domain.FlatRecord, 0, len(env.Features))
	for _, f := range env.Features {
		records = append(records, f.Properties)
	}
	return records, nil
}

// propString reads a property as a string, tolerating the numeric values the
// exporter sometimes emits for count columns.
func propString(props geojson.Properties, key string) string {
	switch v := props[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
