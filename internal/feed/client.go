// Package feed implements the USGS earthquake feed client.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"quakewatch/internal/model"
)

// Failure taxonomy. Callers distinguish transport failures from
// malformed responses with errors.Is; both are retryable on the
// alert path.
var (
	// ErrNetwork marks transport-level failures: timeouts, refused
	// connections, DNS errors, non-200 statuses.
	ErrNetwork = errors.New("feed unreachable")
	// ErrParse marks responses whose structure cannot be decoded.
	ErrParse = errors.New("malformed feed response")
)

const queryPath = "/fdsnws/event/1/query"

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches and parses snapshots of seismic events.
type Client struct {
	client       HTTPClient
	baseURL      string
	minMagnitude float64
	timeout      time.Duration

	// SkippedFeature, when set, is invoked once per malformed feature
	// dropped from a snapshot. Used to feed the observability counter.
	SkippedFeature func()
}

// New creates a Client with the given HTTP client. The minimum
// magnitude is a server-side pre-filter, not a substitute for the
// classifier.
func New(client HTTPClient, baseURL string, minMagnitude float64) *Client {
	return &Client{
		client:       client,
		baseURL:      baseURL,
		minMagnitude: minMagnitude,
		timeout:      30 * time.Second,
	}
}

// geoJSON mirrors the wire shape of the USGS GeoJSON response.
// Pointer fields distinguish absent values from zero values.
type geoJSON struct {
	Features []struct {
		ID         string `json:"id"`
		Properties *struct {
			Mag     *float64 `json:"mag"`
			Place   string   `json:"place"`
			Time    *int64   `json:"time"`
			Tsunami int      `json:"tsunami"`
		} `json:"properties"`
		Geometry *struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Fetch performs a single GET against the query endpoint and returns
// the current snapshot. A malformed feature is skipped rather than
// aborting the whole snapshot; only a response with no decodable
// feature list is a parse failure. Retrying is the caller's concern.
func (c *Client) Fetch(ctx context.Context) ([]model.SeismicEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.queryURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "QuakeWatch/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http get: %v", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	var parsed geoJSON
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode geojson: %v", ErrParse, err)
	}
	if parsed.Features == nil {
		return nil, fmt.Errorf("%w: feature list absent", ErrParse)
	}

	events := make([]model.SeismicEvent, 0, len(parsed.Features))
	for _, f := range parsed.Features {
		// Magnitude and time are required for alerting and
		// classification; a feature without them is unusable.
		if f.Properties == nil || f.Properties.Mag == nil || f.Properties.Time == nil {
			c.skipped()
			continue
		}
		ev := model.SeismicEvent{
			ID:        f.ID,
			Magnitude: *f.Properties.Mag,
			Place:     f.Properties.Place,
			Time:      *f.Properties.Time,
			Tsunami:   f.Properties.Tsunami == 1,
		}
		// A bad coordinate pair only disqualifies the event for
		// display; it stays in the snapshot.
		if f.Geometry != nil && len(f.Geometry.Coordinates) >= 2 {
			ev.Longitude = f.Geometry.Coordinates[0]
			ev.Latitude = f.Geometry.Coordinates[1]
			ev.HasCoordinates = true
		}
		events = append(events, ev)
	}
	return events, nil
}

func (c *Client) queryURL() string {
	q := url.Values{
		"format":       {"geojson"},
		"minmagnitude": {strconv.FormatFloat(c.minMagnitude, 'f', -1, 64)},
	}
	return c.baseURL + queryPath + "?" + q.Encode()
}

func (c *Client) skipped() {
	if c.SkippedFeature != nil {
		c.SkippedFeature()
	}
}
