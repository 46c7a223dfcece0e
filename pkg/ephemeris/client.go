// Package ephemeris fetches current planetary positions from a self-hosted
// Astrologer API instance.
//
// The client wraps the POST /api/v5/chart-data/birth-chart endpoint with
// bounded retry and an optional response cache. Only the fields the chart
// needs (absolute longitude, sign, in-sign position, retrograde flag) are
// extracted from the response.
package ephemeris

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arice/trmnl-astro/pkg/cache"
	"github.com/arice/trmnl-astro/pkg/chart"
	"github.com/arice/trmnl-astro/pkg/httputil"
	"github.com/arice/trmnl-astro/pkg/observability"
)

const (
	chartDataPath = "/api/v5/chart-data/birth-chart"
	httpTimeout   = 10 * time.Second
)

var (
	// ErrNotFound is returned when the API endpoint doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrBadResponse is returned when the API responds without status "OK"
	// or with no position data.
	ErrBadResponse = errors.New("unexpected API response")
)

// Client calls the Astrologer position API.
type Client struct {
	baseURL string
	http    *http.Client
	cache   cache.Cache
}

// NewClient creates a Client for the API at baseURL.
// Pass a nil cache to disable response caching.
func NewClient(baseURL string, c cache.Cache) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeout},
		cache:   c,
	}
}

// Positions fetches positions for the requested bodies at the subject's
// moment. Bodies absent from the response are skipped, matching the API's
// behavior of omitting bodies it cannot compute. If refresh is true the
// cache is bypassed.
func (c *Client) Positions(ctx context.Context, subject Subject, bodies []string, refresh bool) (chart.Positions, error) {
	payload, err := json.Marshal(chartRequest{Subject: subject})
	if err != nil {
		return nil, err
	}

	key := "positions:" + cache.Hash(payload)
	var raw []byte

	if !refresh {
		if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
			raw = data
		}
	}

	if raw == nil {
		err := httputil.RetryWithBackoff(ctx, func() error {
			var fetchErr error
			raw, fetchErr = c.fetch(ctx, payload)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}
		_ = c.cache.Set(ctx, key, raw, cache.TTLPositions)
	}

	return decodePositions(raw, bodies)
}

// fetch performs one POST to the chart-data endpoint and returns the raw body.
func (c *Client) fetch(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chartDataPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	observability.HTTP().OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// decodePositions extracts the requested bodies from a raw chart response.
func decodePositions(raw []byte, bodies []string) (chart.Positions, error) {
	var resp chartResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("%w: status %q", ErrBadResponse, resp.Status)
	}

	positions := make(chart.Positions, len(bodies))
	for _, body := range bodies {
		msg, ok := resp.ChartData.Subject[body]
		if !ok || string(msg) == "null" {
			continue
		}
		var pos bodyPosition
		if err := json.Unmarshal(msg, &pos); err != nil {
			// Scalar subject fields (name, timezone, ...) share the object
			// with body positions; anything that isn't a position is skipped.
			continue
		}
		positions[body] = pos.toPosition()
	}

	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: no positions for requested bodies", ErrBadResponse)
	}
	return positions, nil
}
