// Package notify pushes chart updates to a TRMNL custom plugin webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arice/trmnl-astro/pkg/errors"
	"github.com/arice/trmnl-astro/pkg/httputil"
	"github.com/arice/trmnl-astro/pkg/observability"
)

// DefaultBaseURL is the TRMNL API host.
const DefaultBaseURL = "https://usetrmnl.com"

const webhookTimeout = 30 * time.Second

// Client posts merge variables to a TRMNL custom plugin.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a webhook client. An empty baseURL uses the public TRMNL
// host; tests point it at a local server.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "TRMNL api key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: webhookTimeout},
	}, nil
}

type webhookPayload struct {
	MergeVariables mergeVariables `json:"merge_variables"`
}

type mergeVariables struct {
	ChartURL  string `json:"chart_url"`
	UpdatedAt string `json:"updated_at"`
}

// Notify tells the plugin identified by pluginUUID where the fresh chart
// lives. updatedAt is rendered in the plugin's display template; pass it in
// the display timezone. The webhook accepts 200 and 201; transient failures
// are retried.
func (c *Client) Notify(ctx context.Context, pluginUUID, imageURL string, updatedAt time.Time) error {
	if err := errors.ValidatePluginUUID(pluginUUID); err != nil {
		return err
	}

	payload := webhookPayload{MergeVariables: mergeVariables{
		ChartURL:  imageURL,
		UpdatedAt: updatedAt.Format("2006-01-02 15:04 MST"),
	}}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	url := c.baseURL + "/api/custom_plugins/" + pluginUUID
	return httputil.RetryWithBackoff(ctx, func() error {
		return c.post(ctx, url, body)
	})
}

func (c *Client) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	observability.HTTP().OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return &httputil.RetryableError{Err: fmt.Errorf("webhook: %w", err)}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.New(errors.ErrCodeUnauthorized, "webhook rejected: status %d", resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return &httputil.RetryableError{
			Err: errors.New(errors.ErrCodeNetwork, "webhook: status %d", resp.StatusCode),
		}
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.New(errors.ErrCodeNetwork, "webhook: status %d: %s", resp.StatusCode, detail)
	}
}
