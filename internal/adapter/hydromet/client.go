// Package hydromet is the HTTP client for the LCRA Hydromet API.
package hydromet

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/flood-status-service/internal/domain"
	"github.com/couchcryptid/flood-status-service/internal/observability"
)

// The fixed set of endpoints this service consumes, relative to
// <base URL>/api/.
const (
	endpointGateOps      = "FloodStatus/GetLakeLevelsGateOps"
	endpointForecastRefs = "GetForecastReferences"
	endpointNarrative    = "FloodStatus/GetNarrativeSummary"
)

// Client fetches raw payloads from the Hydromet API. It performs a single
// GET per call: no retries, no backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Hydromet client with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// LakeLevelsGateOps returns the raw lake levels / gate operations payload.
func (c *Client) LakeLevelsGateOps(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, endpointGateOps)
}

// ForecastReferences returns the raw river conditions payload.
func (c *Client) ForecastReferences(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, endpointForecastRefs)
}

// NarrativeSummary returns the raw flood operations narrative payload.
func (c *Client) NarrativeSummary(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, endpointNarrative)
}

// Ping probes upstream reachability using the cheapest endpoint. The payload
// is discarded; only transport success matters.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.fetch(ctx, endpointNarrative)
	return err
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	u := fmt.Sprintf("%s/api/%s", c.baseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("%w: fetch %s: %v", domain.ErrUpstreamUnavailable, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s returned status %d: %s",
			domain.ErrUpstreamUnavailable, endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("%w: read %s response: %v", domain.ErrUpstreamUnavailable, endpoint, err)
	}

	c.metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
	c.logger.Debug("upstream fetch complete", "endpoint", endpoint, "bytes", len(payload))
	return payload, nil
}
