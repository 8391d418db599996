// Package client provides a Go client library for the results API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Client is the results API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// NewClient creates a new results API client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.doRequest(ctx, "GET", "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}
	return nil
}

// ListResults returns the latest suite per engine from the server's
// results directory.
func (c *Client) ListResults(ctx context.Context) (map[string]Suite, error) {
	resp, err := c.doRequest(ctx, "GET", "/api/v1/results")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result map[string]Suite
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return result, nil
}

// GetEngineResults returns the suite for one engine.
func (c *Client) GetEngineResults(ctx context.Context, engine string) (*Suite, error) {
	resp, err := c.doRequest(ctx, "GET", "/api/v1/results/"+engine)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result Suite
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetSummary returns the rendered markdown comparison report.
func (c *Client) GetSummary(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, "GET", "/api/v1/summary")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.parseError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// ListRuns lists archived runs, newest first.
func (c *Client) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	path := "/api/v1/runs"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	resp, err := c.doRequest(ctx, "GET", path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result []Run
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return result, nil
}

// GetRun fetches one archived run by ID.
func (c *Client) GetRun(ctx context.Context, id string) (*Run, error) {
	resp, err := c.doRequest(ctx, "GET", "/api/v1/runs/"+id)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result Run
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// doRequest makes an authenticated HTTP request.
func (c *Client) doRequest(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// parseError parses an error response.
func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return fmt.Errorf("%s: %s", resp.Status, errResp.Error)
	}

	return fmt.Errorf("%s: %s", resp.Status, string(body))
}

// Wire types

// Result is one query measurement.
type Result struct {
	Query        string   `json:"query"`
	Engine       string   `json:"engine"`
	TimeSeconds  *float64 `json:"time_seconds"`
	RowCount     *int64   `json:"row_count"`
	Status       string   `json:"status"`
	ErrorMessage *string  `json:"error_message"`
}

// Suite is the measurements of one engine over a benchmark run.
type Suite struct {
	Engine      string   `json:"engine"`
	Version     string   `json:"version"`
	ScaleFactor float64  `json:"scale_factor"`
	Timestamp   string   `json:"timestamp"`
	TotalTime   float64  `json:"total_time"`
	Results     []Result `json:"results"`
}

// Run is an archived benchmark run.
type Run struct {
	RunID       string    `json:"run_id"`
	Benchmark   string    `json:"benchmark"`
	Version     string    `json:"version"`
	GeneratedAt string    `json:"generated_at"`
	Suites      []Suite   `json:"suites"`
	ArchivedAt  time.Time `json:"archived_at"`
}
