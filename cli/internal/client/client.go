// ABOUTME: HTTP client for Cluster Efficiency Analyzer API
// ABOUTME: Wraps API calls with proper error handling for CLI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

// Client is the API client for Cluster Efficiency Analyzer backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client with the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
	Fields  []models.FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("backend error: %s", e.Message)
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s %s", f.Field, f.Message)
	}
	return fmt.Sprintf("backend error: %s (%s)", e.Message, strings.Join(parts, "; "))
}

// Health calls GET /api/v1/health
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var out models.HealthResponse
	if err := c.get(ctx, "/api/v1/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Providers calls GET /api/v1/catalog/providers
func (c *Client) Providers(ctx context.Context) ([]models.Provider, error) {
	var out []models.Provider
	if err := c.get(ctx, "/api/v1/catalog/providers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Regions calls GET /api/v1/catalog/regions
func (c *Client) Regions(ctx context.Context, cloud string) ([]models.Region, error) {
	var out []models.Region
	if err := c.get(ctx, "/api/v1/catalog/regions", url.Values{"cloud": {cloud}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Instances calls GET /api/v1/catalog/instances. An empty region returns
// default prices.
func (c *Client) Instances(ctx context.Context, cloud, region string) ([]models.InstanceSummary, error) {
	q := url.Values{"cloud": {cloud}}
	if region != "" {
		q.Set("region", region)
	}
	var out []models.InstanceSummary
	if err := c.get(ctx, "/api/v1/catalog/instances", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Analyze calls POST /api/v1/analyze
func (c *Client) Analyze(ctx context.Context, input models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	var out models.AnalyzeResponse
	if err := c.post(ctx, "/api/v1/analyze", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(ctx, req, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, req, out)
}

func (c *Client) do(ctx context.Context, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled")
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	return &APIError{Status: resp.StatusCode, Message: errResp.Error, Fields: errResp.Fields}
}
