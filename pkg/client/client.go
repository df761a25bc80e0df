package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/saiharshith312004/performance-dashboard/internal/domain"
)

// Client is the API client for performance-dashboard
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetMetrics retrieves the health metrics for a repository. With refresh set,
// the server collects fresh activity first; days overrides the window length.
func (c *Client) GetMetrics(owner, repo string, refresh bool, days int) (*domain.MetricsSnapshot, error) {
	path := fmt.Sprintf("/api/v1/repos/%s/%s/metrics", owner, repo)
	params := url.Values{}
	if refresh {
		params.Set("refresh", "true")
	}
	if days > 0 {
		params.Set("days", strconv.Itoa(days))
	}

	var response struct {
		Data *domain.MetricsSnapshot `json:"data"`
	}
	if err := c.get(path, params, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// GetMetricsHistory retrieves stored metrics records for a repository, newest first
func (c *Client) GetMetricsHistory(owner, repo string, limit int) ([]*domain.MetricsSnapshot, error) {
	path := fmt.Sprintf("/api/v1/repos/%s/%s/metrics/history", owner, repo)
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var response struct {
		Data []*domain.MetricsSnapshot `json:"data"`
	}
	if err := c.get(path, params, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// Collect triggers a fresh collection for a repository and returns the computed metrics
func (c *Client) Collect(owner, repo string, days int) (*domain.MetricsSnapshot, error) {
	path := fmt.Sprintf("/api/v1/repos/%s/%s/collect", owner, repo)
	params := url.Values{}
	if days > 0 {
		params.Set("days", strconv.Itoa(days))
	}

	var response struct {
		Data *domain.MetricsSnapshot `json:"data"`
	}
	if err := c.post(path, params, nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// Recompute re-derives metrics from the latest stored snapshot
func (c *Client) Recompute(owner, repo string) (*domain.MetricsSnapshot, error) {
	path := fmt.Sprintf("/api/v1/repos/%s/%s/recompute", owner, repo)

	var response struct {
		Data *domain.MetricsSnapshot `json:"data"`
	}
	if err := c.post(path, nil, nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// Query answers a free-text question about a repository's metrics
func (c *Client) Query(owner, repo, question string) (string, error) {
	path := fmt.Sprintf("/api/v1/repos/%s/%s/query", owner, repo)
	payload := map[string]string{"question": question}

	var response struct {
		Data struct {
			Question string `json:"question"`
			Answer   string `json:"answer"`
		} `json:"data"`
	}
	if err := c.post(path, nil, payload, &response); err != nil {
		return "", err
	}
	return response.Data.Answer, nil
}

// HealthCheck checks if the API is healthy
func (c *Client) HealthCheck() error {
	var response struct {
		Status string `json:"status"`
	}
	if err := c.get("/health", nil, &response); err != nil {
		return err
	}
	if response.Status != "ok" {
		return fmt.Errorf("unhealthy status: %s", response.Status)
	}
	return nil
}

func (c *Client) get(path string, params url.Values, result interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	resp, err := c.httpClient.Get(u.String())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: %s - %s", resp.Status, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) post(path string, params url.Values, payload, result interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	resp, err := c.httpClient.Post(u.String(), "application/json", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: %s - %s", resp.Status, string(b))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}
