package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/haskel/adcfox/internal/estimator"
)

// Client is an HTTP client for the adcfox API
type Client struct {
	baseURL  string
	client   *http.Client
	user     string
	password string
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status int
	Code   string `json:"code"`
	Msg    string `json:"error"`
	Hint   string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned status %d: %s", e.Status, e.Msg)
	}
	return e.Msg
}

// NewClient creates a new API client
func NewClient() *Client {
	return &Client{
		baseURL: GetServerURL(),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		user:     user,
		password: password,
	}
}

// Get performs a GET request
func (c *Client) Get(path string) ([]byte, int, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}

	return c.do(req)
}

// Post performs a POST request with JSON body
func (c *Client) Post(path string, body any) ([]byte, int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, 0, err
		}
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	if c.user != "" && c.password != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	return data, resp.StatusCode, nil
}

// Health checks if server is running
func (c *Client) Health() error {
	_, status, err := c.Get("/health")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("server returned status %d", status)
	}
	return nil
}

// Supported calls a probe endpoint ("energy" or "area").
func (c *Client) Supported(kind string, q estimator.Query) (estimator.Accuracy, error) {
	var resp struct {
		Accuracy estimator.Accuracy `json:"accuracy"`
	}
	if err := c.postJSON("/v1/"+kind+"/supported", q, &resp); err != nil {
		return 0, err
	}
	return resp.Accuracy, nil
}

// Estimate calls a value endpoint ("energy" or "area").
func (c *Client) Estimate(kind string, q estimator.Query) (estimator.Estimation, error) {
	var est estimator.Estimation
	err := c.postJSON("/v1/"+kind, q, &est)
	return est, err
}

func (c *Client) postJSON(path string, body, out any) error {
	data, status, err := c.Post(path, body)
	if err != nil {
		return err
	}

	if status != http.StatusOK {
		apiErr := &APIError{Status: status}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Msg == "" {
			apiErr.Msg = string(bytes.TrimSpace(data))
		}
		return apiErr
	}

	return json.Unmarshal(data, out)
}
