// Package backend talks to a remote casereport server over its JSON API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"casereport/upload"
)

const defaultTimeout = 30 * time.Second

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL    string
	Token      string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient httpDoer
}

// HTTPClient implements upload.Store against a remote server.
type HTTPClient struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient httpDoer
}

var _ upload.Store = (*HTTPClient)(nil)

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsedBase, err := url.Parse(baseURL)
	if err != nil || parsedBase.Scheme == "" || parsedBase.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	doer := cfg.HTTPClient
	if doer == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		doer = &http.Client{Timeout: timeout}
	}

	return &HTTPClient{
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		httpClient: doer,
	}, nil
}

// APIError is a non-2xx response. A 404 unwraps to upload.ErrUploadNotFound.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request %s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return upload.ErrUploadNotFound
	}
	return nil
}

func (c *HTTPClient) CreateUpload(ctx context.Context, payload upload.Payload) (upload.Receipt, error) {
	var receipt upload.Receipt
	if err := c.doJSON(ctx, http.MethodPost, "/api/uploads", payload, &receipt); err != nil {
		return upload.Receipt{}, err
	}
	return receipt, nil
}

func (c *HTTPClient) ListUploads(ctx context.Context) ([]upload.UploadInfo, error) {
	uploads := make([]upload.UploadInfo, 0)
	if err := c.doJSON(ctx, http.MethodGet, "/api/uploads", nil, &uploads); err != nil {
		return nil, err
	}
	return uploads, nil
}

func (c *HTTPClient) Records(ctx context.Context, fileID string) (upload.Stored, error) {
	var stored upload.Stored
	path := "/api/uploads/" + url.PathEscape(fileID) + "/records"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &stored); err != nil {
		return upload.Stored{}, err
	}
	return stored, nil
}

func (c *HTTPClient) DeleteUpload(ctx context.Context, fileID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/uploads/"+url.PathEscape(fileID), nil, nil)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpointPath string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	url := c.baseURL + endpointPath
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request %s %s: %w", method, endpointPath, err)
	}

	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, endpointPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			Method:     method,
			Path:       endpointPath,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(responseBody)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response %s %s: %w", method, endpointPath, err)
	}
	return nil
}
