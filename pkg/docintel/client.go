// Package docintel provides a client for the external document-analysis
// service that converts spreadsheet binaries into structured tables and
// key-value pairs. The engine itself never parses spreadsheet formats.
package docintel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/esg-cli/internal/model"
	"github.com/sells-group/esg-cli/internal/resilience"
)

// validExtensions lists the spreadsheet formats the service accepts.
var validExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".xlsm": true,
}

// Client defines the document-analysis operations.
type Client interface {
	// Analyze submits a spreadsheet binary and returns the structured
	// extraction result.
	Analyze(ctx context.Context, filename string, content []byte) (*model.AnalysisResult, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithMaxFileSizeMB overrides the upload size cap.
func WithMaxFileSizeMB(mb int) Option {
	return func(c *httpClient) {
		c.maxFileSizeMB = mb
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithRetry overrides the retry configuration.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	endpoint      string
	apiKey        string
	maxFileSizeMB int
	http          *http.Client
	limiter       *rate.Limiter
	retry         resilience.RetryConfig
}

// NewClient creates a document-analysis client. Auth is a plain API key
// header; credential flows against cloud identity providers are the
// deployment's concern, not this client's.
func NewClient(endpoint, apiKey string, opts ...Option) Client {
	c := &httpClient{
		endpoint:      strings.TrimRight(endpoint, "/"),
		apiKey:        apiKey,
		maxFileSizeMB: 50,
		http:          &http.Client{Timeout: 5 * time.Minute},
		limiter:       rate.NewLimiter(rate.Limit(2), 1),
		retry:         resilience.DefaultRetryConfig("docintel"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze validates the input, then submits it with retry on transient
// failures.
func (c *httpClient) Analyze(ctx context.Context, filename string, content []byte) (*model.AnalysisResult, error) {
	if err := c.validate(filename, content); err != nil {
		return nil, err
	}

	return resilience.Do(ctx, c.retry, func(ctx context.Context) (*model.AnalysisResult, error) {
		return c.analyzeOnce(ctx, filename, content)
	})
}

func (c *httpClient) validate(filename string, content []byte) error {
	sizeMB := float64(len(content)) / (1024 * 1024)
	if sizeMB > float64(c.maxFileSizeMB) {
		return eris.Errorf("docintel: file size %.2fMB exceeds maximum %dMB", sizeMB, c.maxFileSizeMB)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !validExtensions[ext] {
		return eris.Errorf("docintel: unsupported file extension %q", ext)
	}

	return nil
}

func (c *httpClient) analyzeOnce(ctx context.Context, filename string, content []byte) (*model.AnalysisResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "docintel: rate limiter")
	}

	reqURL := fmt.Sprintf("%s/v1/analyze?filename=%s", c.endpoint, url.QueryEscape(filename))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(content))
	if err != nil {
		return nil, eris.Wrap(err, "docintel: build request")
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "docintel: analyze request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "docintel: read response")
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &resilience.TransientError{
			Err: eris.Errorf("docintel: status %d: %s", resp.StatusCode, truncate(body, 200)),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("docintel: status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "docintel: decode response")
	}
	if result.Filename == "" {
		result.Filename = filename
	}

	return &result, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
