package gallery

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"pagefetch/pkg/config"
	"pagefetch/pkg/errors"
	"pagefetch/pkg/logger"
)

// Client fetches images from a gallery site whose URLs follow the
// base/prefix_N/M.ext pattern. One GET per image, no retries: a failed
// request is terminal for that single item.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	source     config.SourceConfig
	logger     logger.Logger
}

// NewClient creates a new gallery client with the configured timeout.
func NewClient(source config.SourceConfig, httpCfg config.HTTPConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: httpCfg.Timeout,
		},
		headers: map[string]string{
			"User-Agent": httpCfg.UserAgent,
			"Accept":     "image/avif,image/webp,image/apng,image/*,*/*;q=0.8",
		},
		source: source,
		logger: log,
	}
}

// SetHeader sets a custom header for the client.
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// doRequest performs an HTTP request with the configured headers.
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.WarnWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("network error: %v", err), 0)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a GET request to the specified URL.
func (c *Client) Get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeUnknown, fmt.Sprintf("failed to create request: %v", err), 0)
	}

	return c.doRequest(req)
}

// FetchImage downloads a single image and returns its bytes.
func (c *Client) FetchImage(url string) ([]byte, error) {
	resp, err := c.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.WarnWithFields("failed to read image body", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return nil, errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("failed to read image body: %v", err), resp.StatusCode)
	}

	c.logger.DebugWithFields("image fetched", map[string]interface{}{
		"url":  url,
		"size": len(data),
	})

	return data, nil
}

// checkResponseStatus maps non-2xx statuses to typed errors. Any 2xx
// response counts as success.
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.New(errors.ErrorTypeNotFound, "image not found", resp.StatusCode)
	case resp.StatusCode >= 500:
		return errors.New(errors.ErrorTypeServerError, "server error", resp.StatusCode)
	default:
		return errors.New(errors.ErrorTypeUnknown, fmt.Sprintf("unexpected status code: %d", resp.StatusCode), resp.StatusCode)
	}
}
