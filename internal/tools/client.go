package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBytes caps how much of an upstream body is read into memory.
const maxResponseBytes = 5 * 1024 * 1024 // 5MB

// NewHTTPClient creates the HTTP client shared by every HTTP-backed tool
// group. The timeout applies per request; redirects are limited to 3.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}
}

// readBody drains a response body up to maxResponseBytes and returns it as a
// string. The caller still owns closing the body.
func readBody(resp *http.Response) (string, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// doJSON issues a request with an optional JSON payload. A nil payload sends
// an empty body without a Content-Type header.
func doJSON(ctx context.Context, client *http.Client, method, rawURL string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return client.Do(req)
}

func is2xx(code int) bool {
	return code >= 200 && code < 300
}
