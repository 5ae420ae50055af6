// Package forward implements the opaque pass-through to the consortium's
// join-form webhook.
package forward

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const requestTimeout = 30 * time.Second

// Forwarder POSTs a request body to a configured webhook URL and hands the
// upstream response back verbatim.
type Forwarder struct {
	url    string
	client *http.Client
}

func New(url string) *Forwarder {
	return &Forwarder{
		url:    url,
		client: &http.Client{Timeout: requestTimeout},
	}
}

// Configured reports whether a target URL is set.
func (f *Forwarder) Configured() bool {
	return f.url != ""
}

// Forward posts the body upstream and returns the upstream status code and
// raw response body.
func (f *Forwarder) Forward(ctx context.Context, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("build forward request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("forward request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read forward response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}
