package providers

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent is sent to endpoints that serve browsers.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// httpDoer is the subset of *http.Client the adapters need.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func clientOrDefault(c *http.Client) httpDoer {
	if c == nil {
		return http.DefaultClient
	}
	return c
}

func timeoutOrDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// fetch executes req and returns the status code and body. Transport
// failures are wrapped with provider.
func fetch(client httpDoer, provider string, req *http.Request) (int, []byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s request: %w", provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%s read body: %w", provider, err)
	}
	return resp.StatusCode, body, nil
}
