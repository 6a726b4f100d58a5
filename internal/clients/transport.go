package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/common/config"
)

const maxErrorBody = 512

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TransportError reports a failed request or a non-200 response
type TransportError struct {
	URL        string
	StatusCode int
	// Body holds at most the first 512 bytes of a non-200 response
	Body string
	Err  error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("Cloudflare responded with a %d status code: %s", e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewHTTPClient creates the client used to talk to the Cloudflare API.
// A zero timeout leaves the request without a deadline.
func NewHTTPClient(disableSecurityCheck bool, timeout time.Duration) (*http.Client, error) {
	clientConfig := config.DefaultHTTPClientConfig
	clientConfig.TLSConfig = config.TLSConfig{
		InsecureSkipVerify: disableSecurityCheck,
	}

	if err := clientConfig.Validate(); err != nil {
		return nil, err
	}

	client, err := config.NewClientFromConfig(clientConfig, "cloudflare-log-client")
	if err != nil {
		return nil, err
	}
	client.Timeout = timeout

	return client, nil
}

// Fetch issues a GET for opts and returns the response when the status is
// 200. The caller owns the returned body. The Accept-Encoding header is set
// explicitly, so the body is handed back exactly as sent.
func Fetch(ctx context.Context, client Doer, opts RequestOptions) (*http.Response, error) {
	if client == nil {
		return nil, &ConfigurationError{Component: "http client"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, &TransportError{URL: opts.URL, Err: err}
	}
	req.Header = opts.Headers.Clone()

	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: opts.URL, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &TransportError{URL: opts.URL, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return resp, nil
}
