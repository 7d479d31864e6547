package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"storecheck/pkg/errors"
)

const (
	// DefaultHTTPTimeout bounds one store request when the caller gives no client
	DefaultHTTPTimeout = 10 * time.Second

	// maxBodySize caps how much of a store page is read
	maxBodySize = 8 << 20

	userAgent = "storecheck"
)

// NewHTTPClient returns the pooled client used by the HTTP providers
func NewHTTPClient(timeout time.Duration) *http.Client {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = timeout
	return client
}

var (
	sharedClientOnce sync.Once
	sharedHTTPClient *http.Client
)

// sharedClient is used by providers whose Client is nil
func sharedClient() *http.Client {
	sharedClientOnce.Do(func() {
		sharedHTTPClient = NewHTTPClient(DefaultHTTPTimeout)
	})
	return sharedHTTPClient
}

// fetch performs a single GET and returns the body. Network failures and non-2xx
// statuses are transport errors.
func fetch(ctx context.Context, client *http.Client, url string, accept string) ([]byte, error) {
	if client == nil {
		client = sharedClient()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewTransportError("failed to build request", err).WithContext("url", url)
	}
	req.Header.Set("User-Agent", userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.NewTransportError("request failed", err).WithContext("url", url)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.NewTransportError("failed to read response", err).WithContext("url", url)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewTransportError(fmt.Sprintf("store returned status %d", resp.StatusCode), nil).
			WithContext("url", url).
			WithContext("status", resp.StatusCode)
	}

	return body, nil
}
