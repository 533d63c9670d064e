// Package fetch implements the ordered PDF download strategies.
// Each strategy is independent; the acquire service tries them in
// sequence until one succeeds.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lydlabs/ragcli/internal/core/ports/driven"
)

// DefaultTimeout bounds a single download attempt.
const DefaultTimeout = 60 * time.Second

// Ensure Direct implements the interface.
var _ driven.FetchStrategy = (*Direct)(nil)

// Direct fetches the PDF URL without authentication. It is the first
// strategy in the chain; most catalogue PDFs are publicly readable.
type Direct struct {
	client *http.Client
}

// NewDirect creates the unauthenticated fetch strategy.
func NewDirect(timeout time.Duration) *Direct {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Direct{client: &http.Client{Timeout: timeout}}
}

// Name identifies the strategy in logs.
func (d *Direct) Name() string {
	return "direct"
}

// Fetch downloads the PDF at the given URL.
func (d *Direct) Fetch(ctx context.Context, pdfURL string) ([]byte, error) {
	return get(ctx, d.client, pdfURL)
}

// get performs a GET request with the given client and returns the
// body of a 200 response. Authenticated strategies inject their
// credentials through the client's transport.
func get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d %s", url, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return data, nil
}
