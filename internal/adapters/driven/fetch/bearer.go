package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/lydlabs/ragcli/internal/core/ports/driven"
)

// Ensure Bearer implements the interface.
var _ driven.FetchStrategy = (*Bearer)(nil)

// Bearer fetches the PDF URL with a bearer token. It is the second
// strategy in the chain, for PDFs behind authenticated access.
type Bearer struct {
	client *http.Client
}

// NewBearer creates the authenticated fetch strategy. The token is
// attached to every request through an oauth2 static token source.
func NewBearer(token string, timeout time.Duration) *Bearer {
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := oauth2.NewClient(context.Background(), src)
	client.Timeout = timeout

	return &Bearer{client: client}
}

// Name identifies the strategy in logs.
func (b *Bearer) Name() string {
	return "bearer"
}

// Fetch downloads the PDF at the given URL with the configured token.
func (b *Bearer) Fetch(ctx context.Context, pdfURL string) ([]byte, error) {
	data, err := get(ctx, b.client, pdfURL)
	if err != nil {
		return nil, fmt.Errorf("authenticated %w", err)
	}
	return data, nil
}
