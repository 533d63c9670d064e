package supabase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lydlabs/ragcli/internal/core/ports/driven"
)

// Ensure Storage implements the interface.
var _ driven.ObjectStore = (*Storage)(nil)

// Storage downloads objects through the Supabase storage API using
// the service-role key, bypassing public URL access rules.
type Storage struct {
	client  *http.Client
	baseURL string
	key     string
}

// NewStorage creates a storage adapter.
func NewStorage(cfg Config) (*Storage, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase: URL is required")
	}
	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("supabase: service key is required")
	}

	return &Storage{
		client:  newHTTPClient(cfg),
		baseURL: strings.TrimRight(cfg.URL, "/"),
		key:     cfg.ServiceKey,
	}, nil
}

// Download fetches the object at path from bucket.
func (s *Storage) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("supabase: create download request: %w", err)
	}
	authorise(req, s.key)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase: download %s/%s: %w", bucket, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("supabase: download %s/%s (status %d)", bucket, path, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("supabase: read object body: %w", err)
	}

	return data, nil
}
