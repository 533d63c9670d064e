package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/lydlabs/ragcli/internal/core/domain"
	"github.com/lydlabs/ragcli/internal/core/ports/driven"
)

// Ensure Catalog implements the interface.
var _ driven.ReportCatalog = (*Catalog)(nil)

// Catalog reads the report catalogue through the PostgREST API,
// newest reports first.
type Catalog struct {
	client  *http.Client
	baseURL string
	key     string
	table   string
}

// NewCatalog creates a catalogue adapter.
func NewCatalog(cfg Config) (*Catalog, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase: URL is required")
	}
	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("supabase: service key is required")
	}
	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}

	return &Catalog{
		client:  newHTTPClient(cfg),
		baseURL: strings.TrimRight(cfg.URL, "/"),
		key:     cfg.ServiceKey,
		table:   table,
	}, nil
}

// List returns up to limit reports starting at offset, ordered by
// creation time descending.
func (c *Catalog) List(ctx context.Context, offset, limit int) ([]domain.Report, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, c.table, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("supabase: create list request: %w", err)
	}
	authorise(req, c.key)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase: list reports: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("supabase: read list response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("supabase: list reports (status %d): %s", resp.StatusCode, string(body))
	}

	var reports []domain.Report
	if err := json.Unmarshal(body, &reports); err != nil {
		return nil, fmt.Errorf("supabase: decode reports: %w", err)
	}

	return reports, nil
}

// Count returns the total number of catalogued reports, using an
// exact count request that fetches no rows.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?select=id&limit=1", c.baseURL, c.table)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("supabase: create count request: %w", err)
	}
	authorise(req, c.key)
	req.Header.Set("Range", "0-0")
	req.Header.Set("Prefer", "count=exact")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("supabase: count reports: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return 0, fmt.Errorf("supabase: count reports (status %d)", resp.StatusCode)
	}

	// Content-Range is "<from>-<to>/<total>" or "*/<total>".
	contentRange := resp.Header.Get("Content-Range")
	slash := strings.LastIndex(contentRange, "/")
	if slash < 0 {
		return 0, fmt.Errorf("supabase: missing count in Content-Range %q", contentRange)
	}

	total, err := strconv.Atoi(contentRange[slash+1:])
	if err != nil {
		return 0, fmt.Errorf("supabase: parse count from Content-Range %q: %w", contentRange, err)
	}

	return total, nil
}
