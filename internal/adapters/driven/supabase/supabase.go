// Package supabase provides REST adapters for the Supabase-hosted
// report catalogue and its object storage.
package supabase

import (
	"net/http"
	"time"
)

// Default configuration values.
const (
	DefaultTable   = "reports_lyd"
	DefaultTimeout = 30 * time.Second
)

// Config holds connection settings shared by the catalogue and
// storage adapters.
type Config struct {
	// URL is the project base URL (https://<ref>.supabase.co).
	URL string

	// ServiceKey is the service-role API key.
	ServiceKey string

	// Table is the catalogue table name (default: reports_lyd).
	Table string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// newHTTPClient builds the shared HTTP client for an adapter.
func newHTTPClient(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// authorise sets the headers every Supabase REST call requires.
func authorise(req *http.Request, serviceKey string) {
	req.Header.Set("apikey", serviceKey)
	req.Header.Set("Authorization", "Bearer "+serviceKey)
}
