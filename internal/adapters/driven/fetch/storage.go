package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/lydlabs/ragcli/internal/core/ports/driven"
)

// Ensure StorageAPI implements the interface.
var _ driven.FetchStrategy = (*StorageAPI)(nil)

// StorageAPI is the final fallback strategy: it parses the PDF URL
// into a bucket and object path and downloads through the storage
// backend's own API instead of plain HTTP.
type StorageAPI struct {
	store driven.ObjectStore
}

// NewStorageAPI creates the storage-API fetch strategy.
func NewStorageAPI(store driven.ObjectStore) *StorageAPI {
	return &StorageAPI{store: store}
}

// Name identifies the strategy in logs.
func (s *StorageAPI) Name() string {
	return "storage-api"
}

// Fetch parses the URL and downloads the object directly.
func (s *StorageAPI) Fetch(ctx context.Context, pdfURL string) ([]byte, error) {
	bucket, object, err := ParseStorageURL(pdfURL)
	if err != nil {
		return nil, err
	}
	return s.store.Download(ctx, bucket, object)
}

// ParseStorageURL extracts the bucket and object path from a storage
// URL of the form
// https://<host>/storage/v1/object/<visibility>/<bucket>/<path...>.
func ParseStorageURL(pdfURL string) (bucket, object string, err error) {
	u, err := url.Parse(pdfURL)
	if err != nil {
		return "", "", fmt.Errorf("parse storage URL: %w", err)
	}

	parts := strings.Split(u.Path, "/")
	objectIdx := -1
	for i, part := range parts {
		if part == "object" {
			objectIdx = i
			break
		}
	}

	// After "object" comes a visibility segment, then the bucket,
	// then the object path.
	if objectIdx == -1 || objectIdx+2 >= len(parts)-1 {
		return "", "", fmt.Errorf("storage URL %q has no bucket/object path", pdfURL)
	}

	bucket = parts[objectIdx+2]
	object = strings.Join(parts[objectIdx+3:], "/")
	if bucket == "" || object == "" {
		return "", "", fmt.Errorf("storage URL %q has no bucket/object path", pdfURL)
	}

	return bucket, object, nil
}
