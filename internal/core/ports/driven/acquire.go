package driven

import "context"

// FetchStrategy is one way of obtaining a report PDF. Strategies are
// tried in a configured order until one succeeds; each failure is
// logged with the strategy's name and the chain as a whole fails only
// when every strategy has failed.
type FetchStrategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Fetch downloads the PDF at the given URL and returns its bytes.
	Fetch(ctx context.Context, pdfURL string) ([]byte, error)
}

// ObjectStore downloads objects through a storage backend's API,
// bypassing the public URL. It backs the final fetch strategy, which
// parses the PDF URL into a bucket and object path first.
type ObjectStore interface {
	// Download fetches the object at path from bucket.
	Download(ctx context.Context, bucket, path string) ([]byte, error)
}

// TextExtractor parses downloaded PDF bytes into raw text.
// Extraction that yields only whitespace is reported by the caller as
// domain.ErrExtractionEmpty, distinct from a download failure.
type TextExtractor interface {
	// Extract returns the plain text of the PDF.
	Extract(ctx context.Context, data []byte) (string, error)
}
