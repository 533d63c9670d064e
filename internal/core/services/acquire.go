package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lydlabs/ragcli/internal/core/domain"
	"github.com/lydlabs/ragcli/internal/core/ports/driven"
	"github.com/lydlabs/ragcli/internal/logger"
)

// AcquireService downloads a report's PDF and extracts clean text
// from it. Download strategies are tried in order until one returns
// data; a strategy failure is logged, not fatal.
type AcquireService struct {
	strategies []driven.FetchStrategy
	extractor  driven.TextExtractor
}

// NewAcquireService creates a new acquire service. Strategies are
// tried in the order given.
func NewAcquireService(extractor driven.TextExtractor, strategies ...driven.FetchStrategy) *AcquireService {
	return &AcquireService{
		strategies: strategies,
		extractor:  extractor,
	}
}

// Text fetches the report's PDF and returns its sanitised text.
func (s *AcquireService) Text(ctx context.Context, report domain.Report) (string, error) {
	data, err := s.fetch(ctx, report)
	if err != nil {
		return "", err
	}

	text, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return "", fmt.Errorf("extract text from %s: %w", report.ID, err)
	}

	text = domain.SanitiseText(text)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("report %s: %w", report.ID, domain.ErrExtractionEmpty)
	}

	return text, nil
}

// fetch tries each download strategy in order.
func (s *AcquireService) fetch(ctx context.Context, report domain.Report) ([]byte, error) {
	if report.PDFURL == "" {
		return nil, fmt.Errorf("report %s has no PDF URL: %w", report.ID, domain.ErrInvalidInput)
	}

	for _, strategy := range s.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := strategy.Fetch(ctx, report.PDFURL)
		if err != nil {
			logger.Debug("Strategy %s failed for %s: %v", strategy.Name(), report.ID, err)
			continue
		}
		if len(data) == 0 {
			logger.Debug("Strategy %s returned empty body for %s", strategy.Name(), report.ID)
			continue
		}

		logger.Debug("Strategy %s fetched %d bytes for %s", strategy.Name(), len(data), report.ID)
		return data, nil
	}

	return nil, fmt.Errorf("report %s: %w", report.ID, domain.ErrAcquisitionFailed)
}
