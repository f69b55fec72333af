package services

import (
	"context"
	"fmt"

	"github.com/vvka-141/taxlien/pkg/taxlien"
)

// FetchService downloads the spreadsheet and, when an archiver is set, keeps
// a copy of it in object storage.
type FetchService struct {
	fetcher  taxlien.Fetcher
	archiver taxlien.Archiver
	logger   taxlien.Logger
}

// NewFetchService creates a FetchService. archiver may be nil to disable archiving.
//
// Panics if fetcher or logger is nil.
func NewFetchService(fetcher taxlien.Fetcher, archiver taxlien.Archiver, logger taxlien.Logger) *FetchService {
	if fetcher == nil {
		panic("fetcher cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &FetchService{fetcher: fetcher, archiver: archiver, logger: logger}
}

// Fetch downloads the spreadsheet. A page without a spreadsheet link is
// reported through the logger and returns Found=false with no error.
func (s *FetchService) Fetch(ctx context.Context) (taxlien.FetchResult, error) {
	result, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return result, err
	}
	if !result.Found {
		s.logger.Info("No spreadsheet link found on the page.")
		return result, nil
	}
	s.logger.Info("✓ Spreadsheet downloaded successfully: %s (%d bytes)", result.Path, result.Bytes)

	if s.archiver == nil {
		return result, nil
	}
	key, err := s.archiver.Archive(ctx, result.Path, result.SHA256)
	if err != nil {
		return result, fmt.Errorf("archive %s: %w", result.Path, err)
	}
	result.ArchiveKey = key
	s.logger.Info("✓ Archived as %s", key)
	return result, nil
}

// Verify FetchService implements the Fetcher interface at compile time
var _ taxlien.Fetcher = (*FetchService)(nil)
