package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vvka-141/taxlien/internal/transform"
	"github.com/vvka-141/taxlien/pkg/taxlien"
)

// CompletionMessage is printed after a load finishes every stage.
const CompletionMessage = "ETL completed successfully"

// LoadService runs the load stages in order: parse, clean, connect, schema,
// properties, resolve, liens. Every database stage acquires its own connection
// and releases it when the stage returns. A failed stage stops the run without
// undoing what earlier stages wrote.
type LoadService struct {
	readSheet     taxlien.SheetReader
	openPool      taxlien.PoolOpener
	newRepository taxlien.RepositoryFactory
	logger        taxlien.Logger
}

// NewLoadService creates a LoadService with all dependencies injected.
//
// Panics if any dependency is nil.
func NewLoadService(
	readSheet taxlien.SheetReader,
	openPool taxlien.PoolOpener,
	newRepository taxlien.RepositoryFactory,
	logger taxlien.Logger,
) *LoadService {
	if readSheet == nil {
		panic("readSheet cannot be nil")
	}
	if openPool == nil {
		panic("openPool cannot be nil")
	}
	if newRepository == nil {
		panic("newRepository cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &LoadService{
		readSheet:     readSheet,
		openPool:      openPool,
		newRepository: newRepository,
		logger:        logger,
	}
}

// Load runs a full load of config.FilePath.
func (s *LoadService) Load(ctx context.Context, config *taxlien.LoadConfig) (taxlien.LoadSummary, error) {
	started := time.Now()
	var summary taxlien.LoadSummary

	if err := config.Validate(); err != nil {
		return summary, err
	}
	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	s.logger.Verbose("Reading %s", config.FilePath)
	raw, err := s.readSheet(config.FilePath)
	if err != nil {
		return summary, fmt.Errorf("parse: %w", err)
	}
	summary.RowsRead = len(raw)
	s.logger.Info("✓ Read %d rows from %s", len(raw), config.FilePath)

	records, stats := transform.Clean(raw)
	summary.DuplicateWarrants = stats.DuplicateWarrants
	summary.UnparsedAmounts = stats.UnparsedAmounts
	summary.PlaceholderNames = stats.PlaceholderNames
	s.logger.Verbose("Cleaned %d records (%d duplicate warrants dropped, %d unparsed amounts, %d placeholder names)",
		len(records), stats.DuplicateWarrants, stats.UnparsedAmounts, stats.PlaceholderNames)

	s.logger.Verbose("Connecting to database '%s'", config.Connection.Database)
	pool, err := s.openPool(ctx, config.Connection)
	if err != nil {
		return summary, fmt.Errorf("connect to database %q: %w: %w", config.Connection.Database, taxlien.ErrConnectionFailed, err)
	}
	defer pool.Close()

	err = s.stage(ctx, pool, "schema", func(repo taxlien.Repository) error {
		return repo.EnsureSchema(ctx)
	})
	if err != nil {
		return summary, err
	}
	s.logger.Info("✓ Schema ready")

	properties := transform.DistinctProperties(records)
	summary.PropertiesOffered = len(properties)
	err = s.stage(ctx, pool, "properties", func(repo taxlien.Repository) error {
		for _, p := range properties {
			inserted, err := repo.InsertProperty(ctx, p)
			if err != nil {
				return err
			}
			if inserted {
				summary.PropertiesInserted++
			}
		}
		return nil
	})
	if err != nil {
		return summary, err
	}
	s.logger.Info("✓ Loaded properties: %d new of %d distinct addresses", summary.PropertiesInserted, summary.PropertiesOffered)

	var keys map[string]int64
	err = s.stage(ctx, pool, "resolve", func(repo taxlien.Repository) error {
		var err error
		keys, err = repo.PropertyKeys(ctx)
		return err
	})
	if err != nil {
		return summary, err
	}
	records, summary.UnresolvedAddress = transform.AttachPropertyIDs(records, keys)
	if summary.UnresolvedAddress > 0 {
		s.logger.Verbose("%d records have no matching property; their liens get a null property_id", summary.UnresolvedAddress)
	}

	liens := transform.TaxLiens(records)
	summary.LiensOffered = len(liens)
	err = s.stage(ctx, pool, "liens", func(repo taxlien.Repository) error {
		for _, l := range liens {
			inserted, err := repo.InsertTaxLien(ctx, l)
			if err != nil {
				return err
			}
			if inserted {
				summary.LiensInserted++
			}
		}
		return nil
	})
	if err != nil {
		return summary, err
	}
	s.logger.Info("✓ Loaded tax liens: %d new of %d warrants", summary.LiensInserted, summary.LiensOffered)

	summary.Duration = time.Since(started)
	s.logger.Info("%s in %v", CompletionMessage, summary.Duration.Round(time.Millisecond))
	return summary, nil
}

// stage runs fn against a repository bound to a freshly acquired connection.
// The connection is released before stage returns, also on failure.
func (s *LoadService) stage(ctx context.Context, pool taxlien.ConnPool, name string, fn func(taxlien.Repository) error) error {
	s.logger.Verbose("Stage %s: acquiring connection", name)
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%s: acquire connection: %w: %w", name, taxlien.ErrConnectionFailed, err)
	}
	defer conn.Release()

	if err := fn(s.newRepository(conn)); err != nil {
		return fmt.Errorf("%s: %w: %w", name, taxlien.ErrLoadFailed, err)
	}
	return nil
}

// Verify LoadService implements the Loader interface at compile time
var _ taxlien.Loader = (*LoadService)(nil)
