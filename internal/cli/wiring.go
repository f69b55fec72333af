package cli

import (
	"context"
	"fmt"

	"github.com/vvka-141/taxlien/internal/archive"
	"github.com/vvka-141/taxlien/internal/config"
	"github.com/vvka-141/taxlien/internal/db"
	"github.com/vvka-141/taxlien/internal/fetch"
	"github.com/vvka-141/taxlien/internal/services"
	"github.com/vvka-141/taxlien/internal/sheet"
	"github.com/vvka-141/taxlien/internal/store"
	"github.com/vvka-141/taxlien/pkg/taxlien"
)

// newFetchService wires the HTTP fetcher and, when configured, the S3 archiver.
func newFetchService(ctx context.Context, fetchConfig *taxlien.FetchConfig, projectCfg *config.ProjectConfig, runID string, logger taxlien.Logger) (*services.FetchService, error) {
	fetcher, err := fetch.New(fetchConfig, logger)
	if err != nil {
		return nil, err
	}

	var archiver taxlien.Archiver
	if archCfg, ok := archiveConfig(projectCfg); ok {
		a, err := archive.New(ctx, archCfg, runID)
		if err != nil {
			return nil, fmt.Errorf("archive: %w: %w", taxlien.ErrInvalidConfig, err)
		}
		logger.Verbose("Archiving to s3://%s/%s", archCfg.Bucket, a.Key("<file>"))
		archiver = a
	}

	return services.NewFetchService(fetcher, archiver, logger), nil
}

// newLoadService wires the spreadsheet reader, the pgx pool and the store.
func newLoadService(logger taxlien.Logger) taxlien.Loader {
	return services.NewLoadService(
		sheet.Read,
		poolOpener(logger),
		func(q taxlien.Querier) taxlien.Repository { return store.New(q) },
		logger,
	)
}

func poolOpener(logger taxlien.Logger) taxlien.PoolOpener {
	return func(ctx context.Context, connConfig *taxlien.ConnectionConfig) (taxlien.ConnPool, error) {
		pool, err := db.Open(ctx, connConfig, logger)
		if err != nil {
			return nil, err
		}
		return pool, nil
	}
}
