package taxlien

import "context"

// Fetcher locates and downloads the published spreadsheet.
type Fetcher interface {
	// Fetch returns Found=false, with no error, when the page links no spreadsheet.
	Fetch(ctx context.Context) (FetchResult, error)
}

// Archiver keeps a copy of a downloaded file and returns where it was stored.
// sha256 is the hex digest already computed for the file; when empty the
// archiver hashes the file itself.
type Archiver interface {
	Archive(ctx context.Context, path, sha256 string) (key string, err error)
}

// Loader parses, cleans and loads one spreadsheet file.
type Loader interface {
	Load(ctx context.Context, config *LoadConfig) (LoadSummary, error)
}

// SheetReader decodes a spreadsheet file into raw rows.
type SheetReader func(path string) ([]RawRecord, error)

// PoolOpener connects to the database described by config.
type PoolOpener func(ctx context.Context, config *ConnectionConfig) (ConnPool, error)

// Repository is the storage used by the load stages. Each implementation is
// bound to one scoped connection.
type Repository interface {
	EnsureSchema(ctx context.Context) error
	InsertProperty(ctx context.Context, p Property) (inserted bool, err error)
	PropertyKeys(ctx context.Context) (map[string]int64, error)
	InsertTaxLien(ctx context.Context, l TaxLien) (inserted bool, err error)
}

// RepositoryFactory binds a Repository to an acquired connection.
type RepositoryFactory func(q Querier) Repository
