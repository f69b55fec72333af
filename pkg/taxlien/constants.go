package taxlien

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess              = 0  // Run completed (also when no spreadsheet link was found)
	ExitGeneralError         = 1  // Unknown or unclassified error
	ExitUsageError           = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic                = 3  // Internal panic (unexpected crash)
	ExitConfigError          = 10 // Invalid configuration
	ExitConnectionError      = 11 // Failed to connect to database
	ExitLoadFailed           = 13 // SQL execution failed during a load stage
	ExitFetchFailed          = 15 // Page or document download failed
	ExitMalformedSpreadsheet = 16 // Spreadsheet shape does not match the expected layout
)

// Source defaults. The page lists the delinquent taxpayer warrants published
// by the Florida Department of Revenue.
const (
	DefaultPageURL   = "https://floridarevenue.com/taxes/compliance/Pages/delinquent_taxpayer.aspx"
	DefaultOutputDir = "data"
	DefaultUserAgent = "taxlien/1.0 (+https://github.com/vvka-141/taxlien)"

	DefaultHTTPTimeout = 60 * time.Second
	DefaultRunTimeout  = 10 * time.Minute
)

// SpreadsheetExtensions are the href suffixes recognized as downloadable spreadsheets.
var SpreadsheetExtensions = []string{".xls", ".xlsx"}

// Spreadsheet layout.
const (
	// HeaderRowOffset is the zero-based index of the header row. The first
	// row of the published sheet is a title banner.
	HeaderRowOffset = 1

	// ColumnCount is the exact number of columns the sheet must have.
	ColumnCount = 6
)

// Cleaning and load constants.
const (
	// BusinessNamePlaceholder replaces a missing business name.
	BusinessNamePlaceholder = "N/A"

	// DefaultState is attached to every property row.
	DefaultState = "FL"
)

const (
	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of connection retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultDatabase is the database used when none is given.
	DefaultDatabase = "postgres"
)
