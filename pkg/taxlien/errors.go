package taxlien

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	summary, err := loader.Load(ctx, cfg)
//	if errors.Is(err, taxlien.ErrMalformedSpreadsheet) {
//	    // nothing was written
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrFetchFailed indicates the page or the spreadsheet could not be downloaded.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrUnsupportedFormat indicates the input file is not a recognized spreadsheet type.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

	// ErrMalformedSpreadsheet indicates the spreadsheet does not have the expected shape.
	ErrMalformedSpreadsheet = errors.New("malformed spreadsheet")

	// ErrLoadFailed indicates a storage statement failed during a load stage.
	ErrLoadFailed = errors.New("load failed")
)

// usageErrorPatterns are substrings of cobra/pflag errors caused by bad invocation.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
	"flag needs an argument",
	"missing required argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrFetchFailed):
		return ExitFetchFailed
	case errors.Is(err, ErrMalformedSpreadsheet), errors.Is(err, ErrUnsupportedFormat):
		return ExitMalformedSpreadsheet
	case errors.Is(err, ErrLoadFailed):
		return ExitLoadFailed
	}

	errStr := err.Error()
	for _, pattern := range usageErrorPatterns {
		if strings.Contains(errStr, pattern) {
			return ExitUsageError
		}
	}

	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
