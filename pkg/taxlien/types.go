package taxlien

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// FetchConfig contains all parameters needed to locate and download the spreadsheet.
type FetchConfig struct {
	// PageURL is the page scraped for a spreadsheet link.
	PageURL string

	// BaseURL resolves relative hrefs. Defaults to the scheme and host of PageURL.
	BaseURL string

	// OutputDir receives the downloaded file. Created if absent.
	OutputDir string

	// UserAgent is sent with both requests.
	UserAgent string

	// HTTPTimeout bounds each request. Zero disables the client timeout.
	HTTPTimeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the FetchConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *FetchConfig) Validate() error {
	var errs []error

	if c.PageURL == "" {
		errs = append(errs, fmt.Errorf("PageURL is required: %w", ErrInvalidConfig))
	} else if u, err := url.Parse(c.PageURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("PageURL %q must be an absolute URL: %w", c.PageURL, ErrInvalidConfig))
	}

	if c.BaseURL != "" {
		if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("BaseURL %q must be an absolute URL: %w", c.BaseURL, ErrInvalidConfig))
		}
	}

	if c.OutputDir == "" {
		errs = append(errs, fmt.Errorf("OutputDir is required: %w", ErrInvalidConfig))
	}

	if c.HTTPTimeout < 0 {
		errs = append(errs, fmt.Errorf("HTTPTimeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// FetchResult reports the outcome of a fetch. Found is false when the page
// had no spreadsheet link; that is an expected outcome, not an error.
type FetchResult struct {
	Found bool
	URL   string
	Path  string
	Bytes int64

	// SHA256 is the hex digest of the downloaded bytes.
	SHA256 string

	// ArchiveKey is the object key the file was archived under, if archiving is enabled.
	ArchiveKey string
}

// LoadConfig contains all parameters needed for a load run.
type LoadConfig struct {
	// FilePath is the spreadsheet produced by a fetch.
	FilePath string

	// Connection is the resolved target database.
	Connection *ConnectionConfig

	// Timeout is the global timeout for the entire load
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.FilePath == "" {
		errs = append(errs, fmt.Errorf("FilePath is required: %w", ErrInvalidConfig))
	}

	if c.Connection == nil {
		errs = append(errs, fmt.Errorf("Connection is required: %w", ErrInvalidConfig))
	} else if c.Connection.Database == "" {
		errs = append(errs, fmt.Errorf("Connection.Database is required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// LoadSummary counts what a load run read and wrote.
type LoadSummary struct {
	RowsRead           int
	DuplicateWarrants  int
	UnparsedAmounts    int
	PlaceholderNames   int
	PropertiesOffered  int
	PropertiesInserted int
	LiensOffered       int
	LiensInserted      int
	UnresolvedAddress  int
	Duration           time.Duration
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// Client certificate paths for sslmode=verify-ca/verify-full
	SSLCert     string
	SSLKey      string
	SSLRootCert string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used (env vars, managed identity, CLI, etc.)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AuthMethodAWSIAM.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name (project:region:instance).
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// ParseAuthMethod maps a config-file spelling to an AuthMethod.
// The empty string means standard authentication.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch s {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam":
		return AuthMethodAWSIAM, nil
	case "google", "google-iam":
		return AuthMethodGoogleIAM, nil
	case "azure", "azure-entra-id":
		return AuthMethodAzureEntraID, nil
	default:
		return AuthMethodStandard, fmt.Errorf("auth method %q: %w", s, ErrUnsupportedAuthMethod)
	}
}
