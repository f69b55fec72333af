package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/taxlien/internal/config"
	"github.com/vvka-141/taxlien/pkg/taxlien"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Password is not a CLI flag. Use $PGPASSWORD, ~/.pgpass, or a connection
// string with an embedded password.
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided.
// Database is excluded because it may override the database of a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// CloudFlags selects a cloud IAM authentication method from the CLI.
// At most one of AWS, Google and Azure may be set.
type CloudFlags struct {
	AWS       bool
	AWSRegion string

	Google         bool
	GoogleInstance string

	Azure         bool
	AzureTenantID string // Overrides AZURE_TENANT_ID
	AzureClientID string // Overrides AZURE_CLIENT_ID
}

func (c *CloudFlags) selected() int {
	n := 0
	for _, b := range []bool{c.AWS, c.Google, c.Azure} {
		if b {
			n++
		}
	}
	return n
}

// EnvVars represents the environment consulted during resolution.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	TAXLIEN_CONNECTION_STRING string
	DATABASE_URL              string // Heroku/Rails convention

	PGHOST     string
	PGPORT     string
	PGUSER     string
	PGPASSWORD string
	PGDATABASE string
	PGSSLMODE  string

	AWS_REGION string

	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
}

// LoadFromEnvironment reads EnvVars from the process environment.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		TAXLIEN_CONNECTION_STRING: os.Getenv("TAXLIEN_CONNECTION_STRING"),
		DATABASE_URL:              os.Getenv("DATABASE_URL"),
		PGHOST:                    os.Getenv("PGHOST"),
		PGPORT:                    os.Getenv("PGPORT"),
		PGUSER:                    os.Getenv("PGUSER"),
		PGPASSWORD:                os.Getenv("PGPASSWORD"),
		PGDATABASE:                os.Getenv("PGDATABASE"),
		PGSSLMODE:                 os.Getenv("PGSSLMODE"),
		AWS_REGION:                os.Getenv("AWS_REGION"),
		AZURE_TENANT_ID:           os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:           os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET:       os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

func (e *EnvVars) connectionString() string {
	if e.TAXLIEN_CONNECTION_STRING != "" {
		return e.TAXLIEN_CONNECTION_STRING
	}
	return e.DATABASE_URL
}

// ResolveConnectionParams resolves connection parameters using PostgreSQL-standard precedence:
//
//  1. Connection string flag (--connection)
//  2. TAXLIEN_CONNECTION_STRING, then DATABASE_URL, when no granular flags are given
//  3. Granular flags (-h, -p, -U, -d, --sslmode)
//  4. PG* environment variables
//  5. taxlien.yaml connection section
//  6. Defaults (localhost:5432/postgres, prefer SSL)
//
// The authentication method comes from the cloud flags, then from the
// auth_method key in taxlien.yaml, and is standard otherwise.
//
// Returns an error if both --connection and granular flags are provided,
// or if more than one cloud method is requested.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	cloudFlags *CloudFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*taxlien.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if cloudFlags == nil {
		cloudFlags = &CloudFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}
	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U)\n"+
				"Choose one approach:\n"+
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/liens\"\n"+
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d liens\n"+
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser: %w",
			taxlien.ErrInvalidConfig,
		)
	}
	if cloudFlags.selected() > 1 {
		return nil, fmt.Errorf("only one of --aws, --google, --azure may be given: %w", taxlien.ErrInvalidConfig)
	}

	var cfg *taxlien.ConnectionConfig
	var err error

	switch {
	case connStringFlag != "":
		cfg, err = resolveFromConnectionString(connStringFlag, granularFlags, envVars)
	case granularFlags.IsEmpty() && envVars.connectionString() != "":
		cfg, err = resolveFromConnectionString(envVars.connectionString(), granularFlags, envVars)
	default:
		cfg, err = resolveFromGranularParams(granularFlags, envVars, pc)
	}
	if err != nil {
		return nil, err
	}

	if err := applyAuthMethod(cfg, cloudFlags, envVars, pc); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyAuthMethod attaches cloud credentials. Flags take precedence over
// environment variables, which take precedence over taxlien.yaml.
func applyAuthMethod(cfg *taxlien.ConnectionConfig, flags *CloudFlags, env *EnvVars, pc config.ConnectionConfig) error {
	method := taxlien.AuthMethodStandard
	switch {
	case flags.AWS:
		method = taxlien.AuthMethodAWSIAM
	case flags.Google:
		method = taxlien.AuthMethodGoogleIAM
	case flags.Azure:
		method = taxlien.AuthMethodAzureEntraID
	default:
		parsed, err := taxlien.ParseAuthMethod(pc.AuthMethod)
		if err != nil {
			return fmt.Errorf("connection.auth_method in %s: %w", config.ConfigFileName, err)
		}
		method = parsed
	}
	cfg.AuthMethod = method

	switch method {
	case taxlien.AuthMethodAWSIAM:
		cfg.AWSRegion = firstNonEmpty(flags.AWSRegion, env.AWS_REGION, pc.AWSRegion)
	case taxlien.AuthMethodGoogleIAM:
		cfg.GoogleInstance = firstNonEmpty(flags.GoogleInstance, pc.GoogleInstance)
	case taxlien.AuthMethodAzureEntraID:
		cfg.AzureTenantID = firstNonEmpty(flags.AzureTenantID, env.AZURE_TENANT_ID, pc.AzureTenantID)
		cfg.AzureClientID = firstNonEmpty(flags.AzureClientID, env.AZURE_CLIENT_ID, pc.AzureClientID)
		// The secret only comes from the environment.
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	}
	return nil
}

// resolveFromConnectionString parses a connection string. The -d flag may
// override its database, and PGSSLMODE fills in a missing sslmode.
func resolveFromConnectionString(connStr string, flags *GranularConnFlags, envVars *EnvVars) (*taxlien.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	if flags.Database != "" {
		cfg.Database = flags.Database
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = firstNonEmpty(envVars.PGSSLMODE, "prefer")
	}
	return cfg, nil
}

// resolveFromGranularParams builds ConnectionConfig from granular flags,
// environment variables and taxlien.yaml, in that order of precedence.
func resolveFromGranularParams(flags *GranularConnFlags, envVars *EnvVars, pc config.ConnectionConfig) (*taxlien.ConnectionConfig, error) {
	cfg := &taxlien.ConnectionConfig{
		AuthMethod:       taxlien.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
		SSLCert:          pc.SSLCert,
		SSLKey:           pc.SSLKey,
		SSLRootCert:      pc.SSLRootCert,
	}

	cfg.Host = firstNonEmpty(flags.Host, envVars.PGHOST, pc.Host, "localhost")

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case envVars.PGPORT != "":
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer: %w", envVars.PGPORT, taxlien.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = 5432
	}

	// Username falls back to the current OS user, like libpq.
	cfg.Username = firstNonEmpty(flags.Username, envVars.PGUSER, pc.Username, os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Password = envVars.PGPASSWORD
	cfg.Database = firstNonEmpty(flags.Database, envVars.PGDATABASE, pc.Database, taxlien.DefaultDatabase)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, envVars.PGSSLMODE, pc.SSLMode, "prefer")

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
