package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/taxlien/internal/config"
	"github.com/vvka-141/taxlien/pkg/taxlien"
)

func clearConnectionEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"TAXLIEN_CONNECTION_STRING", "DATABASE_URL",
		"PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE", "PGSSLMODE",
		"AWS_REGION", "AZURE_TENANT_ID", "AZURE_CLIENT_ID", "AZURE_CLIENT_SECRET",
	} {
		t.Setenv(v, "")
	}
}

const testRunID = "0f8e2a7c-1111-2222-3333-444455556666"

func TestResolveConnection_DatabaseFlagOverridesConnectionString(t *testing.T) {
	clearConnectionEnv(t)

	cfg, err := resolveConnection(connectionFlags{
		connection: "postgresql://etl@db.internal:6543/postgres",
		database:   "liens",
	}, nil, testRunID)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "liens", cfg.Database)
	assert.Equal(t, "taxlien-0f8e2a7c", cfg.AppName)
}

func TestResolveConnection_KeepsApplicationNameFromConnectionString(t *testing.T) {
	clearConnectionEnv(t)

	cfg, err := resolveConnection(connectionFlags{
		connection: "postgresql://etl@localhost/liens?application_name=nightly",
	}, nil, testRunID)
	require.NoError(t, err)
	assert.Equal(t, "nightly", cfg.AppName)
}

func TestResolveConnection_GranularFromYAML(t *testing.T) {
	clearConnectionEnv(t)
	projectCfg := &config.ProjectConfig{Connection: config.ConnectionConfig{
		Host:     "yaml-host",
		Username: "yaml-user",
		Database: "yaml-db",
	}}

	cfg, err := resolveConnection(connectionFlags{host: "flag-host"}, projectCfg, testRunID)
	require.NoError(t, err)
	assert.Equal(t, "flag-host", cfg.Host)
	assert.Equal(t, "yaml-user", cfg.Username)
	assert.Equal(t, "yaml-db", cfg.Database)
	assert.Equal(t, taxlien.AuthMethodStandard, cfg.AuthMethod)
}

func TestResolveConnection_Conflicts(t *testing.T) {
	clearConnectionEnv(t)

	_, err := resolveConnection(connectionFlags{connection: "postgresql://localhost/liens", host: "other"}, nil, testRunID)
	assert.True(t, errors.Is(err, taxlien.ErrInvalidConfig))

	_, err = resolveConnection(connectionFlags{aws: true, azure: true}, nil, testRunID)
	assert.True(t, errors.Is(err, taxlien.ErrInvalidConfig))
	assert.Equal(t, taxlien.ExitConfigError, taxlien.ExitCodeForError(err))
}

func TestResolveConnection_AWS(t *testing.T) {
	clearConnectionEnv(t)
	t.Setenv("AWS_REGION", "us-east-2")

	cfg, err := resolveConnection(connectionFlags{aws: true, host: "db.rds.amazonaws.com", username: "etl"}, nil, testRunID)
	require.NoError(t, err)
	assert.Equal(t, taxlien.AuthMethodAWSIAM, cfg.AuthMethod)
	assert.Equal(t, "us-east-2", cfg.AWSRegion)
}
