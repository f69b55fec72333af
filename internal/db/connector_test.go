package db

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/taxlien/pkg/taxlien"
)

func TestWrapConnectionError(t *testing.T) {
	tests := []struct {
		name         string
		errMsg       string
		wantContains []string
	}{
		{"refused", "dial tcp 127.0.0.1:5432: connect: connection refused", []string{"connection refused to db:5432", "pg_isready -h db -p 5432"}},
		{"unknown host", "lookup db: no such host", []string{`cannot resolve host "db"`}},
		{"bad password", `FATAL: password authentication failed for user "etl"`, []string{`password authentication failed for database "liens"`, "PGPASSWORD"}},
		{"missing database", `FATAL: database "liens" does not exist`, []string{`database "liens" does not exist`, "createdb liens"}},
		{"timeout", "i/o timeout", []string{"connection timed out to db:5432"}},
		{"tls", "tls: handshake failure", []string{"SSL/TLS connection error"}},
		{"other", "something odd", []string{"failed to connect to database"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := errors.New(tt.errMsg)
			err := wrapConnectionError(orig, "db", 5432, "liens")

			for _, want := range tt.wantContains {
				assert.Contains(t, err.Error(), want)
			}
			assert.True(t, errors.Is(err, orig), "original error must stay in the chain")
		})
	}
}

func TestNewConnector_Standard(t *testing.T) {
	connector, err := NewConnector(&taxlien.ConnectionConfig{AuthMethod: taxlien.AuthMethodStandard})
	require.NoError(t, err)
	assert.IsType(t, &StandardConnector{}, connector)
}

func TestNewConnector_Google(t *testing.T) {
	connector, err := NewConnector(&taxlien.ConnectionConfig{
		AuthMethod:     taxlien.AuthMethodGoogleIAM,
		Username:       "etl@project.iam",
		Database:       "liens",
		GoogleInstance: "project:region:instance",
	})
	require.NoError(t, err)
	_, ok := connector.(*GoogleCloudSQLConnector)
	assert.True(t, ok)
}

func TestNewConnector_AWS(t *testing.T) {
	connector, err := NewConnector(&taxlien.ConnectionConfig{
		AuthMethod: taxlien.AuthMethodAWSIAM,
		Host:       "liens.cluster.us-east-1.rds.amazonaws.com",
		Port:       5432,
		Username:   "etl",
		AWSRegion:  "us-east-1",
	})
	require.NoError(t, err)
	assert.IsType(t, &TokenBasedConnector{}, connector)
}

func TestNewConnector_InvalidConfigs(t *testing.T) {
	tests := []struct {
		name    string
		config  *taxlien.ConnectionConfig
		wantErr error
	}{
		{"unknown method", &taxlien.ConnectionConfig{AuthMethod: taxlien.AuthMethod(99)}, taxlien.ErrUnsupportedAuthMethod},
		{"google without instance", &taxlien.ConnectionConfig{AuthMethod: taxlien.AuthMethodGoogleIAM, Username: "u"}, taxlien.ErrInvalidConfig},
		{"google without user", &taxlien.ConnectionConfig{AuthMethod: taxlien.AuthMethodGoogleIAM, GoogleInstance: "p:r:i"}, taxlien.ErrInvalidConfig},
		{"aws without region", &taxlien.ConnectionConfig{AuthMethod: taxlien.AuthMethodAWSIAM, Host: "h", Port: 5432, Username: "u"}, taxlien.ErrInvalidConfig},
		{"aws without user", &taxlien.ConnectionConfig{AuthMethod: taxlien.AuthMethodAWSIAM, Host: "h", Port: 5432, AWSRegion: "r"}, taxlien.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConnector(tt.config)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestGoogleDSN(t *testing.T) {
	dsn := googleDSN(&taxlien.ConnectionConfig{Username: "etl", Database: "liens", AppName: "taxlien run"}, "p:r:i")
	assert.Equal(t, "host=p:r:i user=etl dbname=liens sslmode=disable application_name='taxlien run'", dsn)
}

func TestGoogleCloudSQLConnector_CloseWithoutConnect(t *testing.T) {
	c := NewGoogleCloudSQLConnector(&taxlien.ConnectionConfig{}, "p:r:i")
	assert.NoError(t, c.Close())
}

type fakeTokenProvider struct {
	err error
}

func (f fakeTokenProvider) GetToken(context.Context) (string, time.Time, error) {
	return "", time.Time{}, f.err
}

func (f fakeTokenProvider) String() string { return "fake" }

func TestTokenBasedConnector_TokenFailureIsNotRetried(t *testing.T) {
	tokenErr := fmt.Errorf("credentials expired")
	provider := fakeTokenProvider{err: tokenErr}
	connector := NewTokenBasedConnector(&taxlien.ConnectionConfig{}, provider, "Test")

	_, err := connector.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, tokenErr))
	assert.Contains(t, err.Error(), "failed to acquire Test token")
}
