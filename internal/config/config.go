package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	SSLCert        string `yaml:"sslcert,omitempty"`
	SSLKey         string `yaml:"sslkey,omitempty"`
	SSLRootCert    string `yaml:"sslrootcert,omitempty"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// SourceConfig describes where the warrant spreadsheet is published
// and where the downloaded copy is written.
type SourceConfig struct {
	PageURL     string `yaml:"page_url,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	OutputDir   string `yaml:"output_dir,omitempty"`
	UserAgent   string `yaml:"user_agent,omitempty"`
	HTTPTimeout string `yaml:"http_timeout,omitempty"`
}

// ArchiveConfig enables S3 archival of downloaded spreadsheets when S3Bucket is set.
type ArchiveConfig struct {
	S3Bucket    string `yaml:"s3_bucket,omitempty"`
	S3Region    string `yaml:"s3_region,omitempty"`
	S3Endpoint  string `yaml:"s3_endpoint,omitempty"`
	S3Prefix    string `yaml:"s3_prefix,omitempty"`
	S3PathStyle bool   `yaml:"s3_path_style,omitempty"`
}

// Enabled reports whether an archive bucket is configured.
func (a ArchiveConfig) Enabled() bool {
	return a.S3Bucket != ""
}

type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Source     SourceConfig     `yaml:"source"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Timeout    string           `yaml:"timeout"`
}

// RunTimeout parses Timeout. Zero means unset.
func (c *ProjectConfig) RunTimeout() (time.Duration, error) {
	return parseDuration("timeout", c.Timeout)
}

// HTTPTimeout parses Source.HTTPTimeout. Zero means unset.
func (c *ProjectConfig) HTTPTimeout() (time.Duration, error) {
	return parseDuration("source.http_timeout", c.Source.HTTPTimeout)
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q in %s: %w", field, value, ConfigFileName, err)
	}
	return d, nil
}

const ConfigFileName = "taxlien.yaml"

// Load reads ConfigFileName from dir.
func Load(dir string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads a config file from an explicit path.
func LoadFile(configPath string) (*ProjectConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	return &cfg, nil
}
