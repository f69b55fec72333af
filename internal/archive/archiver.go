// Package archive copies downloaded spreadsheets to an S3-compatible bucket
// so every published version is kept after the local file is overwritten.
package archive

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vvka-141/taxlien/internal/checksum"
	"github.com/vvka-141/taxlien/pkg/taxlien"
)

// Config holds the bucket settings. Credentials come from the default AWS chain.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional; set for MinIO or another S3-compatible store
	Prefix    string
	PathStyle bool
}

// Archiver uploads files under <prefix>/<UTC date>/<run id>/<file name>.
type Archiver struct {
	client *s3.Client
	bucket string
	prefix string
	runID  string
	now    func() time.Time
}

// New creates an Archiver from cfg using the default credential chain.
func New(ctx context.Context, cfg Config, runID string) (*Archiver, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg, runID), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *s3.Client, cfg Config, runID string) *Archiver {
	return &Archiver{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		runID:  runID,
		now:    time.Now,
	}
}

// Key returns the object key for a file name.
func (a *Archiver) Key(name string) string {
	parts := []string{a.now().UTC().Format("2006-01-02"), a.runID, name}
	if a.prefix != "" {
		parts = append([]string{a.prefix}, parts...)
	}
	return path.Join(parts...)
}

// Archive uploads the file at filePath and returns its object key. sum is
// the file's hex SHA-256 and is only recomputed when empty.
func (a *Archiver) Archive(ctx context.Context, filePath, sum string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", filePath, err)
	}
	defer f.Close()

	if sum == "" {
		if sum, err = checksum.File(filePath); err != nil {
			return "", err
		}
	}

	name := filepath.Base(filePath)
	key := a.Key(name)
	input := &s3.PutObjectInput{
		Bucket:   &a.bucket,
		Key:      &key,
		Body:     f,
		Metadata: map[string]string{"run-id": a.runID, "source-file": name, "sha256": sum},
	}
	if ct := contentType(name); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := a.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", a.bucket, key, err)
	}
	return key, nil
}

func contentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xls":
		return "application/vnd.ms-excel"
	default:
		return ""
	}
}

// Verify Archiver implements the taxlien.Archiver interface at compile time
var _ taxlien.Archiver = (*Archiver)(nil)
