package archive

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/taxlien/internal/checksum"
)

type putRecord struct {
	path        string
	body        []byte
	contentType string
	runID       string
	sha256      string
}

// recordingRoundTripper accepts PUT requests and remembers them.
type recordingRoundTripper struct {
	mu     sync.Mutex
	puts   []putRecord
	status int
}

func (m *recordingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != 0 {
		return &http.Response{
			StatusCode: m.status,
			Body:       io.NopCloser(strings.NewReader(`<?xml version="1.0"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`)),
			Header:     http.Header{"Content-Type": {"application/xml"}},
			Request:    req,
		}, nil
	}
	if req.Method == http.MethodPut {
		m.puts = append(m.puts, putRecord{
			path:        req.URL.Path,
			body:        body,
			contentType: req.Header.Get("Content-Type"),
			runID:       req.Header.Get("X-Amz-Meta-Run-Id"),
			sha256:      req.Header.Get("X-Amz-Meta-Sha256"),
		})
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Header:     http.Header{"ETag": {`"etag123"`}},
		Request:    req,
	}, nil
}

func newTestArchiver(t *testing.T, rt http.RoundTripper, prefix string) *Archiver {
	t.Helper()
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
	})
	a := NewWithClient(client, Config{Bucket: "warrants", Prefix: prefix}, "0f8fad5b-d9cb-469f-a165-70867728950e")
	a.now = func() time.Time { return time.Date(2026, 3, 4, 23, 30, 0, 0, time.FixedZone("EST", -5*3600)) }
	return a
}

func TestArchiver_Key(t *testing.T) {
	a := newTestArchiver(t, &recordingRoundTripper{}, "/florida/")
	assert.Equal(t, "florida/2026-03-05/0f8fad5b-d9cb-469f-a165-70867728950e/list.xlsx", a.Key("list.xlsx"))

	a.prefix = ""
	assert.Equal(t, "2026-03-05/0f8fad5b-d9cb-469f-a165-70867728950e/list.xlsx", a.Key("list.xlsx"))
}

func TestArchiver_Archive(t *testing.T) {
	rt := &recordingRoundTripper{}
	a := newTestArchiver(t, rt, "florida")

	filePath := filepath.Join(t.TempDir(), "Delinquent.xlsx")
	require.NoError(t, os.WriteFile(filePath, []byte("spreadsheet bytes"), 0o644))

	key, err := a.Archive(context.Background(), filePath, "")
	require.NoError(t, err)
	assert.Equal(t, "florida/2026-03-05/0f8fad5b-d9cb-469f-a165-70867728950e/Delinquent.xlsx", key)

	require.Len(t, rt.puts, 1)
	put := rt.puts[0]
	assert.Equal(t, "/warrants/"+key, put.path)
	assert.Contains(t, string(put.body), "spreadsheet bytes")
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", put.contentType)
	assert.Equal(t, "0f8fad5b-d9cb-469f-a165-70867728950e", put.runID)
	assert.Equal(t, checksum.Bytes([]byte("spreadsheet bytes")), put.sha256)
}

func TestArchiver_UsesKnownDigest(t *testing.T) {
	rt := &recordingRoundTripper{}
	a := newTestArchiver(t, rt, "")

	filePath := filepath.Join(t.TempDir(), "list.xls")
	require.NoError(t, os.WriteFile(filePath, []byte("spreadsheet bytes"), 0o644))

	// A digest that does not match the bytes shows the file was not rehashed.
	_, err := a.Archive(context.Background(), filePath, "feedface")
	require.NoError(t, err)

	require.Len(t, rt.puts, 1)
	assert.Equal(t, "feedface", rt.puts[0].sha256)
	assert.Equal(t, "application/vnd.ms-excel", rt.puts[0].contentType)
}

func TestArchiver_MissingFile(t *testing.T) {
	a := newTestArchiver(t, &recordingRoundTripper{}, "")
	_, err := a.Archive(context.Background(), filepath.Join(t.TempDir(), "nope.xls"), "")
	assert.Error(t, err)
}

func TestArchiver_PutFailure(t *testing.T) {
	a := newTestArchiver(t, &recordingRoundTripper{status: http.StatusForbidden}, "")

	filePath := filepath.Join(t.TempDir(), "list.xls")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0o644))

	_, err := a.Archive(context.Background(), filePath, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "put s3://warrants/")
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{}, "run")
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/vnd.ms-excel", contentType("a.XLS"))
	assert.Empty(t, contentType("a.csv"))
}
