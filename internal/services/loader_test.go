package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/taxlien/internal/logging"
	"github.com/vvka-141/taxlien/pkg/taxlien"
)

var sprintf = fmt.Sprintf

func text(s string) pgtype.Text { return pgtype.Text{String: s, Valid: true} }

func sampleRows() []taxlien.RawRecord {
	return []taxlien.RawRecord{
		{Row: 3, OwnerName: text("Jane Doe"), Address: text(" 123 Main St "), County: text("Dade"), WarrantNumber: text("W-1"), WarrantAmount: text("1,234.56")},
		{Row: 4, BusinessName: text("Shop"), OwnerName: text("Ann"), Address: text("9 Elm"), County: text("Dade"), WarrantNumber: text("W-9"), WarrantAmount: text("50")},
		{Row: 5, BusinessName: text("Shop 2"), OwnerName: text("Bob"), Address: text("10 Elm"), County: text("Dade"), WarrantNumber: text("W-9"), WarrantAmount: text("60")},
		{Row: 6, BusinessName: text("Shop 3"), OwnerName: text("Cy"), Address: text("9 Elm"), County: text("Dade"), WarrantNumber: text("W-10"), WarrantAmount: text("70")},
	}
}

type harness struct {
	pool    *fakePool
	repo    *fakeRepository
	logger  *recordingLogger
	service *LoadService
	opened  int
}

func newHarness(rows []taxlien.RawRecord, readErr error) *harness {
	h := &harness{pool: &fakePool{}, repo: newFakeRepository(), logger: &recordingLogger{}}
	h.service = NewLoadService(
		func(string) ([]taxlien.RawRecord, error) { return rows, readErr },
		func(context.Context, *taxlien.ConnectionConfig) (taxlien.ConnPool, error) {
			h.opened++
			return h.pool, nil
		},
		func(taxlien.Querier) taxlien.Repository { return h.repo },
		h.logger,
	)
	return h
}

func loadConfig() *taxlien.LoadConfig {
	return &taxlien.LoadConfig{
		FilePath:   "data/warrants.xlsx",
		Connection: &taxlien.ConnectionConfig{Database: "liens"},
	}
}

func TestLoad_FullRun(t *testing.T) {
	h := newHarness(sampleRows(), nil)

	summary, err := h.service.Load(context.Background(), loadConfig())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.RowsRead)
	assert.Equal(t, 1, summary.DuplicateWarrants)
	assert.Equal(t, 1, summary.UnparsedAmounts)
	assert.Equal(t, 1, summary.PlaceholderNames)
	assert.Equal(t, 2, summary.PropertiesOffered)
	assert.Equal(t, 2, summary.PropertiesInserted)
	assert.Equal(t, 3, summary.LiensOffered)
	assert.Equal(t, 3, summary.LiensInserted)
	assert.Zero(t, summary.UnresolvedAddress)

	assert.Equal(t, []string{"123 Main St", "9 Elm"}, h.repo.order)
	assert.Equal(t, []string{"schema", "property", "property", "keys", "lien", "lien", "lien"}, h.repo.calls)

	w9 := h.repo.liens["W-9"]
	assert.Equal(t, h.repo.properties["9 Elm"], w9.PropertyID.Int64, "the first W-9 row wins")
	assert.True(t, h.repo.liens["W-1"].FaceAmount.NaN)

	assert.Equal(t, 4, h.pool.acquired, "one connection per database stage")
	assert.Equal(t, 4, h.pool.released)
	assert.Equal(t, 1, h.pool.maxOpen, "stages never overlap")
	assert.True(t, h.pool.closed)

	last := h.logger.info[len(h.logger.info)-1]
	assert.True(t, strings.HasPrefix(last, CompletionMessage), "got %q", last)
}

func TestLoad_RerunInsertsNothing(t *testing.T) {
	h := newHarness(sampleRows(), nil)
	_, err := h.service.Load(context.Background(), loadConfig())
	require.NoError(t, err)

	summary, err := h.service.Load(context.Background(), loadConfig())
	require.NoError(t, err)
	assert.Zero(t, summary.PropertiesInserted)
	assert.Zero(t, summary.LiensInserted)
	assert.Len(t, h.repo.properties, 2)
	assert.Len(t, h.repo.liens, 3)
}

func TestLoad_ParseFailureTouchesNoDatabase(t *testing.T) {
	h := newHarness(nil, fmt.Errorf("bad shape: %w", taxlien.ErrMalformedSpreadsheet))

	_, err := h.service.Load(context.Background(), loadConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, taxlien.ErrMalformedSpreadsheet))
	assert.Zero(t, h.opened)
	assert.Empty(t, h.repo.calls)
}

func TestLoad_ConnectFailure(t *testing.T) {
	h := newHarness(sampleRows(), nil)
	h.service.openPool = func(context.Context, *taxlien.ConnectionConfig) (taxlien.ConnPool, error) {
		return nil, errors.New("dial tcp: connection refused")
	}

	_, err := h.service.Load(context.Background(), loadConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, taxlien.ErrConnectionFailed))
	assert.Equal(t, taxlien.ExitConnectionError, taxlien.ExitCodeForError(err))
}

func TestLoad_AcquireFailure(t *testing.T) {
	h := newHarness(sampleRows(), nil)
	h.pool.acquireErr = errors.New("pool closed")

	_, err := h.service.Load(context.Background(), loadConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, taxlien.ErrConnectionFailed))
	assert.Contains(t, err.Error(), "schema")
	assert.True(t, h.pool.closed)
}

func TestLoad_SchemaFailure(t *testing.T) {
	h := newHarness(sampleRows(), nil)
	h.repo.failSchema = errInjected

	_, err := h.service.Load(context.Background(), loadConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, taxlien.ErrLoadFailed))
	assert.True(t, errors.Is(err, errInjected))
	assert.Equal(t, []string{"schema"}, h.repo.calls)
	assert.Equal(t, h.pool.acquired, h.pool.released)
}

func TestLoad_PropertyFailureKeepsEarlierInserts(t *testing.T) {
	h := newHarness(sampleRows(), nil)
	h.repo.failPropertyAt = 2

	summary, err := h.service.Load(context.Background(), loadConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, taxlien.ErrLoadFailed))
	assert.Contains(t, err.Error(), "properties")
	assert.Equal(t, taxlien.ExitLoadFailed, taxlien.ExitCodeForError(err))

	assert.Equal(t, 1, summary.PropertiesInserted)
	assert.Len(t, h.repo.properties, 1, "first insert stays, no compensation")
	assert.Empty(t, h.repo.liens, "later stages do not run")
	assert.Equal(t, h.pool.acquired, h.pool.released)
}

func TestLoad_LienFailureKeepsProperties(t *testing.T) {
	h := newHarness(sampleRows(), nil)
	h.repo.failLienAt = 2

	summary, err := h.service.Load(context.Background(), loadConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "liens")
	assert.Equal(t, 1, summary.LiensInserted)
	assert.Len(t, h.repo.properties, 2)
	assert.Len(t, h.repo.liens, 1)
}

func TestLoad_UnresolvedAddressLeavesNullKey(t *testing.T) {
	h := newHarness(sampleRows(), nil)
	h.repo.dropKeyOfAddress = "123 Main St"

	summary, err := h.service.Load(context.Background(), loadConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.UnresolvedAddress)
	assert.False(t, h.repo.liens["W-1"].PropertyID.Valid)
}

func TestLoad_InvalidConfig(t *testing.T) {
	h := newHarness(sampleRows(), nil)

	_, err := h.service.Load(context.Background(), &taxlien.LoadConfig{})
	assert.True(t, errors.Is(err, taxlien.ErrInvalidConfig))
	assert.Zero(t, h.opened)
}

func TestNewLoadService_PanicsOnNil(t *testing.T) {
	read := func(string) ([]taxlien.RawRecord, error) { return nil, nil }
	open := func(context.Context, *taxlien.ConnectionConfig) (taxlien.ConnPool, error) { return nil, nil }
	repo := func(taxlien.Querier) taxlien.Repository { return nil }
	logger := logging.NewNullLogger()

	assert.Panics(t, func() { NewLoadService(nil, open, repo, logger) })
	assert.Panics(t, func() { NewLoadService(read, nil, repo, logger) })
	assert.Panics(t, func() { NewLoadService(read, open, nil, logger) })
	assert.Panics(t, func() { NewLoadService(read, open, repo, nil) })
}
