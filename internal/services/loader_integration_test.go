package services_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vvka-141/taxlien/internal/db"
	"github.com/vvka-141/taxlien/internal/logging"
	"github.com/vvka-141/taxlien/internal/services"
	"github.com/vvka-141/taxlien/internal/sheet"
	"github.com/vvka-141/taxlien/internal/store"
	testhelpers "github.com/vvka-141/taxlien/internal/testing"
	"github.com/vvka-141/taxlien/pkg/taxlien"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheetName, "A1", "Delinquent Taxpayer Warrants"))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheetName, cell, &r))
	}
	path := filepath.Join(t.TempDir(), "warrants.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func newService() *services.LoadService {
	logger := logging.NewNullLogger()
	return services.NewLoadService(
		sheet.Read,
		func(ctx context.Context, cfg *taxlien.ConnectionConfig) (taxlien.ConnPool, error) {
			return db.Open(ctx, cfg, logger)
		},
		func(q taxlien.Querier) taxlien.Repository { return store.New(q) },
		logger,
	)
}

func TestLoad_EndToEnd(t *testing.T) {
	connConfig := testhelpers.NewTestDatabase(t)
	path := writeWorkbook(t, [][]any{
		{"Business Name", "Owner Name", "Address", "County", "Warrant Number", "Warrant Amount"},
		{"Acme LLC", "Jane Roe", " 123 Main St ", "Leon", "W-1", 1234.5},
		{nil, "John Doe", "9 Oak Ave", "Duval", "W-2", "1,000.00"},
		{"Acme LLC", "Jane Roe", "123 Main St", "Leon", "W-3", 10},
		{"Other", "Someone", "77 Pine", "Leon", "W-1", 5},
	})
	cfg := &taxlien.LoadConfig{FilePath: path, Connection: connConfig}
	svc := newService()

	summary, err := svc.Load(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.RowsRead)
	assert.Equal(t, 1, summary.DuplicateWarrants)
	assert.Equal(t, 2, summary.PropertiesInserted)
	assert.Equal(t, 3, summary.LiensInserted)
	assert.Zero(t, summary.UnresolvedAddress)

	pool := testhelpers.GetTestPool(t, connConfig)
	ctx := context.Background()

	var nanCount int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT count(*) FROM tax_liens WHERE face_amount = 'NaN'::numeric`).Scan(&nanCount))
	assert.Equal(t, 1, nanCount)

	var shared int
	require.NoError(t, pool.QueryRow(ctx, `
		SELECT count(DISTINCT l.property_id)
		FROM tax_liens l JOIN properties p USING (property_id)
		WHERE p.address = '123 Main St'`).Scan(&shared))
	assert.Equal(t, 1, shared, "W-1 and W-3 point at the same property")

	var business string
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT business_name FROM properties WHERE address = '9 Oak Ave'`).Scan(&business))
	assert.Equal(t, taxlien.BusinessNamePlaceholder, business)

	again, err := svc.Load(context.Background(), cfg)
	require.NoError(t, err)
	assert.Zero(t, again.PropertiesInserted)
	assert.Zero(t, again.LiensInserted)

	counts, err := store.New(pool).Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Counts{Properties: 2, TaxLiens: 3}, counts)
}
