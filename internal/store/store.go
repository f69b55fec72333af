package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/taxlien/pkg/taxlien"
)

// Store runs repository statements on a single scoped connection.
type Store struct {
	q taxlien.Querier
}

// New returns a Store bound to q. Panics if q is nil.
func New(q taxlien.Querier) *Store {
	if q == nil {
		panic("querier cannot be nil")
	}
	return &Store{q: q}
}

// EnsureSchema creates both tables and the address constraint if absent,
// in one transaction.
func (s *Store) EnsureSchema(ctx context.Context) error {
	tx, err := s.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, stmt := range []struct {
		name string
		sql  string
	}{
		{"create properties", createProperties},
		{"add " + AddressConstraint, addAddressConstraint},
		{"create tax_liens", createTaxLiens},
	} {
		if _, err := tx.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("%s: %w", stmt.name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// InsertProperty inserts p unless its address already exists. It reports
// whether a row was written.
func (s *Store) InsertProperty(ctx context.Context, p taxlien.Property) (bool, error) {
	tag, err := s.q.Exec(ctx, insertProperty, p.BusinessName, p.OwnerName, p.Address, p.County, p.State)
	if err != nil {
		return false, fmt.Errorf("insert property %q: %w", p.Address.String, err)
	}
	return tag.RowsAffected() == 1, nil
}

// PropertyKeys reads every property id keyed by address.
func (s *Store) PropertyKeys(ctx context.Context) (map[string]int64, error) {
	rows, err := s.q.Query(ctx, selectPropertyKeys)
	if err != nil {
		return nil, fmt.Errorf("select property keys: %w", err)
	}

	keys := make(map[string]int64)
	var (
		id      int64
		address string
	)
	_, err = pgx.ForEachRow(rows, []any{&id, &address}, func() error {
		keys[address] = id
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read property keys: %w", err)
	}
	return keys, nil
}

// InsertTaxLien inserts l unless its certificate number already exists. It
// reports whether a row was written.
func (s *Store) InsertTaxLien(ctx context.Context, l taxlien.TaxLien) (bool, error) {
	tag, err := s.q.Exec(ctx, insertTaxLien, l.CertificateNumber, l.PropertyID, l.FaceAmount)
	if err != nil {
		return false, fmt.Errorf("insert tax lien %q: %w", l.CertificateNumber.String, err)
	}
	return tag.RowsAffected() == 1, nil
}

// Counts is the number of rows in each table.
type Counts struct {
	Properties int64
	TaxLiens   int64
}

// Counts returns the current row counts of both tables.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	if err := s.q.QueryRow(ctx, countRows).Scan(&c.Properties, &c.TaxLiens); err != nil {
		return Counts{}, fmt.Errorf("count rows: %w", err)
	}
	return c, nil
}
