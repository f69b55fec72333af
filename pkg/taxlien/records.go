package taxlien

import "github.com/jackc/pgx/v5/pgtype"

// RawRecord is one spreadsheet row after positional column naming.
// Empty cells are null (Valid == false).
type RawRecord struct {
	// Row is the 1-based sheet row the record came from.
	Row int

	BusinessName  pgtype.Text
	OwnerName     pgtype.Text
	Address       pgtype.Text
	County        pgtype.Text
	WarrantNumber pgtype.Text
	WarrantAmount pgtype.Text
}

// Record is a cleaned row ready for load.
type Record struct {
	Row int

	BusinessName  pgtype.Text
	OwnerName     pgtype.Text
	Address       pgtype.Text
	County        pgtype.Text
	WarrantNumber pgtype.Text

	// WarrantAmount holds NaN when the source value could not be parsed.
	WarrantAmount pgtype.Numeric

	// PropertyID is null until resolved against the properties table.
	PropertyID pgtype.Int8
}

// Property is a row of the properties table. Identity is the address.
type Property struct {
	PropertyID   pgtype.Int8
	BusinessName pgtype.Text
	OwnerName    pgtype.Text
	Address      pgtype.Text
	County       pgtype.Text
	State        string
}

// TaxLien is a row of the tax_liens table, one per warrant.
type TaxLien struct {
	CertificateNumber pgtype.Text
	PropertyID        pgtype.Int8
	FaceAmount        pgtype.Numeric
}
