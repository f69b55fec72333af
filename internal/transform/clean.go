package transform

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vvka-141/taxlien/pkg/taxlien"
)

// CleanStats counts what Clean changed or dropped.
type CleanStats struct {
	// PlaceholderNames is the number of rows whose missing business name was filled.
	PlaceholderNames int

	// UnparsedAmounts is the number of rows whose amount was missing or not a number.
	UnparsedAmounts int

	// DuplicateWarrants is the number of rows dropped as repeated warrant numbers.
	DuplicateWarrants int
}

// Clean normalizes raw rows in order: fill the business name placeholder, trim
// every text column, coerce the amount, then drop repeated warrant numbers
// keeping the first. Rows without a warrant number are all treated as sharing
// the same (null) number.
func Clean(raw []taxlien.RawRecord) ([]taxlien.Record, CleanStats) {
	var stats CleanStats
	records := make([]taxlien.Record, 0, len(raw))

	seen := make(map[string]struct{}, len(raw))
	seenNull := false

	for _, r := range raw {
		business := r.BusinessName
		if !business.Valid {
			business = pgtype.Text{String: taxlien.BusinessNamePlaceholder, Valid: true}
			stats.PlaceholderNames++
		}

		rec := taxlien.Record{
			Row:           r.Row,
			BusinessName:  trim(business),
			OwnerName:     trim(r.OwnerName),
			Address:       trim(r.Address),
			County:        trim(r.County),
			WarrantNumber: trim(r.WarrantNumber),
		}

		amount, ok := ParseAmount(trim(r.WarrantAmount))
		if !ok {
			stats.UnparsedAmounts++
		}
		rec.WarrantAmount = amount

		if rec.WarrantNumber.Valid {
			if _, dup := seen[rec.WarrantNumber.String]; dup {
				stats.DuplicateWarrants++
				continue
			}
			seen[rec.WarrantNumber.String] = struct{}{}
		} else {
			if seenNull {
				stats.DuplicateWarrants++
				continue
			}
			seenNull = true
		}

		records = append(records, rec)
	}
	return records, stats
}

func trim(t pgtype.Text) pgtype.Text {
	if !t.Valid {
		return t
	}
	return pgtype.Text{String: strings.TrimSpace(t.String), Valid: true}
}
