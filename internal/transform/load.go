package transform

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vvka-141/taxlien/pkg/taxlien"
)

// DistinctProperties returns one property per address, taken from the first
// record with that address. Records without an address share one entry, which
// the store will reject since address is NOT NULL.
func DistinctProperties(records []taxlien.Record) []taxlien.Property {
	seen := make(map[string]struct{}, len(records))
	seenNull := false
	props := make([]taxlien.Property, 0, len(records))

	for _, r := range records {
		if r.Address.Valid {
			if _, ok := seen[r.Address.String]; ok {
				continue
			}
			seen[r.Address.String] = struct{}{}
		} else {
			if seenNull {
				continue
			}
			seenNull = true
		}
		props = append(props, taxlien.Property{
			BusinessName: r.BusinessName,
			OwnerName:    r.OwnerName,
			Address:      r.Address,
			County:       r.County,
			State:        taxlien.DefaultState,
		})
	}
	return props
}

// AttachPropertyIDs left-joins keys onto records by address. Records whose
// address has no key keep a null PropertyID. The input slice is not modified.
func AttachPropertyIDs(records []taxlien.Record, keys map[string]int64) ([]taxlien.Record, int) {
	out := make([]taxlien.Record, len(records))
	unresolved := 0
	for i, r := range records {
		r.PropertyID = pgtype.Int8{}
		if r.Address.Valid {
			if id, ok := keys[r.Address.String]; ok {
				r.PropertyID = pgtype.Int8{Int64: id, Valid: true}
			}
		}
		if !r.PropertyID.Valid {
			unresolved++
		}
		out[i] = r
	}
	return out, unresolved
}

// TaxLiens maps records to lien rows: the warrant number becomes the
// certificate number and the warrant amount the face amount.
func TaxLiens(records []taxlien.Record) []taxlien.TaxLien {
	liens := make([]taxlien.TaxLien, 0, len(records))
	for _, r := range records {
		liens = append(liens, taxlien.TaxLien{
			CertificateNumber: r.WarrantNumber,
			PropertyID:        r.PropertyID,
			FaceAmount:        r.WarrantAmount,
		})
	}
	return liens
}
