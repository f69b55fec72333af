package sheet

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vvka-141/taxlien/pkg/taxlien"
)

// grid is a decoded sheet: rows of cell text, with "" for empty cells.
// Rows may have different lengths.
type grid [][]string

// decoder reads the first sheet of a workbook file.
type decoder func(path string) (grid, error)

var decoders = map[string]decoder{
	".xlsx": readXLSX,
	".xls":  readXLS,
}

// Read decodes the spreadsheet at path into raw records, choosing the decoder by
// file extension.
func Read(path string) ([]taxlien.RawRecord, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%s: extension %q: %w", path, ext, taxlien.ErrUnsupportedFormat)
	}

	g, err := decode(path)
	if err != nil {
		return nil, err
	}

	records, err := toRecords(g)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// toRecords applies the fixed layout: header at HeaderRowOffset, exactly
// ColumnCount columns, positional assignment. Short rows are padded with nulls
// and fully blank rows are skipped.
func toRecords(g grid) ([]taxlien.RawRecord, error) {
	if len(g) <= taxlien.HeaderRowOffset {
		return nil, fmt.Errorf("sheet has %d rows, header expected on row %d: %w",
			len(g), taxlien.HeaderRowOffset+1, taxlien.ErrMalformedSpreadsheet)
	}

	body := g[taxlien.HeaderRowOffset:]
	width := 0
	for _, row := range body {
		if w := usedWidth(row); w > width {
			width = w
		}
	}
	if width != taxlien.ColumnCount {
		return nil, fmt.Errorf("sheet has %d columns, want %d: %w", width, taxlien.ColumnCount, taxlien.ErrMalformedSpreadsheet)
	}

	records := make([]taxlien.RawRecord, 0, len(body)-1)
	for i, row := range body[1:] {
		if usedWidth(row) == 0 {
			continue
		}
		cell := func(col int) pgtype.Text {
			if col >= len(row) || row[col] == "" {
				return pgtype.Text{}
			}
			return pgtype.Text{String: row[col], Valid: true}
		}
		records = append(records, taxlien.RawRecord{
			Row:           taxlien.HeaderRowOffset + i + 2,
			BusinessName:  cell(0),
			OwnerName:     cell(1),
			Address:       cell(2),
			County:        cell(3),
			WarrantNumber: cell(4),
			WarrantAmount: cell(5),
		})
	}
	return records, nil
}

// usedWidth is the row length without trailing empty cells.
func usedWidth(row []string) int {
	n := len(row)
	for n > 0 && row[n-1] == "" {
		n--
	}
	return n
}
