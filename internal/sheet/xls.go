package sheet

import (
	"fmt"
	"os"

	"github.com/extrame/xls"

	"github.com/vvka-141/taxlien/pkg/taxlien"
)

// readXLS reads the first sheet of a legacy BIFF workbook. Rows missing from
// the file come back empty so row numbers stay aligned with the sheet.
func readXLS(path string) (g grid, err error) {
	// The BIFF parser panics on some truncated files.
	defer func() {
		if r := recover(); r != nil {
			g, err = nil, fmt.Errorf("decode %s: %v: %w", path, r, taxlien.ErrMalformedSpreadsheet)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	wb, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", path, taxlien.ErrMalformedSpreadsheet, err)
	}
	if wb == nil {
		return nil, fmt.Errorf("%s has no workbook stream: %w", path, taxlien.ErrMalformedSpreadsheet)
	}

	first := wb.GetSheet(0)
	if first == nil {
		return nil, fmt.Errorf("%s has no sheets: %w", path, taxlien.ErrMalformedSpreadsheet)
	}
	if first.MaxRow == 0 {
		return nil, fmt.Errorf("%s: first sheet has a single row: %w", path, taxlien.ErrMalformedSpreadsheet)
	}

	// ReadAllCells walks sheets in order and stops once max rows are
	// collected, so capping at the first sheet's height keeps it to that
	// sheet. Absent rows come back nil at their own index.
	return grid(wb.ReadAllCells(int(first.MaxRow) + 1)), nil
}
