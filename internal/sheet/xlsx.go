package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/vvka-141/taxlien/pkg/taxlien"
)

// readXLSX reads the first sheet with raw cell values, so amounts arrive as
// stored rather than in their display format.
func readXLSX(path string) (grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", path, taxlien.ErrMalformedSpreadsheet, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no sheets: %w", path, taxlien.ErrMalformedSpreadsheet)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w: %w", sheets[0], path, taxlien.ErrMalformedSpreadsheet, err)
	}
	return rows, nil
}
