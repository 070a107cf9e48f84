package importer

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
)

// ParseXLSX reads entries from the first sheet of an Excel workbook. The sheet
// uses the same headers as the delimited format.
func (p *Parser) ParseXLSX(r io.Reader) ([]ledger.EntryParams, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook: %v", ErrInvalidCSV, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidCSV)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", ErrInvalidCSV, sheets[0], err)
	}

	if len(rows) > 0 {
		if cols, err := mapHeader(rows[0]); err == nil {
			for _, row := range rows[1:] {
				convertSerialDate(row, cols["date"])
			}
		}
	}

	return parseRows(rows, ',')
}

// convertSerialDate rewrites an Excel date serial such as "45292" to YYYY-MM-DD.
// Text dates are left for parseDate.
func convertSerialDate(row []string, idx int) {
	if idx < 0 || idx >= len(row) {
		return
	}

	serial, err := strconv.ParseFloat(row[idx], 64)
	if err != nil {
		return
	}

	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return
	}

	row[idx] = t.Format(time.DateOnly)
}
