package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/simaogato/wealthlog-backend/internal/domain"
)

// XLSXSheet is the name of the worksheet written by WriteXLSX
const XLSXSheet = "Journal"

// column widths in characters, in CSVHeader order
var xlsxColumnWidths = []float64{12, 8, 15, 15, 12, 15, 30}

// WriteXLSX writes rows as a single-sheet workbook with the CSVHeader layout.
// Amounts are stored as numbers so they can be summed in a spreadsheet.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", XLSXSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(CSVHeader))
	for i, h := range CSVHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(XLSXSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write xlsx header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(XLSXSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, width := range xlsxColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(XLSXSheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, r := range rows {
		var marketValue interface{} = ""
		if r.Class == domain.InstrumentStock && r.TotalMarketValue != nil {
			marketValue = r.TotalMarketValue.InexactFloat64()
		}

		record := []interface{}{
			r.Date.String(),
			r.Class.Label(),
			r.TotalAsset.InexactFloat64(),
			marketValue,
			optionalNumber(r.IndexReference),
			r.ProfitLoss.InexactFloat64(),
			r.Notes,
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(XLSXSheet, cell, &record); err != nil {
			return fmt.Errorf("failed to write xlsx row %s: %w", r.Date, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func optionalNumber(d *decimal.Decimal) interface{} {
	if d == nil {
		return ""
	}
	return d.InexactFloat64()
}
