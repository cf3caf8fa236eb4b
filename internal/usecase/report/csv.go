package report

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/simaogato/wealthlog-backend/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVHeader is the column layout written by WriteCSV
var CSVHeader = []string{"Date", "Type", "Total Asset", "Market Value", "Index", "Daily P/L", "Notes"}

// WriteCSV writes rows with a UTF-8 byte order mark so spreadsheet tools
// pick the right encoding. Market value is only written for stocks.
func WriteCSV(w io.Writer, rows []Row) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range rows {
		marketValue := ""
		if r.Class == domain.InstrumentStock && r.TotalMarketValue != nil {
			marketValue = r.TotalMarketValue.String()
		}
		index := ""
		if r.IndexReference != nil {
			index = r.IndexReference.String()
		}

		record := []string{
			r.Date.String(),
			r.Class.Label(),
			r.TotalAsset.String(),
			marketValue,
			index,
			r.ProfitLoss.String(),
			r.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", r.Date, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// column aliases accepted by ReadCSV, lower case
var csvColumns = map[string][]string{
	"date":   {"date", "日期"},
	"type":   {"type", "class", "investment type", "投资类型"},
	"asset":  {"total asset", "total_asset", "totalasset", "总资产"},
	"market": {"market value", "total market value", "total_market_value", "总市值"},
	"index":  {"index", "index reference", "上证指数"},
	"notes":  {"notes", "note", "备注"},
}

// ReadCSV parses snapshots from a CSV file shaped like the one WriteCSV
// produces. Columns are matched by header name, in any order; unknown ones
// such as the daily P/L are ignored. Numeric cells are coerced leniently:
// separators and currency symbols are stripped and garbage reads as zero.
func ReadCSV(r io.Reader) ([]domain.Snapshot, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	cols := mapColumns(header)
	for _, required := range []string{"date", "type", "asset"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv header is missing the %q column", required)
		}
	}

	var snapshots []domain.Snapshot
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}

		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		date, err := domain.ParseDate(cell("date"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		class, err := parseClassCell(cell("type"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		s := domain.Snapshot{
			Date:           date,
			Class:          class,
			TotalAsset:     domain.ParseAmount(cell("asset")),
			IndexReference: domain.ParseOptionalAmount(cell("index")),
			Notes:          cell("notes"),
		}
		if class == domain.InstrumentStock {
			s.TotalMarketValue = domain.ParseOptionalAmount(cell("market"))
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, nil
}

func mapColumns(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for name, aliases := range csvColumns {
			for _, a := range aliases {
				if h == a {
					if _, dup := cols[name]; !dup {
						cols[name] = i
					}
				}
			}
		}
	}
	return cols
}

func parseClassCell(s string) (domain.InstrumentClass, error) {
	switch s {
	case "股票":
		return domain.InstrumentStock, nil
	case "基金":
		return domain.InstrumentFund, nil
	}
	return domain.ParseInstrumentClass(s)
}
