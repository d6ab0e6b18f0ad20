package ingest

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/wak-lab-e-v/jw-db-manager/pkg/match"
)

// Row is one normalized registrant row from the Excel export. Line is the
// 1-based worksheet row it came from, for error messages.
type Row struct {
	Line        int
	OrderNumber string
	Surname     string
	GivenName   string
	EventDate   string
	EventTime   string
	Location    string
}

// Result carries the readable rows plus what had to be skipped.
type Result struct {
	Rows    []Row
	Skipped []string
}

// Column headers as they appear in the export. "Bestellnumer" is a typo the
// production export has carried for years; accept both spellings.
var headerColumns = map[string]string{
	"Bestellnummer": "order",
	"Bestellnumer":  "order",
	"Name":          "surname",
	"Vorname":       "given",
	"Feiertag":      "date",
	"Feieruhrzeit":  "time",
	"Location":      "location",
}

// ReadFile opens an xlsx workbook and reads registrant rows from the named
// sheet, or from the first sheet when sheet is empty. Column order is free;
// columns are located by scanning the header row for the known names. Rows
// missing order number, surname, or given name are skipped and reported in
// the result, not fatal.
func ReadFile(path, sheet string) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &Result{}, nil
	}

	cols := map[string]int{}
	for idx, name := range rows[0] {
		if key, ok := headerColumns[strings.TrimSpace(name)]; ok {
			if _, taken := cols[key]; !taken {
				cols[key] = idx
			}
		}
	}
	for _, required := range []string{"order", "surname", "given"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("sheet %q: required column for %s not found in header", sheet, required)
		}
	}

	res := &Result{}
	for i, cells := range rows[1:] {
		line := i + 2
		row := Row{
			Line:        line,
			OrderNumber: cell(cells, cols, "order"),
			Surname:     cell(cells, cols, "surname"),
			GivenName:   cell(cells, cols, "given"),
			EventDate:   match.NormalizeEventDate(cell(cells, cols, "date")),
			EventTime:   match.NormalizeEventTime(cell(cells, cols, "time")),
			Location:    cell(cells, cols, "location"),
		}
		if row.OrderNumber == "" && row.Surname == "" && row.GivenName == "" {
			continue // trailing blank rows
		}
		if row.OrderNumber == "" || row.Surname == "" || row.GivenName == "" {
			res.Skipped = append(res.Skipped, fmt.Sprintf("row %d: missing order number, surname or given name", line))
			continue
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

func cell(cells []string, cols map[string]int, key string) string {
	idx, ok := cols[key]
	if !ok || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}
