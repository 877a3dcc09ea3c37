package io

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/errors"
)

// ReadCSV reads delta-mode steps from a CSV file with a name,value header.
func ReadCSV(r io.Reader) (bridge.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return bridge.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode CSV")
	}
	return stepsFromRows(rows)
}

// ReadXLSX reads delta-mode steps from a spreadsheet. sheet selects the
// worksheet by name; empty means the first sheet.
func ReadXLSX(r io.Reader, sheet string) (bridge.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return bridge.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open spreadsheet")
	}
	defer f.Close()
	return readWorkbook(f, sheet)
}

func readWorkbook(f *excelize.File, sheet string) (bridge.Dataset, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return bridge.Dataset{}, errors.New(errors.ErrCodeInvalidInput, "spreadsheet has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return bridge.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "sheet %q", sheet)
	}
	return stepsFromRows(rows)
}

// stepsFromRows converts a header row plus data rows into steps. Blank rows
// are skipped; line numbers in errors are 1-based and count the header.
func stepsFromRows(rows [][]string) (bridge.Dataset, error) {
	if len(rows) == 0 {
		return bridge.Dataset{Steps: []bridge.Step{}}, nil
	}
	nameCol, valueCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name":
			nameCol = i
		case "value":
			valueCol = i
		}
	}
	if nameCol < 0 || valueCol < 0 {
		return bridge.Dataset{}, errors.New(errors.ErrCodeInvalidInput, "header must contain name and value columns, got %q", rows[0])
	}

	steps := make([]bridge.Step, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if blank(row) {
			continue
		}
		name, raw := cell(row, nameCol), cell(row, valueCol)
		v, err := parseNumber(raw)
		if err != nil {
			return bridge.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d: value %q", line, raw)
		}
		steps = append(steps, bridge.Step{Name: name, Value: v})
	}
	return bridge.Dataset{Steps: steps}, nil
}

// parseNumber accepts plain numbers plus thousands separators and a
// leading currency symbol, as spreadsheets often export them.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$€£¥")
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(s, 64)
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
