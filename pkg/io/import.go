package io

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/errors"
)

// Extensions lists the file extensions [Import] understands.
var Extensions = []string{".json", ".toml", ".csv", ".xlsx"}

// Import reads the file at path, choosing the decoder by extension.
// CSV and spreadsheet files only support delta mode.
func Import(path string, mode bridge.Mode) (bridge.Dataset, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json", ".toml", ".csv", ".xlsx":
	default:
		return bridge.Dataset{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported input format %q (want one of %s)", ext, strings.Join(Extensions, ", "))
	}
	if (ext == ".csv" || ext == ".xlsx") && mode == bridge.ModeLayered {
		return bridge.Dataset{}, errors.New(errors.ErrCodeInvalidFormat, "%s input only supports delta mode", ext)
	}
	if ext == ".xlsx" {
		return ImportXLSX(path, "")
	}

	f, err := os.Open(path)
	if err != nil {
		return bridge.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	switch ext {
	case ".toml":
		return ReadTOML(f, mode)
	case ".csv":
		return ReadCSV(f)
	}
	return ReadJSON(f, mode)
}

// ImportXLSX reads delta-mode steps from the named sheet of the spreadsheet
// at path. An empty sheet name selects the first sheet.
func ImportXLSX(path, sheet string) (bridge.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return bridge.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return readWorkbook(f, sheet)
}
