package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/errors"
)

// ReadJSON decodes a JSON document from r into a dataset for mode.
// ReadJSON does not close r.
func ReadJSON(r io.Reader, mode bridge.Mode) (bridge.Dataset, error) {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return bridge.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode JSON")
	}
	return Decode(doc, mode)
}

// WriteJSON encodes prepared bars as an indented JSON array and writes it
// to w. A nil slice is written as an empty array.
func WriteJSON(w io.Writer, bars []bridge.Bar) error {
	if bars == nil {
		bars = []bridge.Bar{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bars); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode bars")
	}
	return nil
}

// ExportJSON writes prepared bars to a JSON file at path.
func ExportJSON(path string, bars []bridge.Bar) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := WriteJSON(f, bars); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
