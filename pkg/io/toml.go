package io

import (
	"io"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/errors"
)

// ReadTOML decodes a TOML document with [[steps]] or [[items]] tables.
func ReadTOML(r io.Reader, mode bridge.Mode) (bridge.Dataset, error) {
	var doc map[string]any
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return bridge.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode TOML")
	}
	return Decode(doc, mode)
}
