package io

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/errors"
)

// Decode turns a generically decoded document (as produced by
// encoding/json or a TOML decoder) into a dataset. doc is either a list of
// records or a map holding a "steps" or "items" list.
func Decode(doc any, mode bridge.Mode) (bridge.Dataset, error) {
	records, err := recordList(doc, mode)
	if err != nil {
		return bridge.Dataset{}, err
	}
	if mode == bridge.ModeLayered {
		items, err := decodeRecords[bridge.Item](records)
		return bridge.Dataset{Items: items}, err
	}
	steps, err := decodeRecords[bridge.Step](records)
	return bridge.Dataset{Steps: steps}, err
}

func recordList(doc any, mode bridge.Mode) ([]any, error) {
	switch v := doc.(type) {
	case []any:
		return v, nil
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out, nil
	case map[string]any:
		key := "steps"
		if mode == bridge.ModeLayered {
			key = "items"
		}
		list, ok := v[key]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "missing %q list for %s mode", key, mode)
		}
		return recordList(list, mode)
	case nil:
		return nil, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "expected a list of records, got %T", doc)
}

func decodeRecords[T any](records []any) ([]T, error) {
	out := make([]T, len(records))
	for i, rec := range records {
		if _, ok := rec.(map[string]any); !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "record %d: expected an object, got %T", i, rec)
		}
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "mapstructure",
			WeaklyTypedInput: true,
			Result:           &out[i],
		})
		if err != nil {
			return nil, fmt.Errorf("decoder: %w", err)
		}
		if err := dec.Decode(rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "record %d", i)
		}
	}
	return out, nil
}
