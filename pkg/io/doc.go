// Package io reads waterfall input files and writes prepared bars.
//
// # Formats
//
// JSON and TOML carry either input shape. A JSON file is a top-level array
// of records, or an object with a "steps" or "items" array:
//
//	[
//	  {"name": "Expiring", "value": 4500},
//	  {"name": "Exposure", "value": 750}
//	]
//
//	{"items": [{"displayName": "2023", "layers": [{"loss": 4500}], "currency": "USD"}]}
//
// TOML files use [[steps]] or [[items]] tables with the same keys.
//
// Records are decoded with weak typing: a numeric name becomes its string
// form and quoted numbers are parsed. Item keys other than displayName and
// layers are kept in [bridge.Item.Fields].
//
// CSV files and spreadsheets are delta-only. The first row is a header that
// must contain "name" and "value" columns (in any order, case-insensitive);
// other columns are ignored.
//
// # Import
//
// [Import] dispatches on the file extension:
//
//	data, err := io.Import("bridge.xlsx", bridge.ModeDelta)
//
// Malformed input fails with an INVALID_INPUT error naming the offending
// record. An unknown extension fails with INVALID_FORMAT.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write prepared bars as an indented JSON array.
//
// [bridge.Item.Fields]: github.com/matzehuels/waterfall/pkg/bridge.Item
package io
