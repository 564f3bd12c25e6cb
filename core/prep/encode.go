package prep

import (
	"fmt"
	"maps"
	"slices"

	"github.com/huangsam/devpulse/schema"
)

// Encode assigns each distinct value of the given categorical columns an integer code
// in lexicographic order and attaches the codes to copies of the records.
// The unclassified age group is not a category and is encoded as schema.UnclassifiedCode.
func Encode(records []schema.EnrichedRecord, columns []string) ([]schema.EnrichedRecord, map[string]schema.Encoding, error) {
	for _, col := range columns {
		if !schema.IsCategoricalColumn(col) {
			return nil, nil, fmt.Errorf("%w: cannot encode unknown column %q", schema.ErrSchema, col)
		}
	}

	encodings := make(map[string]schema.Encoding, len(columns))
	for _, col := range columns {
		encodings[col] = buildEncoding(records, col)
	}

	out := make([]schema.EnrichedRecord, len(records))
	for i, r := range records {
		codes := make(map[string]int, len(r.Encoded)+len(columns))
		maps.Copy(codes, r.Encoded)
		for _, col := range columns {
			value, _ := r.Category(col)
			code, _ := encodings[col].Code(value)
			codes[col] = code
		}
		r.Encoded = codes
		out[i] = r
	}
	return out, encodings, nil
}

// buildEncoding collects the sorted distinct values of one column.
func buildEncoding(records []schema.EnrichedRecord, column string) schema.Encoding {
	seen := make(map[string]struct{})
	for _, r := range records {
		value, _ := r.Category(column)
		if value == "" {
			continue
		}
		seen[value] = struct{}{}
	}
	return schema.Encoding{
		Column: column,
		Values: slices.Sorted(maps.Keys(seen)),
	}
}
