package sheet

import (
	"strings"
)

// missingMarkers are cell renderings that mean "no value" in exported
// spreadsheets: blank cells, not-a-number and not-a-time markers, and the
// stringified nothings some export tools leave behind.
var missingMarkers = map[string]struct{}{
	"":     {},
	"nan":  {},
	"nat":  {},
	"none": {},
	"null": {},
	"#n/a": {},
	"n/a":  {},
}

// IsMissing reports whether a raw cell value represents a missing value
func IsMissing(cell string) bool {
	_, ok := missingMarkers[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

// NormalizeRow converts a raw row's cells into the representation the store
// expects: missing markers become nil (relational NULL), everything else is
// kept as authored, surrounding whitespace included. The result always has
// exactly width values, padding short rows with NULL and dropping stray
// cells past the header width.
func NormalizeRow(raw []string, width int) []any {
	out := make([]any, width)
	for i := 0; i < width; i++ {
		if i >= len(raw) || IsMissing(raw[i]) {
			out[i] = nil
			continue
		}
		out[i] = raw[i]
	}
	return out
}
