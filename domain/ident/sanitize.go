package ident

import (
	"fmt"
	"strings"

	"sheetload/internal/errors"
)

// Column describes one destination column: the label as authored in the
// source sheet and the sanitized identifier it materializes under.
type Column struct {
	Label   string
	Name    string
	Ordinal int
}

// reservedWords are identifiers we refuse to emit even though quoting would
// make them legal, because downstream query tools trip over them constantly.
var reservedWords = map[string]struct{}{
	"user":       {},
	"order":      {},
	"group":      {},
	"table":      {},
	"index":      {},
	"column":     {},
	"select":     {},
	"where":      {},
	"from":       {},
	"join":       {},
	"constraint": {},
	"default":    {},
	"check":      {},
	"grant":      {},
	"limit":      {},
	"offset":     {},
	"primary":    {},
	"references": {},
}

// Sanitize maps an arbitrary human-authored column label to a safe relational
// identifier. Deterministic: the same label and ordinal always yield the same
// result. The output matches [a-z][a-z0-9_]* or the column_{ordinal} fallback.
func Sanitize(raw string, ordinal int) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	name := collapseUnderscores(b.String())
	name = strings.Trim(name, "_")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "col_" + name
	}
	name = strings.ToLower(name)

	if name == "" {
		return Fallback(ordinal)
	}
	if _, reserved := reservedWords[name]; reserved {
		return Fallback(ordinal)
	}
	return name
}

// Fallback is the positional identifier used when a label sanitizes to
// nothing usable, or when two labels in one sheet collide.
func Fallback(ordinal int) string {
	return fmt.Sprintf("column_%d", ordinal)
}

// Resolve sanitizes every label in sheet order and disambiguates collisions
// positionally: a later column whose identifier is already taken falls back
// to column_{ordinal}. A collision that survives disambiguation fails the
// whole column set.
func Resolve(labels []string) ([]Column, error) {
	columns := make([]Column, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))

	for i, label := range labels {
		name := Sanitize(label, i)
		if _, taken := seen[name]; taken {
			name = Fallback(i)
			if _, taken := seen[name]; taken {
				return nil, errors.SanitizationCollision(name)
			}
		}
		seen[name] = struct{}{}
		columns = append(columns, Column{Label: label, Name: name, Ordinal: i})
	}
	return columns, nil
}

func collapseUnderscores(s string) string {
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}
