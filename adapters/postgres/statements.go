package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"sheetload/ports"
)

// timestampColumn is the synthetic column stamped onto every loaded row.
// Downstream consumers identify an import batch by equality on it.
const timestampColumn = "import_timestamp"

// dropStatement builds the idempotent drop for a destination table
func dropStatement(name string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", pq.QuoteIdentifier(name))
}

// createStatement builds the CREATE TABLE for a destination table: one TEXT
// column per resolved identifier in sheet order, then the import timestamp.
// Identifiers have already passed sanitization; quoting guards the rest.
func createStatement(spec ports.TableSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", pq.QuoteIdentifier(spec.Name))
	for _, col := range spec.Columns {
		fmt.Fprintf(&b, "    %s TEXT,\n", pq.QuoteIdentifier(col.Name))
	}
	fmt.Fprintf(&b, "    %s TIMESTAMP\n)", timestampColumn)
	return b.String()
}

// insertStatement builds a multi-row INSERT with positional placeholders for
// rowCount rows. Each row binds the data columns plus the load timestamp.
func insertStatement(spec ports.TableSpec, rowCount int) string {
	names := make([]string, 0, len(spec.Columns)+1)
	for _, col := range spec.Columns {
		names = append(names, pq.QuoteIdentifier(col.Name))
	}
	names = append(names, timestampColumn)
	width := len(names)

	groups := make([]string, 0, rowCount)
	for r := 0; r < rowCount; r++ {
		ph := make([]string, width)
		for c := 0; c < width; c++ {
			ph[c] = fmt.Sprintf("$%d", r*width+c+1)
		}
		groups = append(groups, "("+strings.Join(ph, ", ")+")")
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s",
		pq.QuoteIdentifier(spec.Name),
		strings.Join(names, ", "),
		strings.Join(groups, ", "),
	)
}
