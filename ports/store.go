package ports

import (
	"context"
	"time"

	"sheetload/domain/ident"
)

// TableSpec describes the destination table for one materialization: the
// resolved data columns in sheet order plus the load timestamp stamped onto
// every row of this batch.
type TableSpec struct {
	Name     string
	Columns  []ident.Column
	LoadedAt time.Time
}

// TableStore atomically replaces a destination table's schema and contents:
// drop-if-exists, create with one TEXT column per resolved identifier plus
// the import timestamp column, and load all rows. The three steps commit
// together or not at all, so a table is never left half-populated.
type TableStore interface {
	Replace(ctx context.Context, spec TableSpec, rows [][]any) (int64, error)
}
