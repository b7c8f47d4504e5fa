package postgres

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"

	"sheetload/internal/errors"
	"sheetload/ports"
)

// Postgres allows 65535 bind parameters per statement, so the rows per
// INSERT shrink as sheets get wider. maxBatchRows bounds the statement size
// for narrow sheets.
const (
	maxBindParams = 65535
	maxBatchRows  = 500
)

// batchRows returns how many rows fit in one INSERT for the given row width
// (data columns plus the timestamp column).
func batchRows(width int) int {
	rows := maxBindParams / width
	if rows > maxBatchRows {
		return maxBatchRows
	}
	if rows < 1 {
		return 1
	}
	return rows
}

// TableStore implements ports.TableStore for PostgreSQL. Drop, create and
// load run inside a single transaction, so an interrupted run leaves the
// destination either as it was or fully replaced, never mixed.
type TableStore struct {
	db *sqlx.DB
}

// NewTableStore creates a new PostgreSQL table store
func NewTableStore(db *sqlx.DB) *TableStore {
	return &TableStore{db: db}
}

// Replace drops, recreates and loads the destination table atomically
func (s *TableStore) Replace(ctx context.Context, spec ports.TableSpec, rows [][]any) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.MaterializeFailure(spec.Name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, dropStatement(spec.Name)); err != nil {
		return 0, errors.MaterializeFailure(spec.Name, err)
	}
	if _, err := tx.ExecContext(ctx, createStatement(spec)); err != nil {
		return 0, errors.MaterializeFailure(spec.Name, err)
	}
	log.Printf("[postgres] table %s created (%d data columns)", spec.Name, len(spec.Columns))

	written, err := s.load(ctx, tx, spec, rows)
	if err != nil {
		return 0, errors.LoadFailure(spec.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.LoadFailure(spec.Name, err)
	}
	log.Printf("[postgres] table %s loaded (%d rows)", spec.Name, written)
	return written, nil
}

// load streams normalized rows in batches within the replacement transaction
func (s *TableStore) load(ctx context.Context, tx *sqlx.Tx, spec ports.TableSpec, rows [][]any) (int64, error) {
	batchSize := batchRows(len(spec.Columns) + 1)

	var written int64
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		args := make([]any, 0, len(batch)*(len(spec.Columns)+1))
		for _, row := range batch {
			args = append(args, row...)
			args = append(args, spec.LoadedAt)
		}

		if _, err := tx.ExecContext(ctx, insertStatement(spec, len(batch)), args...); err != nil {
			return written, err
		}
		written += int64(len(batch))
	}
	return written, nil
}

var _ ports.TableStore = (*TableStore)(nil)
