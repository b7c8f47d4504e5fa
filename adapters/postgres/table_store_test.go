package postgres

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetload/domain/ident"
	"sheetload/ports"
)

func wideSpec(columns int) ports.TableSpec {
	spec := ports.TableSpec{Name: "wide"}
	for i := 0; i < columns; i++ {
		spec.Columns = append(spec.Columns, ident.Column{
			Label:   fmt.Sprintf("Col %d", i),
			Name:    fmt.Sprintf("col_%d", i),
			Ordinal: i,
		})
	}
	return spec
}

func TestBatchRows(t *testing.T) {
	// Narrow sheets stay at the row cap
	assert.Equal(t, maxBatchRows, batchRows(3))
	// 131 data columns + timestamp: 500 rows would need 66000 parameters
	assert.Equal(t, 496, batchRows(132))
	// Degenerate widths still make progress one row at a time
	assert.Equal(t, 1, batchRows(maxBindParams+1))
}

func TestBatchRowsRespectsBindParameterLimit(t *testing.T) {
	for _, columns := range []int{1, 2, 130, 131, 200, 1000} {
		width := columns + 1
		rows := batchRows(width)
		require.GreaterOrEqual(t, rows, 1, "columns=%d", columns)
		assert.LessOrEqual(t, rows*width, maxBindParams,
			"columns=%d rows=%d would exceed the parameter limit", columns, rows)
	}
}

func TestInsertStatementWideSheetBatch(t *testing.T) {
	spec := wideSpec(131)
	rows := batchRows(len(spec.Columns) + 1)

	got := insertStatement(spec, rows)
	params := strings.Count(got, "$")
	assert.Equal(t, rows*(len(spec.Columns)+1), params)
	assert.LessOrEqual(t, params, maxBindParams)
	assert.Contains(t, got, fmt.Sprintf("$%d)", params))
}
