// Package testkit provides synthetic workbooks and collaborator doubles for
// deterministic pipeline tests: no network, no database, real xlsx bytes.
package testkit

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sheetload/internal/errors"
	"sheetload/ports"
)

// WorkbookBuilder assembles real xlsx bytes through excelize so parser tests
// exercise the same container format production files arrive in.
type WorkbookBuilder struct {
	order  []string
	sheets map[string][][]string
}

// NewWorkbook creates an empty workbook builder
func NewWorkbook() *WorkbookBuilder {
	return &WorkbookBuilder{sheets: make(map[string][][]string)}
}

// Sheet adds a sheet with the given rows (header included). Rows may be nil
// for a sheet with no content at all.
func (b *WorkbookBuilder) Sheet(name string, rows [][]string) *WorkbookBuilder {
	b.order = append(b.order, name)
	b.sheets[name] = rows
	return b
}

// Bytes renders the workbook to xlsx bytes
func (b *WorkbookBuilder) Bytes(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range b.order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range b.sheets[name] {
			for c, cell := range row {
				if cell == "" {
					continue
				}
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(name, axis, cell))
			}
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// StoredTable captures one table replacement observed by the memory store
type StoredTable struct {
	Spec ports.TableSpec
	Rows [][]any
}

// MemoryStore is an in-memory ports.TableStore double. Failures maps a
// destination table name to the error its materialization should fail with.
type MemoryStore struct {
	Tables   map[string]StoredTable
	Failures map[string]error
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Tables:   make(map[string]StoredTable),
		Failures: make(map[string]error),
	}
}

// Replace records the table replacement, honoring injected failures
func (s *MemoryStore) Replace(_ context.Context, spec ports.TableSpec, rows [][]any) (int64, error) {
	if err, ok := s.Failures[spec.Name]; ok {
		return 0, err
	}
	s.Tables[spec.Name] = StoredTable{Spec: spec, Rows: rows}
	return int64(len(rows)), nil
}

// TableNames returns the names of all materialized tables, sorted
func (s *MemoryStore) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StubFetcher is a ports.Fetcher double serving canned bytes by remote path
type StubFetcher struct {
	Files  map[string][]byte
	Errors map[string]error
}

// NewStubFetcher creates an empty stub fetcher
func NewStubFetcher() *StubFetcher {
	return &StubFetcher{
		Files:  make(map[string][]byte),
		Errors: make(map[string]error),
	}
}

// Fetch returns canned bytes or a fetch failure for unknown paths
func (f *StubFetcher) Fetch(_ context.Context, remotePath string) ([]byte, error) {
	if err, ok := f.Errors[remotePath]; ok {
		return nil, err
	}
	if data, ok := f.Files[remotePath]; ok {
		return data, nil
	}
	return nil, errors.FetchFailure(remotePath, fmt.Errorf("no such remote file"))
}

var (
	_ ports.TableStore = (*MemoryStore)(nil)
	_ ports.Fetcher    = (*StubFetcher)(nil)
)
