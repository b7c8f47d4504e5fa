package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetload/adapters/excel"
	"sheetload/domain/run"
	"sheetload/internal/config"
	"sheetload/internal/errors"
	"sheetload/internal/testkit"
	"sheetload/ports"
)

func newRunService(fetcher ports.Fetcher, store *testkit.MemoryStore) *RunService {
	return NewRunService(fetcher, NewImportService(excel.NewParser(), store, quietLogger()), quietLogger())
}

func TestRunPartialFailureContainment(t *testing.T) {
	store := testkit.NewMemoryStore()
	fetcher := testkit.NewStubFetcher()
	// Binding 1 has no remote file; binding 2 resolves normally
	fetcher.Files["ok/data.xlsx"] = testkit.NewWorkbook().
		Sheet("Sheet1", [][]string{{"Name"}, {"alpha"}}).
		Bytes(t)

	svc := newRunService(fetcher, store)
	result := svc.Run(context.Background(), []config.FileBinding{
		{Name: "Broken", RemotePath: "gone/data.xlsx", TableName: "broken"},
		{Name: "Working", RemotePath: "ok/data.xlsx", TableName: "working"},
	})

	assert.Equal(t, 1, result.Succeeded())
	assert.Equal(t, 2, result.Total())
	assert.False(t, result.AllSucceeded())
	assert.Equal(t, "import summary: 1/2 bindings succeeded", result.Summary())

	require.Len(t, result.Bindings, 2)
	assert.Equal(t, run.BindingFailed, result.Bindings[0].Status)
	assert.Equal(t, errors.CodeFetchFailure, errors.GetCode(result.Bindings[0].Err))

	// The second binding's table is still fully materialized
	assert.Equal(t, []string{"working"}, store.TableNames())
	assert.Len(t, store.Tables["working"].Rows, 1)
}

func TestRunEndToEndDimensions(t *testing.T) {
	store := testkit.NewMemoryStore()
	fetcher := testkit.NewStubFetcher()
	fetcher.Files["General/BI Import/BI Dimensions.xlsx"] = testkit.NewWorkbook().
		Sheet("Region", [][]string{
			{"Region Name", "2024 Target"},
			{"North", "100"},
			{"South", "250"},
		}).
		Sheet("Empty", [][]string{{"Col A"}}).
		Sheet("Product", [][]string{
			{"Product", "Category"},
			{"Widget", "Hardware"},
		}).
		Bytes(t)

	svc := newRunService(fetcher, store)
	result := svc.Run(context.Background(), []config.FileBinding{{
		Name:       "BI Dimensions",
		RemotePath: "General/BI Import/BI Dimensions.xlsx",
		TableName:  "dimensions",
		AllSheets:  true,
	}})

	assert.True(t, result.AllSucceeded())
	assert.Equal(t, []string{"dimensions_product", "dimensions_region"}, store.TableNames())

	region := store.Tables["dimensions_region"]
	require.Len(t, region.Spec.Columns, 2)
	assert.Equal(t, "region_name", region.Spec.Columns[0].Name)
	assert.Equal(t, "col_2024_target", region.Spec.Columns[1].Name)
	assert.Len(t, region.Rows, 2)
}

func TestRunRecordsOrderedOutcomes(t *testing.T) {
	store := testkit.NewMemoryStore()
	fetcher := testkit.NewStubFetcher()
	svc := newRunService(fetcher, store)

	result := svc.Run(context.Background(), []config.FileBinding{
		{Name: "First", RemotePath: "a.xlsx", TableName: "a"},
		{Name: "Second", RemotePath: "b.xlsx", TableName: "b"},
	})

	require.Len(t, result.Bindings, 2)
	assert.Equal(t, "First", result.Bindings[0].Name)
	assert.Equal(t, "Second", result.Bindings[1].Name)
	assert.False(t, result.ID.String() == "")
}

type stubLister struct {
	entries map[string][]ports.FolderEntry
	err     error
}

func (s *stubLister) ListFolder(_ context.Context, folder string) ([]ports.FolderEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries[folder], nil
}

func TestCheckAllPresent(t *testing.T) {
	svc := newRunService(testkit.NewStubFetcher(), testkit.NewMemoryStore())
	lister := &stubLister{entries: map[string][]ports.FolderEntry{
		"General/BI Import": {
			{Name: "BI Dimensions.xlsx", Size: 100},
			{Name: "BI At Scale Import.xlsx", Size: 200},
		},
	}}

	err := svc.Check(context.Background(), lister, []config.FileBinding{
		{Name: "Dims", RemotePath: "General/BI Import/BI Dimensions.xlsx", TableName: "d"},
		{Name: "Scale", RemotePath: "General/BI Import/BI At Scale Import.xlsx", TableName: "s"},
	})
	assert.NoError(t, err)
}

func TestCheckReportsMissingFiles(t *testing.T) {
	svc := newRunService(testkit.NewStubFetcher(), testkit.NewMemoryStore())
	lister := &stubLister{entries: map[string][]ports.FolderEntry{}}

	err := svc.Check(context.Background(), lister, []config.FileBinding{
		{Name: "Dims", RemotePath: "General/BI Import/BI Dimensions.xlsx", TableName: "d"},
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeFetchFailure))
}

func TestCheckListerFailureIsAFetchFailure(t *testing.T) {
	svc := newRunService(testkit.NewStubFetcher(), testkit.NewMemoryStore())
	lister := &stubLister{err: fmt.Errorf("remote listing unavailable")}

	err := svc.Check(context.Background(), lister, []config.FileBinding{
		{Name: "Dims", RemotePath: "General/BI Import/BI Dimensions.xlsx", TableName: "d"},
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeFetchFailure))
	assert.Contains(t, err.Error(), "Dims")
}
