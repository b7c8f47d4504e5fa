package app

import (
	"context"
	"time"

	"sheetload/domain/ident"
	"sheetload/domain/run"
	"sheetload/domain/sheet"
	"sheetload/internal"
	"sheetload/internal/config"
	"sheetload/ports"
)

// ImportService drives one fetched workbook into its destination tables:
// parse, resolve columns, normalize rows, replace the table. A sheet failure
// is recorded and never propagates past this service.
type ImportService struct {
	parser ports.WorkbookParser
	store  ports.TableStore
	log    *internal.Logger
	now    func() time.Time
}

// NewImportService creates a new import service
func NewImportService(parser ports.WorkbookParser, store ports.TableStore, logger *internal.Logger) *ImportService {
	return &ImportService{
		parser: parser,
		store:  store,
		log:    logger,
		now:    time.Now,
	}
}

// ImportFile imports one workbook according to its binding's header policy
// and fan-out mode, and returns the binding-level outcome.
func (s *ImportService) ImportFile(ctx context.Context, binding config.FileBinding, data []byte) run.BindingResult {
	result := run.BindingResult{Name: binding.Name, Table: binding.TableName}

	wb, err := s.parser.Open(data)
	if err != nil {
		s.log.Error("%s: %v", binding.Name, err)
		result.Status = run.BindingFailed
		result.Err = err
		return result
	}
	defer wb.Close()

	if binding.AllSheets {
		return s.importAllSheets(ctx, binding, wb, result)
	}
	return s.importFirstSheet(ctx, binding, wb, result)
}

// importFirstSheet handles single-table files: the first sheet's outcome is
// the file's outcome. An empty sheet is a skip, not a failure.
func (s *ImportService) importFirstSheet(ctx context.Context, binding config.FileBinding, wb ports.Workbook, result run.BindingResult) run.BindingResult {
	names := wb.Sheets()
	if len(names) == 0 {
		s.log.Warn("%s: workbook has no sheets", binding.Name)
		result.Status = run.BindingSucceeded
		return result
	}

	sr := s.importSheet(ctx, wb, names[0], binding.HeaderSkip, binding.TableName)
	result.Sheets = append(result.Sheets, sr)

	if sr.Status == run.SheetFailed {
		result.Status = run.BindingFailed
		result.Err = sr.Err
	} else {
		result.Status = run.BindingSucceeded
	}
	return result
}

// importAllSheets fans one workbook out into one destination table per
// non-empty sheet. Sheets fail independently; the file succeeds if at least
// one sheet materialized.
func (s *ImportService) importAllSheets(ctx context.Context, binding config.FileBinding, wb ports.Workbook, result run.BindingResult) run.BindingResult {
	for _, name := range wb.Sheets() {
		table := binding.TableName + "_" + ident.Sanitize(name, 0)
		sr := s.importSheet(ctx, wb, name, binding.HeaderSkip, table)
		result.Sheets = append(result.Sheets, sr)
		if sr.Status == run.SheetFailed {
			s.log.Error("%s: sheet %q failed: %v", binding.Name, name, sr.Err)
		}
	}

	if result.Materialized() > 0 {
		result.Status = run.BindingSucceeded
	} else {
		result.Status = run.BindingFailed
	}
	return result
}

// importSheet reads, normalizes and materializes one sheet into one table
func (s *ImportService) importSheet(ctx context.Context, wb ports.Workbook, name string, headerSkip int, table string) run.SheetResult {
	sr := run.SheetResult{Sheet: name, Table: table}

	sh, err := wb.ReadSheet(name, headerSkip)
	if err != nil {
		sr.Status = run.SheetFailed
		sr.Err = err
		return sr
	}
	if sh.Empty() {
		s.log.Info("sheet %q is empty, skipping", name)
		sr.Status = run.SheetEmpty
		return sr
	}

	columns, err := ident.Resolve(sh.Header)
	if err != nil {
		sr.Status = run.SheetFailed
		sr.Err = err
		return sr
	}

	rows := make([][]any, len(sh.Rows))
	for i, raw := range sh.Rows {
		rows[i] = sheet.NormalizeRow(raw, len(columns))
	}

	// One load timestamp per destination table, so every row of this batch
	// can be identified by timestamp equality downstream.
	spec := ports.TableSpec{Name: table, Columns: columns, LoadedAt: s.now()}
	written, err := s.store.Replace(ctx, spec, rows)
	if err != nil {
		sr.Status = run.SheetFailed
		sr.Err = err
		return sr
	}

	s.log.Info("sheet %q materialized into %s (%d rows)", name, table, written)
	sr.Status = run.SheetMaterialized
	sr.Rows = written
	return sr
}
