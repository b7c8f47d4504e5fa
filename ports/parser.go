package ports

import (
	"sheetload/domain/sheet"
)

// WorkbookParser opens a workbook byte stream for sheet enumeration and reads
type WorkbookParser interface {
	Open(data []byte) (Workbook, error)
}

// Workbook is an open handle over one spreadsheet file. Created per fetch,
// closed once all of its sheets are processed.
type Workbook interface {
	// Sheets returns sheet names in stored order
	Sheets() []string
	// ReadSheet discards headerSkip leading rows, takes the next row as the
	// header, and returns the remainder as data rows.
	ReadSheet(name string, headerSkip int) (sheet.Sheet, error)
	Close() error
}
