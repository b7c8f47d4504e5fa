package excel

import (
	"bytes"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"

	"sheetload/domain/sheet"
	"sheetload/internal/errors"
	"sheetload/ports"
)

// Parser implements ports.WorkbookParser for xlsx byte streams
type Parser struct{}

// NewParser creates a new workbook parser
func NewParser() *Parser {
	return &Parser{}
}

// Open parses the byte stream into a workbook handle. Bytes that are not a
// recognized spreadsheet container fail with UNREADABLE_WORKBOOK.
func (p *Parser) Open(data []byte) (ports.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.UnreadableWorkbook(err)
	}
	return &Workbook{file: f}, nil
}

// Workbook wraps an open excelize file
type Workbook struct {
	file *excelize.File
}

// Sheets returns sheet names in stored order
func (w *Workbook) Sheets() []string {
	return w.file.GetSheetList()
}

// ReadSheet extracts the header row and data rows of one sheet. The first
// headerSkip rows are discarded (metadata rows in known file shapes), the
// next row becomes the header, and everything after it is data. Rows with no
// content at all are dropped. Data rows are clipped to the header width by
// the normalizer later; here they are returned as stored.
func (w *Workbook) ReadSheet(name string, headerSkip int) (sheet.Sheet, error) {
	rows, err := w.file.GetRows(name)
	if err != nil {
		return sheet.Sheet{}, errors.Wrapf(err, "failed to read sheet %q", name)
	}
	if headerSkip < 0 {
		headerSkip = 0
	}

	if len(rows) <= headerSkip {
		log.Printf("[excel] sheet %q has no header row (rows=%d, skip=%d)", name, len(rows), headerSkip)
		return sheet.Sheet{Name: name}, nil
	}

	header := make([]string, len(rows[headerSkip]))
	for i, label := range rows[headerSkip] {
		header[i] = strings.TrimSpace(label)
	}

	var data [][]string
	for _, row := range rows[headerSkip+1:] {
		if blankRow(row) {
			continue
		}
		data = append(data, row)
	}

	log.Printf("[excel] sheet %q read (%d columns, %d data rows)", name, len(header), len(data))
	return sheet.Sheet{Name: name, Header: header, Rows: data}, nil
}

// Close releases the underlying file handle
func (w *Workbook) Close() error {
	return w.file.Close()
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var _ ports.WorkbookParser = (*Parser)(nil)
