package sheet

// Sheet is one named tabular page of a workbook: a header row of column
// labels plus the data rows beneath it. A Sheet with zero data rows is a
// valid terminal state and is skipped by callers, not treated as an error.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Empty reports whether the sheet has no data rows to load
func (s Sheet) Empty() bool {
	return len(s.Rows) == 0
}
