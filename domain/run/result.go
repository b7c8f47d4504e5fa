package run

import (
	"fmt"

	"sheetload/domain/core"
)

// SheetStatus is the terminal state of one sheet within a file import
type SheetStatus string

const (
	SheetMaterialized SheetStatus = "materialized"
	SheetEmpty        SheetStatus = "empty"
	SheetFailed       SheetStatus = "failed"
)

// SheetResult records the outcome of importing one sheet into one
// destination table.
type SheetResult struct {
	Sheet  string
	Table  string
	Status SheetStatus
	Rows   int64
	Err    error
}

// BindingStatus is the terminal state of one configured file binding
type BindingStatus string

const (
	BindingSucceeded BindingStatus = "succeeded"
	BindingFailed    BindingStatus = "failed"
)

// BindingResult records the outcome of one file binding: the per-sheet
// outcomes plus the binding-level verdict derived from them.
type BindingResult struct {
	Name   string
	Table  string
	Status BindingStatus
	Sheets []SheetResult
	Err    error
}

// Materialized counts sheets that produced a destination table
func (r BindingResult) Materialized() int {
	n := 0
	for _, s := range r.Sheets {
		if s.Status == SheetMaterialized {
			n++
		}
	}
	return n
}

// Succeeded reports whether the binding completed successfully
func (r BindingResult) Succeeded() bool {
	return r.Status == BindingSucceeded
}

// RunResult aggregates all binding outcomes of one run invocation.
// Built incrementally by the run orchestrator, immutable once the run ends.
type RunResult struct {
	ID        core.RunID
	StartedAt core.Timestamp
	Bindings  []BindingResult
}

// Record appends one binding outcome
func (r *RunResult) Record(b BindingResult) {
	r.Bindings = append(r.Bindings, b)
}

// Succeeded counts bindings that completed successfully
func (r RunResult) Succeeded() int {
	n := 0
	for _, b := range r.Bindings {
		if b.Succeeded() {
			n++
		}
	}
	return n
}

// Total returns the number of bindings attempted
func (r RunResult) Total() int {
	return len(r.Bindings)
}

// AllSucceeded reports whether every binding succeeded; this drives the
// process exit code.
func (r RunResult) AllSucceeded() bool {
	return r.Succeeded() == r.Total()
}

// Summary returns the human-readable run summary line
func (r RunResult) Summary() string {
	return fmt.Sprintf("import summary: %d/%d bindings succeeded", r.Succeeded(), r.Total())
}
