package domain

import (
	"path/filepath"
	"time"
)

// FilenameDelta records a proposed rename.
type FilenameDelta struct {
	OldPath     string
	NewBasename string
}

// NewPath returns the destination path.
func (d FilenameDelta) NewPath() string {
	return filepath.Join(filepath.Dir(d.OldPath), d.NewBasename)
}

// Unchanged reports whether the rename would be a no-op.
func (d FilenameDelta) Unchanged() bool {
	return filepath.Base(d.OldPath) == d.NewBasename
}

// Span splits the old and new basenames into a shared prefix, the
// differing middles and a shared suffix. Offsets are in runes.
func (d FilenameDelta) Span() (prefix, oldMiddle, newMiddle, suffix string) {
	o, n := []rune(filepath.Base(d.OldPath)), []rune(d.NewBasename)
	p := 0
	for p < len(o) && p < len(n) && o[p] == n[p] {
		p++
	}
	s := 0
	for s < len(o)-p && s < len(n)-p && o[len(o)-1-s] == n[len(n)-1-s] {
		s++
	}
	return string(o[:p]), string(o[p : len(o)-s]), string(n[p : len(n)-s]), string(o[len(o)-s:])
}

// RenameOutcome is the result reported by a rename handler.
type RenameOutcome string

// Rename outcomes.
const (
	RenameDone      RenameOutcome = "renamed"
	RenameConflict  RenameOutcome = "conflict"
	RenameIOFailure RenameOutcome = "io_failure"
	RenameDeclined  RenameOutcome = "declined"
)

// ResultKind classifies the outcome of processing one file.
type ResultKind string

// Result kinds.
const (
	ResultRenamed     ResultKind = "renamed"
	ResultWouldRename ResultKind = "would_rename"
	ResultUnchanged   ResultKind = "unchanged"
	ResultSkipped     ResultKind = "skipped"
	ResultFailed      ResultKind = "failed"
)

// FileResult is the per-file report line.
type FileResult struct {
	Path        string
	Kind        ResultKind
	Delta       *FilenameDelta
	Rule        string
	Score       float64
	Coverage    float64
	Reason      string
	Err         error
	ProcessedAt time.Time
}

// RunReport aggregates the results of a run.
type RunReport struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []FileResult
	Cancelled  bool
}

// Count returns the number of results of kind k.
func (r *RunReport) Count(k ResultKind) int {
	n := 0
	for i := range r.Results {
		if r.Results[i].Kind == k {
			n++
		}
	}
	return n
}

// Add appends a result.
func (r *RunReport) Add(res FileResult) {
	r.Results = append(r.Results, res)
}
