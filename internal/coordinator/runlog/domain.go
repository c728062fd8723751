// Package runlog defines the append-only log of orchestrated runs.
//
// Each state transition of a run is stored as its own row, stamped with the
// trace and span ids active at the time, so a run can be followed in the
// database and jumped to in the tracing backend.
package runlog

import "time"

// Status represents the lifecycle state of a run.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// Entry is a single row of the run log.
type Entry struct {
	RunID string
	// Step is the name of the step that was just executed or failed.
	Step   string
	Status Status
	// Errors is a JSON array of failure details, "[]" when there are none.
	Errors  string
	TraceID string
	SpanID  string
	At      time.Time
}
