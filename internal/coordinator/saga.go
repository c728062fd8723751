// Package coordinator runs a sequence of steps as a unit: if a step fails,
// every step that already succeeded is compensated in reverse order.
//
// Every transition of a run is appended to a runlog.Repository, in this
// order:
//
//	STARTED, STEP_DONE (once per successful step), COMPLETED
//
// or, when a step fails:
//
//	STARTED, STEP_DONE..., COMPENSATING, FAILED
//
// Each entry carries the trace_id of the orchestrator.run span, so a row
// in the run log can be joined with the distributed trace that produced it.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jcmexdev/ecommerce-promotions/internal/coordinator/runlog"
)

// Step represents a single unit of work in a run.
// Each step must have a compensating action to undo its effects.
//
// Compensation contract:
//  1. Compensate is only called for steps whose Execute returned nil.
//     The failing step is expected to leave no side effects behind.
//  2. Compensations run in reverse (LIFO) order.
//  3. A Compensate error does not stop the rollback. It is logged and
//     stored with the FAILED entry.
//  4. Compensate receives the run context, not the failed step's context.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Orchestrator manages the execution of a collection of Steps.
type Orchestrator struct {
	runID  string
	steps  []Step
	runLog runlog.Repository // nil-safe: transitions are not persisted if nil
}

// NewOrchestrator returns an orchestrator for the run identified by runID.
func NewOrchestrator(runID string, steps []Step, repo runlog.Repository) *Orchestrator {
	return &Orchestrator{runID: runID, steps: steps, runLog: repo}
}

// Start runs the steps sequentially.
// If a step fails, it triggers the compensation of all previously successful steps.
//
// Spans: one orchestrator.run span per call (attribute run.id) with one
// child span per executed step, named after the step. A failing step marks
// both its own span and the run span as errored.
//
// The returned error wraps the failing step's error, so callers can still
// match it with errors.Is. Compensation errors are not part of it; they only
// appear in the run log.
func (o *Orchestrator) Start(ctx context.Context) error {
	tracer := otel.Tracer("coordinator")
	ctx, span := tracer.Start(ctx, "orchestrator.run")
	span.SetAttributes(attribute.String("run.id", o.runID))
	defer span.End()

	o.record(ctx, runlog.StatusStarted, "", nil)

	var done []Step
	for _, step := range o.steps {
		stepCtx, stepSpan := tracer.Start(ctx, step.Name())
		slog.InfoContext(stepCtx, "executing step", "run_id", o.runID, "step", step.Name())

		if err := step.Execute(stepCtx); err != nil {
			stepSpan.RecordError(err)
			stepSpan.SetStatus(codes.Error, err.Error())
			stepSpan.End()

			slog.ErrorContext(ctx, "step failed, starting rollback", "run_id", o.runID, "step", step.Name(), "error", err)
			errs := []string{fmt.Sprintf("step %s failed: %v", step.Name(), err)}
			o.record(ctx, runlog.StatusCompensating, step.Name(), errs)
			errs = append(errs, o.rollback(ctx, done)...)
			o.record(ctx, runlog.StatusFailed, step.Name(), errs)

			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("coordinator: run %s: %w", o.runID, err)
		}
		stepSpan.End()

		// Track successful step for potential compensation (LIFO)
		done = append(done, step)
		o.record(ctx, runlog.StatusStepDone, step.Name(), nil)
	}

	o.record(ctx, runlog.StatusCompleted, "", nil)
	slog.InfoContext(ctx, "run completed", "run_id", o.runID)
	return nil
}

// rollback compensates steps from last to first and returns one message per
// failed compensation.
func (o *Orchestrator) rollback(ctx context.Context, steps []Step) []string {
	var errs []string
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		slog.InfoContext(ctx, "compensating step", "run_id", o.runID, "step", step.Name())
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "CRITICAL: failed to compensate step", "run_id", o.runID, "step", step.Name(), "error", err)
			errs = append(errs, fmt.Sprintf("compensation of %s failed: %v", step.Name(), err))
		}
	}
	return errs
}

// record persists a run log entry. A Save failure is only logged: losing an
// audit row must not change the outcome of the run.
func (o *Orchestrator) record(ctx context.Context, status runlog.Status, step string, errs []string) {
	if o.runLog == nil {
		return
	}
	entry := runlog.NewEntry(ctx, o.runID, status, step, errs)
	if err := o.runLog.Save(ctx, entry); err != nil {
		slog.WarnContext(ctx, "failed to save run log entry", "run_id", o.runID, "status", status, "error", err)
	}
}
