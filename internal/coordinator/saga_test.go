package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jcmexdev/ecommerce-promotions/internal/coordinator/runlog"
)

type recordingStep struct {
	name     string
	failExec error
	failComp error
	journal  *[]string
}

func (s *recordingStep) Name() string { return s.name }

func (s *recordingStep) Execute(context.Context) error {
	*s.journal = append(*s.journal, "exec:"+s.name)
	return s.failExec
}

func (s *recordingStep) Compensate(context.Context) error {
	*s.journal = append(*s.journal, "comp:"+s.name)
	return s.failComp
}

type memoryRunLog struct {
	mu      sync.Mutex
	entries []*runlog.Entry
}

func (m *memoryRunLog) Save(_ context.Context, e *runlog.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memoryRunLog) statuses() []runlog.Status {
	out := make([]runlog.Status, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Status
	}
	return out
}

func TestOrchestrator_AllStepsSucceed(t *testing.T) {
	var journal []string
	repo := &memoryRunLog{}
	steps := []Step{
		&recordingStep{name: "a", journal: &journal},
		&recordingStep{name: "b", journal: &journal},
	}

	err := NewOrchestrator("run-1", steps, repo).Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"exec:a", "exec:b"}, journal)
	assert.Equal(t, []runlog.Status{
		runlog.StatusStarted, runlog.StatusStepDone, runlog.StatusStepDone, runlog.StatusCompleted,
	}, repo.statuses())
}

func TestOrchestrator_FailureCompensatesInReverse(t *testing.T) {
	var journal []string
	repo := &memoryRunLog{}
	boom := errors.New("boom")
	steps := []Step{
		&recordingStep{name: "a", journal: &journal},
		&recordingStep{name: "b", journal: &journal, failComp: errors.New("stuck")},
		&recordingStep{name: "c", journal: &journal, failExec: boom},
		&recordingStep{name: "d", journal: &journal},
	}

	err := NewOrchestrator("run-2", steps, repo).Start(context.Background())
	require.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"exec:a", "exec:b", "exec:c", "comp:b", "comp:a"}, journal)

	last := repo.entries[len(repo.entries)-1]
	assert.Equal(t, runlog.StatusFailed, last.Status)
	assert.Equal(t, "c", last.Step)
	assert.Contains(t, last.Errors, "step c failed: boom")
	assert.Contains(t, last.Errors, "compensation of b failed: stuck")
}

func TestOrchestrator_NilRunLog(t *testing.T) {
	var journal []string
	err := NewOrchestrator("run-3", []Step{&recordingStep{name: "a", journal: &journal}}, nil).Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"exec:a"}, journal)
}

func TestOrchestrator_RunLogCarriesRunTrace(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	var journal []string
	repo := &memoryRunLog{}
	steps := []Step{
		&recordingStep{name: "a", journal: &journal},
		&recordingStep{name: "b", journal: &journal, failExec: errors.New("boom")},
	}

	err := NewOrchestrator("run-4", steps, repo).Start(context.Background())
	require.Error(t, err)

	require.Len(t, repo.entries, 4)
	traceID := repo.entries[0].TraceID
	assert.Len(t, traceID, 32)
	for _, e := range repo.entries {
		assert.Equal(t, traceID, e.TraceID, "status %s", e.Status)
		assert.NotEmpty(t, e.SpanID)
	}
}
