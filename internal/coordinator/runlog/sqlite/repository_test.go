package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-promotions/internal/coordinator/runlog"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "runlog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepository_SaveAndHistory(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	statuses := []runlog.Status{runlog.StatusStarted, runlog.StatusStepDone, runlog.StatusCompleted}
	for i, s := range statuses {
		require.NoError(t, repo.Save(ctx, &runlog.Entry{
			RunID:  "run-1",
			Status: s,
			Step:   "apply",
			Errors: "[]",
			At:     start.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, repo.Save(ctx, &runlog.Entry{RunID: "run-2", Status: runlog.StatusStarted, Errors: "[]", At: start}))

	history, err := repo.History(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, runlog.StatusStarted, history[0].Status)

	latest, err := repo.GetLatest(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, runlog.StatusCompleted, latest.Status)
	assert.True(t, latest.At.Equal(start.Add(2*time.Second)))
}

func TestRepository_GetLatestNotFound(t *testing.T) {
	_, err := openTestRepo(t).GetLatest(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
