package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applogger "SentiCast/pkg/logger"
)

func TestDatasetEventsHandler(t *testing.T) {
	r := &countingReloader{}
	h := NewDatasetEventsHandler("senticast.forecast.dataset", r, applogger.Nop())
	ctx := context.Background()

	assert.Equal(t, "senticast.forecast.dataset", h.Topic())
	require.NoError(t, h.Handle(ctx, []byte(`{"source":"etl","force":true}`)))
	require.NoError(t, h.Handle(ctx, nil))
	require.NoError(t, h.Handle(ctx, []byte(`not json`)))
	assert.Equal(t, []bool{true, false}, r.calls)

	r.err = errBoom
	assert.Error(t, h.Handle(ctx, []byte(`{}`)))
}

func TestReloadSchedulerRejectsBadSpec(t *testing.T) {
	s := NewReloadScheduler(&countingReloader{}, "every now and then", "", applogger.Nop())
	assert.Error(t, s.Start(context.Background()))
}

func TestReloadSchedulerWatchesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preds.csv")
	require.NoError(t, os.WriteFile(path, []byte("run_id,date,actual,predicted\n"), 0o644))

	r := &countingReloader{notify: make(chan struct{}, 1)}
	s := NewReloadScheduler(r, "", path, applogger.Nop())
	s.debounce = 20 * time.Millisecond
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("run_id,date,actual,predicted\nx,2024-01-01,1,1\n"), 0o644))

	select {
	case <-r.notify:
	case <-time.After(5 * time.Second):
		t.Fatalf("reload was not triggered by file change")
	}
	assert.GreaterOrEqual(t, r.count(), 1)
}

func TestReloadSchedulerStopWithoutTriggers(t *testing.T) {
	s := NewReloadScheduler(&countingReloader{}, "@every 1h", "", applogger.Nop())
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}
