package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	applogger "SentiCast/pkg/logger"
)

const defaultDebounce = 500 * time.Millisecond

// Reloader rebuilds the catalog.
type Reloader interface {
	Reload(ctx context.Context, force bool) (bool, error)
}

// ReloadScheduler triggers reloads on a cron schedule and, optionally, on
// changes to a watched file.
type ReloadScheduler struct {
	reloader  Reloader
	spec      string
	watchPath string
	debounce  time.Duration
	l         *applogger.Logger

	cron    *cron.Cron
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewReloadScheduler builds a scheduler. An empty spec disables the cron
// trigger; an empty watchPath disables the file trigger.
func NewReloadScheduler(r Reloader, spec, watchPath string, l *applogger.Logger) *ReloadScheduler {
	return &ReloadScheduler{
		reloader:  r,
		spec:      spec,
		watchPath: watchPath,
		debounce:  defaultDebounce,
		l:         l,
	}
}

// Start registers the triggers. Reloads run on a context derived from ctx
// and cancelled by Stop.
func (s *ReloadScheduler) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	if s.spec != "" {
		s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
		if _, err := s.cron.AddFunc(s.spec, func() { s.trigger(ctx, "cron") }); err != nil {
			s.cancel()
			return fmt.Errorf("reload schedule %q: %w", s.spec, err)
		}
		s.cron.Start()
		s.l.Info("reload schedule started", applogger.String("spec", s.spec))
	}

	if s.watchPath != "" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			s.stopCron()
			s.cancel()
			return fmt.Errorf("create watcher: %w", err)
		}
		// Watch the directory; replacing the file by rename drops a file watch.
		dir := filepath.Dir(s.watchPath)
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			s.stopCron()
			s.cancel()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		s.watcher = w
		s.wg.Add(1)
		go s.watchLoop(ctx)
		s.l.Info("watching dataset", applogger.String("path", s.watchPath))
	}
	return nil
}

// Stop cancels in-flight reloads and waits for the triggers to exit.
func (s *ReloadScheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.stopCron()
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	s.wg.Wait()
}

func (s *ReloadScheduler) stopCron() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *ReloadScheduler) watchLoop(ctx context.Context) {
	defer s.wg.Done()

	target := filepath.Clean(s.watchPath)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				timer.Reset(s.debounce)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.l.Warn("dataset watcher error", applogger.Error(err))
		case <-timer.C:
			s.trigger(ctx, "watch")
		}
	}
}

func (s *ReloadScheduler) trigger(ctx context.Context, by string) {
	changed, err := s.reloader.Reload(ctx, false)
	if err != nil {
		s.l.Warn("scheduled reload failed", applogger.String("trigger", by), applogger.Error(err))
		return
	}
	if changed {
		s.l.Info("dataset change picked up", applogger.String("trigger", by))
	}
}
