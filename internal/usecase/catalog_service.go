package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	domrepo "SentiCast/internal/domain/repository"
	"SentiCast/internal/services/forecast"
	applogger "SentiCast/pkg/logger"
)

// ErrCatalogLoading is returned while no snapshot has loaded yet.
var ErrCatalogLoading = errors.New("catalog is loading")

// Snapshot is one immutable load of the dataset.
type Snapshot struct {
	Catalog     *forecast.Catalog
	Source      string
	Fingerprint string
	LoadedAt    time.Time
}

// CatalogListener is called after every snapshot swap, on the reloading
// goroutine.
type CatalogListener func(Snapshot)

// CatalogStatus summarizes the service for health checks.
type CatalogStatus struct {
	Loaded    bool      `json:"catalog_loaded"`
	Source    string    `json:"source"`
	Models    int       `json:"models"`
	Runs      int       `json:"runs"`
	Rows      int       `json:"rows"`
	Skipped   int       `json:"skipped"`
	LoadedAt  time.Time `json:"loaded_at,omitzero"`
	LastError string    `json:"last_error,omitempty"`
}

// CatalogService owns the current catalog snapshot. Readers never block;
// reloads are serialized and swap the snapshot atomically.
type CatalogService struct {
	src     domrepo.ObservationSource
	metrics domrepo.Metrics
	l       *applogger.Logger

	cur     atomic.Pointer[Snapshot]
	lastErr atomic.Pointer[string]
	mu      sync.Mutex

	lmu       sync.RWMutex
	listeners []CatalogListener
}

func NewCatalogService(src domrepo.ObservationSource, metrics domrepo.Metrics, l *applogger.Logger) *CatalogService {
	return &CatalogService{src: src, metrics: metrics, l: l}
}

// Snapshot returns the current snapshot or ErrCatalogLoading.
func (s *CatalogService) Snapshot() (*Snapshot, error) {
	snap := s.cur.Load()
	if snap == nil {
		return nil, ErrCatalogLoading
	}
	return snap, nil
}

// Subscribe registers fn for future swaps.
func (s *CatalogService) Subscribe(fn CatalogListener) {
	s.lmu.Lock()
	s.listeners = append(s.listeners, fn)
	s.lmu.Unlock()
}

// Reload rebuilds the catalog when the source fingerprint changed, or
// always when force is set. On failure the previous snapshot stays.
func (s *CatalogService) Reload(ctx context.Context, force bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() { s.metrics.RecordLatency("catalog_reload", time.Since(start).Seconds()) }()

	fp, err := s.src.Fingerprint(ctx)
	if err != nil {
		return false, s.fail(fmt.Errorf("fingerprint %s: %w", s.src.Name(), err))
	}
	if prev := s.cur.Load(); prev != nil && !force && prev.Fingerprint == fp {
		s.metrics.RecordReload("unchanged")
		return false, nil
	}

	rows, err := s.src.Load(ctx)
	if err != nil {
		return false, s.fail(fmt.Errorf("load %s: %w", s.src.Name(), err))
	}

	cat := forecast.BuildCatalog(rows, s.l)
	snap := &Snapshot{
		Catalog:     cat,
		Source:      s.src.Name(),
		Fingerprint: fp,
		LoadedAt:    time.Now(),
	}
	s.cur.Store(snap)
	s.lastErr.Store(nil)

	s.metrics.RecordReload("ok")
	s.metrics.RecordCatalog(snap.Source, len(rows), cat.Runs(), cat.Skipped())
	s.l.Info("catalog reloaded",
		applogger.String("source", snap.Source),
		applogger.Bool("forced", force),
		applogger.Int("rows", len(rows)),
		applogger.Int("runs", cat.Runs()),
		applogger.Duration("duration_ms", time.Since(start)),
	)

	s.lmu.RLock()
	listeners := append([]CatalogListener(nil), s.listeners...)
	s.lmu.RUnlock()
	for _, fn := range listeners {
		fn(*snap)
	}
	return true, nil
}

func (s *CatalogService) fail(err error) error {
	msg := err.Error()
	s.lastErr.Store(&msg)
	s.metrics.RecordReload("error")
	s.l.Error("catalog reload failed",
		applogger.Bool("serving_previous", s.cur.Load() != nil),
		applogger.Error(err),
	)
	return err
}

// Status reports what is currently served.
func (s *CatalogService) Status() CatalogStatus {
	st := CatalogStatus{Source: s.src.Name()}
	if msg := s.lastErr.Load(); msg != nil {
		st.LastError = *msg
	}
	snap := s.cur.Load()
	if snap == nil {
		return st
	}
	st.Loaded = true
	st.Source = snap.Source
	st.Models = len(snap.Catalog.Models())
	st.Runs = snap.Catalog.Runs()
	st.Rows = len(snap.Catalog.Rows())
	st.Skipped = snap.Catalog.Skipped()
	st.LoadedAt = snap.LoadedAt
	return st
}
