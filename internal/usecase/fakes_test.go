package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"SentiCast/internal/domain/models"
)

type fakeSource struct {
	mu      sync.Mutex
	rows    []models.RawObservation
	fp      string
	loadErr error
	fpErr   error
	loads   int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Load(context.Context) ([]models.RawObservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]models.RawObservation(nil), f.rows...), nil
}

func (f *fakeSource) Fingerprint(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fp, f.fpErr
}

func (f *fakeSource) set(rows []models.RawObservation, fp string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows, f.fp = rows, fp
}

type fakeMetrics struct {
	mu       sync.Mutex
	reloads  map[string]int
	resolves map[string]int
	runs     int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{reloads: map[string]int{}, resolves: map[string]int{}}
}

func (m *fakeMetrics) RecordCatalog(_ string, _, runs, _ int) {
	m.mu.Lock()
	m.runs = runs
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordReload(result string) {
	m.mu.Lock()
	m.reloads[result]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordResolve(model string, fallback bool) {
	m.mu.Lock()
	m.resolves[fmt.Sprintf("%s/%t", model, fallback)]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordLatency(string, float64) {}

type fakeClassifier struct {
	mu        sync.Mutex
	endpoints []models.SentimentEndpoint
	result    models.Classification
	calls     int
}

func (f *fakeClassifier) Classify(context.Context, string) models.Classification {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.result
}

func (f *fakeClassifier) Endpoints() []models.SentimentEndpoint { return f.endpoints }

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.SentimentClassified
	err    error
}

func (p *recordingPublisher) PublishClassified(_ context.Context, ev models.SentimentClassified) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type countingReloader struct {
	mu     sync.Mutex
	calls  []bool
	err    error
	notify chan struct{}
}

func (r *countingReloader) Reload(_ context.Context, force bool) (bool, error) {
	r.mu.Lock()
	r.calls = append(r.calls, force)
	r.mu.Unlock()
	if r.notify != nil {
		select {
		case r.notify <- struct{}{}:
		default:
		}
	}
	return r.err == nil, r.err
}

func (r *countingReloader) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

var errBoom = errors.New("boom")

func obs(runID, date string, actual, predicted float64) models.RawObservation {
	return models.RawObservation{RunID: runID, Date: date, Actual: actual, Predicted: predicted}
}

const (
	runLSTM     = "ws20_scalerRobustScaler_lossmse_bs32_ep200"
	runLSTMBase = "baseline_ws20_scalerRobustScaler_lossmse_bs32_ep200"
	runLSTMAlt  = "ws10_scalerMinMaxScaler_lossmae_bs64_ep100"
	runGRU      = "ws20_scalerRobustScaler_lossmse_bs32_ep200_gru"
)

func datasetRows() []models.RawObservation {
	return []models.RawObservation{
		obs(runLSTM, "2024-01-02", 10, 11),
		obs(runLSTM, "2024-01-03", 12, 12.5),
		obs(runLSTMBase, "2024-01-03", 12, 13),
		obs(runLSTMBase, "2024-01-04", 13, 14),
		obs(runLSTMAlt, "2024-01-02", 10, 9),
		obs(runGRU, "2024-01-02", 10, 10.5),
		obs("garbage", "2024-01-02", 1, 1),
	}
}
