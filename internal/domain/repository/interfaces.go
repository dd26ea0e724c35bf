package repository

import (
	"context"

	"SentiCast/internal/domain/models"
)

// ObservationSource yields the full row set of the forecast dataset.
type ObservationSource interface {
	Name() string
	Load(ctx context.Context) ([]models.RawObservation, error)
	// Fingerprint changes whenever Load would return different rows.
	Fingerprint(ctx context.Context) (string, error)
}

// ObservationStore accepts rows for a source that can be written to.
type ObservationStore interface {
	Init(ctx context.Context) error
	StoreBatch(ctx context.Context, rows []models.RawObservation) error
}

// EventPublisher emits domain events. Implementations must be safe for
// concurrent use.
type EventPublisher interface {
	PublishClassified(ctx context.Context, ev models.SentimentClassified) error
	Close() error
}

// Metrics records catalog and resolver activity.
type Metrics interface {
	RecordCatalog(source string, rows, runs, skipped int)
	RecordReload(result string)
	RecordResolve(model string, fallback bool)
	RecordLatency(op string, seconds float64)
}
