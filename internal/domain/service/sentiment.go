package service

import (
	"context"

	"SentiCast/internal/domain/models"
)

// SentimentClassifier fans text out to every configured endpoint. It never
// fails as a whole: endpoint failures are reported per result.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) models.Classification
	Endpoints() []models.SentimentEndpoint
}
