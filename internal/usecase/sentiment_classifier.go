package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"SentiCast/internal/domain/models"
	domrepo "SentiCast/internal/domain/repository"
	domsvc "SentiCast/internal/domain/service"
	"SentiCast/internal/service/cache"
	applogger "SentiCast/pkg/logger"
)

// ErrEmptyText is returned for blank input.
var ErrEmptyText = errors.New("text is required")

// SampleInputs are the canned headlines offered next to the input box.
var SampleInputs = []string{
	"Tesla beats Q2 earnings expectations",
	"Oil prices hit a three-month low",
	"Fed likely to hike interest rates again",
	"Apple stock dips after weak iPhone sales",
	"Inflation cooling raises market optimism",
	"Job growth slows as unemployment ticks up",
}

// SentimentUseCase classifies text, caching complete answers and
// announcing each fresh classification.
type SentimentUseCase struct {
	classifier domsvc.SentimentClassifier
	cache      cache.BytesCache
	ttl        time.Duration
	publisher  domrepo.EventPublisher
	l          *applogger.Logger
	keyPrefix  string
	now        func() time.Time
}

// NewSentimentUseCase wires the use case. c may be nil to disable caching.
func NewSentimentUseCase(classifier domsvc.SentimentClassifier, c cache.BytesCache, ttl time.Duration, pub domrepo.EventPublisher, l *applogger.Logger) *SentimentUseCase {
	return &SentimentUseCase{
		classifier: classifier,
		cache:      c,
		ttl:        ttl,
		publisher:  pub,
		l:          l,
		keyPrefix:  endpointsFingerprint(classifier.Endpoints()),
		now:        time.Now,
	}
}

// Endpoints lists the configured classifiers in declaration order.
func (uc *SentimentUseCase) Endpoints() []models.SentimentEndpoint {
	return uc.classifier.Endpoints()
}

// Samples returns the canned inputs.
func (uc *SentimentUseCase) Samples() []string {
	return append([]string(nil), SampleInputs...)
}

// Classify returns the fan-out result for text. Endpoint failures are part
// of the result; only blank input is an error.
func (uc *SentimentUseCase) Classify(ctx context.Context, text string) (models.Classification, error) {
	if strings.TrimSpace(text) == "" {
		return models.Classification{}, ErrEmptyText
	}

	key := uc.cacheKey(text)
	if cls, ok := uc.cached(ctx, key); ok {
		return cls, nil
	}

	cls := uc.classifier.Classify(ctx, text)
	if len(cls.Results) > 0 && cls.AllSucceeded() {
		uc.store(ctx, key, cls)
	}

	ev := models.SentimentClassified{
		ID:      uuid.NewString(),
		Text:    text,
		Overall: cls.Overall,
		Results: cls.Results,
		At:      uc.now().UTC(),
	}
	if err := uc.publisher.PublishClassified(ctx, ev); err != nil {
		uc.l.Warn("publish classified event failed",
			applogger.String("event_id", ev.ID),
			applogger.Error(err),
		)
	}
	return cls, nil
}

func (uc *SentimentUseCase) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(uc.keyPrefix + "\x00" + text))
	return "sentiment:" + hex.EncodeToString(sum[:])
}

func (uc *SentimentUseCase) cached(ctx context.Context, key string) (models.Classification, bool) {
	if uc.cache == nil {
		return models.Classification{}, false
	}
	b, ok, err := uc.cache.GetBytes(ctx, key)
	if err != nil {
		uc.l.Warn("sentiment cache get failed", applogger.Error(err))
		return models.Classification{}, false
	}
	if !ok {
		return models.Classification{}, false
	}
	var cls models.Classification
	if err := json.Unmarshal(b, &cls); err != nil {
		uc.l.Warn("sentiment cache entry corrupt", applogger.String("key", key), applogger.Error(err))
		return models.Classification{}, false
	}
	cls.Cached = true
	return cls, true
}

func (uc *SentimentUseCase) store(ctx context.Context, key string, cls models.Classification) {
	if uc.cache == nil {
		return
	}
	b, err := json.Marshal(cls)
	if err != nil {
		uc.l.Warn("sentiment cache encode failed", applogger.Error(err))
		return
	}
	if err := uc.cache.SetBytes(ctx, key, b, uc.ttl); err != nil {
		uc.l.Warn("sentiment cache set failed", applogger.Error(err))
	}
}

// endpointsFingerprint changes whenever the endpoint set does, so cached
// answers from another configuration are never served.
func endpointsFingerprint(eps []models.SentimentEndpoint) string {
	h := sha256.New()
	for _, ep := range eps {
		fmt.Fprintf(h, "%s\x00%s\x00%t\n", ep.Name, ep.URL, ep.SupportsConfidence)
	}
	return hex.EncodeToString(h.Sum(nil))
}
