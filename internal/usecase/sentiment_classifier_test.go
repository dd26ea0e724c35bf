package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentiCast/internal/domain/models"
	"SentiCast/internal/service/cache"
	applogger "SentiCast/pkg/logger"
)

func result(model, sentiment string) models.EndpointResult {
	label := models.ParseLabel(sentiment)
	return models.EndpointResult{Model: model, Sentiment: sentiment, Label: label, Tone: label.Tone()}
}

func okClassification() models.Classification {
	return models.Classification{
		Results:     []models.EndpointResult{result("a", "Positive"), result("b", "Positive")},
		Overall:     "Positive",
		OverallTone: models.LabelPositive.Tone(),
	}
}

func TestSentimentClassifyCachesCompleteResults(t *testing.T) {
	clf := &fakeClassifier{
		endpoints: []models.SentimentEndpoint{{Name: "a", URL: "http://a"}, {Name: "b", URL: "http://b"}},
		result:    okClassification(),
	}
	pub := &recordingPublisher{}
	uc := NewSentimentUseCase(clf, cache.NewTTLCache(8), time.Minute, pub, applogger.Nop())
	ctx := context.Background()

	first, err := uc.Classify(ctx, "Tesla beats Q2 earnings expectations")
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := uc.Classify(ctx, "Tesla beats Q2 earnings expectations")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, first.Overall, second.Overall)
	assert.Equal(t, 1, clf.calls)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	_, err = uuid.Parse(ev.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Positive", ev.Overall)
	assert.Equal(t, "Tesla beats Q2 earnings expectations", ev.Text)
}

func TestSentimentClassifyDoesNotCachePartialFailures(t *testing.T) {
	cls := okClassification()
	cls.Results[1] = models.EndpointResult{Model: "b", Sentiment: models.FailedSentiment, Label: models.LabelFailed, Note: "API call failed: x"}
	clf := &fakeClassifier{result: cls}
	uc := NewSentimentUseCase(clf, cache.NewTTLCache(8), time.Minute, &recordingPublisher{}, applogger.Nop())

	_, _ = uc.Classify(context.Background(), "text")
	got, err := uc.Classify(context.Background(), "text")
	require.NoError(t, err)
	assert.False(t, got.Cached)
	assert.Equal(t, 2, clf.calls)
}

func TestSentimentClassifyRejectsBlank(t *testing.T) {
	clf := &fakeClassifier{}
	uc := NewSentimentUseCase(clf, nil, 0, &recordingPublisher{}, applogger.Nop())

	_, err := uc.Classify(context.Background(), "   \n")
	assert.True(t, errors.Is(err, ErrEmptyText))
	assert.Zero(t, clf.calls)
}

func TestSentimentClassifyIgnoresPublishErrors(t *testing.T) {
	clf := &fakeClassifier{result: okClassification()}
	uc := NewSentimentUseCase(clf, nil, 0, &recordingPublisher{err: errBoom}, applogger.Nop())

	got, err := uc.Classify(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "Positive", got.Overall)
}

func TestSentimentCacheKeyDependsOnEndpoints(t *testing.T) {
	a := NewSentimentUseCase(&fakeClassifier{endpoints: []models.SentimentEndpoint{{Name: "a", URL: "http://a"}}}, nil, 0, &recordingPublisher{}, applogger.Nop())
	b := NewSentimentUseCase(&fakeClassifier{endpoints: []models.SentimentEndpoint{{Name: "a", URL: "http://other"}}}, nil, 0, &recordingPublisher{}, applogger.Nop())

	assert.NotEqual(t, a.cacheKey("text"), b.cacheKey("text"))
	assert.Equal(t, a.cacheKey("text"), a.cacheKey("text"))
}

func TestSentimentSamples(t *testing.T) {
	uc := NewSentimentUseCase(&fakeClassifier{}, nil, 0, &recordingPublisher{}, applogger.Nop())
	s := uc.Samples()
	require.Len(t, s, 6)
	s[0] = "mutated"
	assert.Equal(t, "Tesla beats Q2 earnings expectations", uc.Samples()[0])
}
