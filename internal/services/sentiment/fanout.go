package sentiment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"SentiCast/internal/domain/models"
	domsvc "SentiCast/internal/domain/service"
	"SentiCast/internal/service/metrics"
	"SentiCast/pkg/config"
	xhttp "SentiCast/pkg/http"
	applogger "SentiCast/pkg/logger"
)

// FanOut classifies text with every endpoint concurrently and reduces the
// answers to a majority label.
type FanOut struct {
	endpoints []models.SentimentEndpoint
	client    *endpointClient
	logger    *applogger.Logger
}

// Option configures a FanOut.
type Option func(*fanOutOptions)

type fanOutOptions struct {
	timeout    time.Duration
	clientOpts []xhttp.ClientOption
}

// WithTimeout bounds each endpoint call.
func WithTimeout(d time.Duration) Option {
	return func(o *fanOutOptions) { o.timeout = d }
}

// WithClientOptions passes options to the underlying HTTP client.
func WithClientOptions(opts ...xhttp.ClientOption) Option {
	return func(o *fanOutOptions) { o.clientOpts = append(o.clientOpts, opts...) }
}

// NewFanOut builds a FanOut over endpoints, kept in the given order.
func NewFanOut(endpoints []models.SentimentEndpoint, l *applogger.Logger, opts ...Option) *FanOut {
	o := fanOutOptions{timeout: defaultCallTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	metrics.Register()
	return &FanOut{
		endpoints: append([]models.SentimentEndpoint(nil), endpoints...),
		client:    newEndpointClient(o.timeout, o.clientOpts...),
		logger:    l,
	}
}

// NewFanOutFromConfig wires a FanOut from the sentiment section.
func NewFanOutFromConfig(cfg *config.Config, l *applogger.Logger) *FanOut {
	return NewFanOut(EndpointsFromConfig(cfg), l, WithTimeout(cfg.Sentiment.Timeout))
}

// EndpointsFromConfig converts configured endpoints in declaration order.
func EndpointsFromConfig(cfg *config.Config) []models.SentimentEndpoint {
	out := make([]models.SentimentEndpoint, 0, len(cfg.Sentiment.Endpoints))
	for _, ep := range cfg.Sentiment.Endpoints {
		out = append(out, models.SentimentEndpoint{
			Name:               ep.Name,
			URL:                ep.URL,
			SupportsConfidence: ep.SupportsConfidence,
		})
	}
	return out
}

// Endpoints returns a copy of the endpoint list.
func (f *FanOut) Endpoints() []models.SentimentEndpoint {
	return append([]models.SentimentEndpoint(nil), f.endpoints...)
}

// Classify calls every endpoint and waits for all of them. Results keep the
// endpoint declaration order regardless of completion order.
func (f *FanOut) Classify(ctx context.Context, text string) models.Classification {
	results := make([]models.EndpointResult, len(f.endpoints))

	var g errgroup.Group
	for i, ep := range f.endpoints {
		g.Go(func() error {
			results[i] = f.classifyOne(ctx, ep, text)
			return nil
		})
	}
	_ = g.Wait()

	overall := Consensus(results)
	metrics.Consensus.WithLabelValues(overall).Inc()
	return models.Classification{
		Results:     results,
		Overall:     overall,
		OverallTone: models.ParseLabel(overall).Tone(),
	}
}

func (f *FanOut) classifyOne(ctx context.Context, ep models.SentimentEndpoint, text string) models.EndpointResult {
	start := time.Now()
	defer func() {
		metrics.EndpointLatency.WithLabelValues(ep.Name).Observe(time.Since(start).Seconds())
	}()

	raw, conf, err := f.client.call(ctx, ep.URL, text)
	sentiment := Normalize(raw)
	if err == nil && sentiment == "" {
		err = errMissingSentiment
	}
	if err != nil {
		metrics.EndpointFailures.WithLabelValues(ep.Name).Inc()
		f.logger.Warn("sentiment endpoint failed",
			applogger.String("endpoint", ep.Name),
			applogger.Duration("elapsed", time.Since(start)),
			applogger.Error(err),
		)
		return failedResult(ep.Name, err)
	}

	label := models.ParseLabel(sentiment)
	res := models.EndpointResult{
		Model:     ep.Name,
		Sentiment: sentiment,
		Label:     label,
		Tone:      label.Tone(),
	}
	if ep.SupportsConfidence && conf != nil {
		res.Confidence = FormatConfidence(*conf)
	}
	return res
}

func failedResult(model string, err error) models.EndpointResult {
	var se *xhttp.StatusError
	cause := err.Error()
	if errors.As(err, &se) {
		cause = fmt.Sprintf("HTTP error! status: %d", se.Code)
	}
	return models.EndpointResult{
		Model:     model,
		Sentiment: models.FailedSentiment,
		Label:     models.LabelFailed,
		Tone:      models.LabelFailed.Tone(),
		Note:      "API call failed: " + cause,
	}
}

var _ domsvc.SentimentClassifier = (*FanOut)(nil)
