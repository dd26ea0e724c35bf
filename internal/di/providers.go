package di

import (
	"context"
	"fmt"
	"time"

	"SentiCast/internal/domain/repository"
	domsvc "SentiCast/internal/domain/service"
	"SentiCast/internal/handler/api"
	internalrepo "SentiCast/internal/repository"
	"SentiCast/internal/service/cache"
	"SentiCast/internal/service/ratelimit"
	"SentiCast/internal/services/sentiment"
	"SentiCast/internal/usecase"
	pkgch "SentiCast/pkg/clickhouse"
	"SentiCast/pkg/config"
	xhttp "SentiCast/pkg/http"
	pkgkafka "SentiCast/pkg/kafka"
	applogger "SentiCast/pkg/logger"
	"SentiCast/pkg/metrics"
	"SentiCast/pkg/server"
)

// ProvideLogger builds the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideObservationSource picks the dataset backend named by
// forecast.source. The ClickHouse table is created when missing.
func ProvideObservationSource(cfg *config.Config, l *applogger.Logger) (repository.ObservationSource, func(), error) {
	if cfg.Forecast.Source != "clickhouse" {
		return internalrepo.NewCSVSource(cfg.Forecast.CSVPath, l), func() {}, nil
	}

	client, cleanup, err := ProvideClickHouseClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	src, err := internalrepo.NewClickHouseSource(client, cfg.ClickHouse.Table, l)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := src.Init(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return src, cleanup, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCatalogService creates the catalog owner.
func ProvideCatalogService(src repository.ObservationSource, m repository.Metrics, l *applogger.Logger) *usecase.CatalogService {
	return usecase.NewCatalogService(src, m, l.With(applogger.String("component", "catalog")))
}

// ProvideForecastView creates the series use case.
func ProvideForecastView(catalog *usecase.CatalogService, m repository.Metrics, l *applogger.Logger) *usecase.ForecastViewUseCase {
	return usecase.NewForecastViewUseCase(catalog, m, l)
}

// ProvideSentimentClassifier creates the endpoint fan-out.
func ProvideSentimentClassifier(cfg *config.Config, l *applogger.Logger) domsvc.SentimentClassifier {
	return sentiment.NewFanOutFromConfig(cfg, l.With(applogger.String("component", "sentiment")))
}

// ProvideCache creates the classification cache backend.
func ProvideCache(cfg *config.Config) (cache.BytesCache, func(), error) {
	c, err := cache.New(cache.Config{
		Backend:       cfg.Cache.Backend,
		MemoryMaxSize: cfg.Cache.MaxEntries,
		Redis: cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("cache: %w", err)
	}
	return c, func() { _ = c.Close() }, nil
}

// ProvideEventPublisher publishes to Kafka when enabled and drops events
// otherwise.
func ProvideEventPublisher(cfg *config.Config) (repository.EventPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopPublisher{}, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	pub := internalrepo.NewKafkaPublisher(producer, cfg.Kafka.EventsTopic)
	return pub, func() { _ = pub.Close() }, nil
}

// ProvideSentimentUseCase creates the classify use case.
func ProvideSentimentUseCase(
	classifier domsvc.SentimentClassifier,
	c cache.BytesCache,
	pub repository.EventPublisher,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.SentimentUseCase {
	return usecase.NewSentimentUseCase(classifier, c, cfg.Cache.TTL, pub, l)
}

// ProvideRateLimiter creates the per-client classify limiter.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Sentiment.RateLimit.Capacity, cfg.Sentiment.RateLimit.RefillPerSec)
}

// ProvideReloadScheduler creates the cron and file watch triggers. Only a
// CSV source is watched.
func ProvideReloadScheduler(catalog *usecase.CatalogService, cfg *config.Config, l *applogger.Logger) *usecase.ReloadScheduler {
	watch := ""
	if cfg.Forecast.Source == "csv" && cfg.Forecast.Watch {
		watch = cfg.Forecast.CSVPath
	}
	return usecase.NewReloadScheduler(catalog, cfg.Forecast.ReloadCron, watch, l.With(applogger.String("component", "reload")))
}

// ProvideKafkaConsumer creates the dataset events consumer, or nil when
// Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config, catalog *usecase.CatalogService, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	cl := l.With(applogger.String("component", "kafka"))
	consumer, err := pkgkafka.NewConsumer(cl,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.RegisterHandler(usecase.NewDatasetEventsHandler(cfg.Kafka.DatasetTopic, catalog, cl))
	return consumer, nil
}

// ProvideCatalogHub creates the websocket reload notifier.
func ProvideCatalogHub(catalog *usecase.CatalogService, l *applogger.Logger) *api.CatalogHub {
	return api.NewCatalogHub(l, catalog)
}

// ProvideHandlers collects every HTTP route group.
func ProvideHandlers(
	catalog *usecase.CatalogService,
	view *usecase.ForecastViewUseCase,
	sent *usecase.SentimentUseCase,
	rl *ratelimit.Limiter,
	hub *api.CatalogHub,
	l *applogger.Logger,
) []xhttp.Handler {
	return []xhttp.Handler{
		api.NewHealthHandler(catalog),
		api.NewForecastEchoHandler(l, view, catalog),
		api.NewSentimentEchoHandler(l, sent, rl),
		hub,
	}
}

// ProvideHTTPServer creates the echo server.
func ProvideHTTPServer(cfg *config.Config, handlers []xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(l.With(applogger.String("component", "http")), handlers,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	l *applogger.Logger,
	catalog *usecase.CatalogService,
	httpServer *xhttp.Server,
	scheduler *usecase.ReloadScheduler,
	consumer *pkgkafka.Consumer,
	hub *api.CatalogHub,
	rl *ratelimit.Limiter,
) *server.App {
	return server.New(l, catalog, httpServer, scheduler, consumer, hub, rl)
}
