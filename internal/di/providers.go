package di

import (
	"context"
	"fmt"
	"time"

	"MatchCast/internal/domain/repository"
	domsvc "MatchCast/internal/domain/service"
	"MatchCast/internal/handler/api"
	mid "MatchCast/internal/middleware"
	internalrepo "MatchCast/internal/repository"
	enginemetrics "MatchCast/internal/service/metrics"
	"MatchCast/internal/services/ensemble"
	"MatchCast/internal/services/features"
	"MatchCast/internal/services/scoring"
	"MatchCast/internal/services/stats"
	"MatchCast/internal/usecase"
	"MatchCast/pkg/cache"
	pkgch "MatchCast/pkg/clickhouse"
	"MatchCast/pkg/config"
	xhttp "MatchCast/pkg/http"
	pkgkafka "MatchCast/pkg/kafka"
	applogger "MatchCast/pkg/logger"
	"MatchCast/pkg/metrics"
	"MatchCast/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := cfg.Logging.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Logging.Format
	if format == "" {
		format = "console"
	}
	output := cfg.Logging.Output
	if output == "" {
		output = "stdout"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: output})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	enginemetrics.Register()
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and ensures schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.Schema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideTeamStore creates the ClickHouse team store, cache-decorated when
// caching is enabled.
func ProvideTeamStore(chClient *pkgch.Client, cfg *config.Config) (repository.TeamStore, error) {
	store := internalrepo.NewClickHouseTeamStore(chClient)
	if !cfg.Cache.Enabled {
		return store, nil
	}

	var c cache.Service
	switch cfg.Cache.Backend {
	case "redis", "layered":
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		if cfg.Cache.Backend == "layered" {
			c = cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize))
		} else {
			c = rc
		}
	default:
		c = cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize))
	}
	return internalrepo.NewCachedTeamStore(store, c), nil
}

// ProvideFactorSource creates the external-factor source: a live HTTP feed
// when configured, neutral defaults otherwise.
func ProvideFactorSource(cfg *config.Config) domsvc.FactorSource {
	if cfg.Factors.URL != "" {
		return features.NewHTTPFactorSource(cfg.Factors.URL, cfg.Factors.Timeout)
	}
	return features.NeutralFactorSource{}
}

// ProvideSink creates the prediction persistence backend. With the Kafka
// backend, error-log aggregation piggybacks on the same producer.
func ProvideSink(cfg *config.Config, chClient *pkgch.Client, logger *applogger.Logger) (repository.PredictionSink, error) {
	switch cfg.Backend.Type {
	case "kafka":
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(cfg.Kafka.Brokers),
			pkgkafka.WithCompression(cfg.Kafka.Compression),
			pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
			pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
			pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
			pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
			pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
			pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
			pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
			pkgkafka.WithHashByKey(true),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		logger.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.Topic + ".logs",
			Publisher:      producer,
		})
		return internalrepo.NewKafkaSink(producer, cfg.Kafka.Topic), nil
	default:
		return internalrepo.NewClickHouseSink(chClient), nil
	}
}

// ProvideSinkPipeline wraps the sink with throttling and buffering.
func ProvideSinkPipeline(sink repository.PredictionSink, m repository.Metrics, cfg *config.Config) *mid.SinkPipeline {
	opts := []mid.PipelineOption{}
	if cfg.Engine.SinkMaxPerSec > 0 {
		opts = append(opts, mid.WithMaxPerSecond(cfg.Engine.SinkMaxPerSec))
	}
	if cfg.Engine.SinkBufferSize > 0 {
		opts = append(opts, mid.WithBufferSize(cfg.Engine.SinkBufferSize))
	}
	return mid.NewSinkPipeline(sink, m, opts...)
}

// ProvideAggregator creates the per-team statistic aggregator.
func ProvideAggregator(store repository.TeamStore) *stats.Aggregator {
	return stats.NewAggregator(store)
}

// ProvideBuilder creates the contextual feature builder.
func ProvideBuilder(store repository.TeamStore, factors domsvc.FactorSource, logger *applogger.Logger) *features.Builder {
	return features.NewBuilder(store, factors, logger)
}

// ProvideStrategies creates the scoring strategy set in ensemble order.
func ProvideStrategies() []domsvc.Strategy {
	return []domsvc.Strategy{
		scoring.NewCascadeStrategy(),
		scoring.NewVoteStrategy(),
		scoring.NewLayeredStrategy(),
	}
}

// ProvideCombiner creates the ensemble combiner from configured weights.
func ProvideCombiner(cfg *config.Config) (*ensemble.Combiner, error) {
	w := ensemble.Weights{
		Cascade: cfg.Engine.Weights.Cascade,
		Vote:    cfg.Engine.Weights.Vote,
		Layered: cfg.Engine.Weights.Layered,
	}
	if w.Cascade == 0 && w.Vote == 0 && w.Layered == 0 {
		w = ensemble.DefaultWeights()
	}
	boost := cfg.Engine.HomeAdvantageBoost
	if boost == 0 {
		boost = 0.1
	}
	return ensemble.New(w, boost)
}

// ProvidePredictor creates the prediction orchestrator. The sink pipeline
// stands between the predictor and the persistence backend.
func ProvidePredictor(
	cfg *config.Config,
	aggregator *stats.Aggregator,
	builder *features.Builder,
	strategies []domsvc.Strategy,
	combiner *ensemble.Combiner,
	pipeline *mid.SinkPipeline,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.Predictor {
	var opts []usecase.PredictorOption
	if cfg.Engine.PredictTimeout > 0 {
		opts = append(opts, usecase.WithTimeout(cfg.Engine.PredictTimeout))
	}
	return usecase.NewPredictor(aggregator, builder, strategies, combiner, pipeline, m, logger, opts...)
}

// ProvideHandler creates the Echo handler with an infrastructure health probe.
func ProvideHandler(logger *applogger.Logger, predictor *usecase.Predictor, chClient *pkgch.Client) xhttp.Handler {
	health := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return chClient.Health(ctx)
	}
	return api.NewPredictionsEchoHandler(logger, predictor, health)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	chClient *pkgch.Client,
	pipeline *mid.SinkPipeline,
	handler xhttp.Handler,
	logger *applogger.Logger,
) *server.App {
	return server.New(cfg, chClient, pipeline, handler, logger)
}
