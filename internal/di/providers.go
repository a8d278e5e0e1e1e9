package di

import (
	"context"
	"fmt"
	"time"

	"github.com/Nate99091/crypto/internal/domain/repository"
	"github.com/Nate99091/crypto/internal/handler/api"
	internalrepo "github.com/Nate99091/crypto/internal/repository"
	"github.com/Nate99091/crypto/internal/service/fees"
	"github.com/Nate99091/crypto/internal/service/kraken"
	"github.com/Nate99091/crypto/internal/usecase"
	"github.com/Nate99091/crypto/pkg/cache"
	pkgch "github.com/Nate99091/crypto/pkg/clickhouse"
	"github.com/Nate99091/crypto/pkg/config"
	xhttp "github.com/Nate99091/crypto/pkg/http"
	pkgkafka "github.com/Nate99091/crypto/pkg/kafka"
	"github.com/Nate99091/crypto/pkg/logger"
	"github.com/Nate99091/crypto/pkg/metrics"
	"github.com/Nate99091/crypto/pkg/server"
)

// ProvideLogger creates the application logger with an error collector so
// per-run reports can summarize what went wrong.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, err
	}
	return log.WithCollector(logger.NewCollector()), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideMarketSource creates the exchange market data client.
func ProvideMarketSource(cfg *config.Config, log *logger.Logger) repository.MarketSource {
	httpClient := xhttp.NewClient(xhttp.WithTimeout(cfg.Exchange.Timeout))
	return kraken.NewClient(cfg.Exchange.BaseURL, httpClient, log)
}

// ProvideCache creates the candle cache backend selected by config.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "file":
		return cache.NewFileCache(cache.WithFileDir(cfg.Cache.Dir))
	case "memory":
		return cache.NewMemoryCache(), nil
	case "redis":
		return cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
	case "none":
		return cache.Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// ProvideFeeTable loads the fee table. A configured fee file that cannot
// be read is a fatal configuration failure.
func ProvideFeeTable(cfg *config.Config) (*fees.Table, error) {
	table := fees.NewTable(cfg.Fees.DefaultFee)
	if cfg.Fees.File != "" {
		if err := table.LoadCSV(cfg.Fees.File); err != nil {
			return nil, fmt.Errorf("fee table: %w", err)
		}
	}
	return table, nil
}

// ProvideClickHouseClient creates a ClickHouse client.
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
	return client, nil
}

// ProvideHistoryStore creates the ClickHouse-backed record store and
// ensures its schema.
func ProvideHistoryStore(client *pkgch.Client, log *logger.Logger) (repository.HistoryStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := internalrepo.NewHistoryStore(ctx, client, log)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("history store: %w", err)
	}
	return store, nil
}

// ProvidePublisher creates the Kafka record publisher, or nil when
// publishing is disabled.
func ProvidePublisher(cfg *config.Config) (repository.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithTopic(cfg.Kafka.Topic),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatch(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.Linger),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer), nil
}

// ProvideFetcher creates the batched market fetcher.
func ProvideFetcher(
	cfg *config.Config,
	source repository.MarketSource,
	cacheSvc cache.Service,
	log *logger.Logger,
	rec *metrics.Recorder,
) *usecase.Fetcher {
	return usecase.NewFetcher(source, cacheSvc, cfg.Cache.TTL, cfg.Fetch.BatchSize, log, rec)
}

// ProvideEngine creates the discrepancy engine.
func ProvideEngine(
	cfg *config.Config,
	fetcher *usecase.Fetcher,
	feeTable *fees.Table,
	store repository.HistoryStore,
	publisher repository.Publisher,
	log *logger.Logger,
	rec *metrics.Recorder,
) *usecase.Engine {
	return usecase.NewEngine(
		cfg,
		fetcher,
		usecase.NewNormalizer(),
		usecase.NewAnalyzer(feeTable),
		usecase.NewCalibrator(),
		usecase.NewScorer(),
		usecase.NewArtifactWriter(cfg.Output.TradesFile, cfg.Output.OutliersFile),
		feeTable,
		store,
		publisher,
		log,
		rec,
	)
}

// ProvideResults creates the latest-report holder.
func ProvideResults() *usecase.Results {
	return usecase.NewResults()
}

// ProvideHTTPHandler creates the results API handler.
func ProvideHTTPHandler(results *usecase.Results) xhttp.Handler {
	return api.NewResultsHandler(results)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	engine *usecase.Engine,
	results *usecase.Results,
	store repository.HistoryStore,
	publisher repository.Publisher,
	cacheSvc cache.Service,
	log *logger.Logger,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, engine, results, store, publisher, cacheSvc, log, handler)
}
