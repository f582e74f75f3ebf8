package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mmrank/internal/config"
	"github.com/kailas-cloud/mmrank/internal/db"
	dbRedis "github.com/kailas-cloud/mmrank/internal/db/redis"
	"github.com/kailas-cloud/mmrank/internal/domain"
	"github.com/kailas-cloud/mmrank/internal/domain/content"
	logpkg "github.com/kailas-cloud/mmrank/internal/logger"
	"github.com/kailas-cloud/mmrank/internal/metrics"
	"github.com/kailas-cloud/mmrank/internal/repository/embcache"
	chiTransport "github.com/kailas-cloud/mmrank/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/mmrank/internal/transport/openai"
	"github.com/kailas-cloud/mmrank/internal/usecase/aggregate"
	embeddinguc "github.com/kailas-cloud/mmrank/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/mmrank/internal/usecase/health"
	"github.com/kailas-cloud/mmrank/internal/usecase/strategy"
	"github.com/kailas-cloud/mmrank/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting mmrank API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("strategy", cfg.Aggregator.Strategy),
		zap.Bool("embedding_cache", cfg.Database.Enabled()),
	)

	// Registered explicitly (no init()).
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterAggregationMetrics()
	metrics.RegisterHTTPMetrics()

	ctx := context.Background()

	// The embedding cache is optional: without addrs every vector comes from the provider.
	var store db.Store
	if cfg.Database.Enabled() {
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer redisStore.Close()

		if err := redisStore.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Database.Addrs))
		store = redisStore
	}

	kind, _ := strategy.ParseKind(cfg.Aggregator.Strategy)

	// use_existing never calls a provider, so none is built.
	var embedder domain.Embedder
	if kind != strategy.UseExisting {
		embedder = domain.NewRoutedEmbedder(
			buildEmbedder(cfg, cfg.Embedding.QueryInstruction, store, logger),
			buildEmbedder(cfg, cfg.Embedding.DocumentInstruction, store, logger),
		)
		logger.Info("Embedder created",
			zap.String("provider", cfg.Embedding.Provider),
			zap.String("model", cfg.Embedding.Model),
			zap.Int("dimensions", cfg.Embedding.Dimensions),
		)
	}

	aggSvc, err := aggregate.New(embedder, aggregatorConfig(cfg.Aggregator, kind), logger)
	if err != nil {
		logger.Fatal("Failed to create aggregator", zap.Error(err))
	}
	aggCfg := aggSvc.Config()
	logger.Info("Aggregator configured",
		zap.Float64("lambda", aggCfg.Lambda),
		zap.Float64("min_score", aggCfg.MinScore),
		zap.Int("max_results", aggCfg.MaxResults),
		zap.String("strategy", string(aggCfg.Strategy)),
	)

	healthSvc := healthuc.New(dbPinger(store), embeddingChecker(embedder), logger)

	server := chiTransport.NewServer(aggSvc, healthSvc, logger, chiTransport.Options{
		APIKeys:      cfg.Auth.APIKeys,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// aggregatorConfig maps the YAML section onto the service config. Defaults are already applied.
func aggregatorConfig(c config.AggregatorConfig, kind strategy.Kind) aggregate.Config {
	out := aggregate.DefaultConfig()
	if c.Lambda != nil {
		out.Lambda = *c.Lambda
	}
	out.MinScore = c.MinScore
	if c.MaxResults > 0 {
		out.MaxResults = c.MaxResults
	} else {
		out.MaxResults = math.MaxInt
	}
	out.Strategy = kind
	out.MetadataKeys = content.MetadataKeys{
		Embedding:      c.EmbeddingKey,
		QueryEmbedding: c.QueryEmbeddingKey,
		EmbeddingID:    c.EmbeddingIDKey,
	}.WithDefaults()
	return out
}

// dbPinger avoids handing a typed nil to the health service.
func dbPinger(store db.Store) healthuc.DBPinger {
	if store == nil {
		return nil
	}
	return store
}

func embeddingChecker(embedder domain.Embedder) healthuc.EmbeddingChecker {
	if hc, ok := embedder.(domain.HealthChecker); ok {
		return hc
	}
	return nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction
func buildEmbedder(cfg config.Config, instruction string, store db.Store, logger *zap.Logger) domain.Embedder {
	emb := cfg.Embedding

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     emb.APIKey,
		BaseURL:    emb.BaseURL,
		Model:      emb.Model,
		Dimensions: emb.Dimensions,
		Provider:   emb.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, embcache.Options{
			Namespace: cfg.Database.KeyPrefix + "emb_cache:" + emb.Model + ":",
			TTL:       time.Duration(emb.CacheTTLSec) * time.Second,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, emb.Provider, emb.Model, 0, logger)

	// Outermost, so the cache key includes the instruction.
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}
	return embedder
}
