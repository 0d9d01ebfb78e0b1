package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/AERESAL/VolunteerHub-Backend/internal/cache"
	"github.com/AERESAL/VolunteerHub-Backend/internal/config"
	"github.com/AERESAL/VolunteerHub-Backend/internal/consumer"
	"github.com/AERESAL/VolunteerHub-Backend/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("consumer: load configuration")
	}
	observability.ConfigureLogger(cfg)

	if !cfg.UsePostgres() || len(cfg.KafkaBrokers) == 0 {
		log.Fatal().Msg("consumer: postgres url and kafka brokers are required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal().Err(err).Msg("consumer: connect postgres")
	}
	defer pool.Close()

	handlers := []consumer.Handler{consumer.NewAuditHandler(pool)}
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("consumer: connect redis")
		}
		defer client.Close()
		handlers = append(handlers, consumer.NewCacheInvalidator(cache.NewRedisLeaderboard(client, cfg.LeaderboardTTL)))
	}

	metricsSrv := &http.Server{Addr: cfg.MetricsAddress, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("address", cfg.MetricsAddress).Msg("consumer: metrics listening")
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("consumer: metrics server error")
		}
	}()

	reader := consumer.NewKafkaReader(cfg.KafkaBrokers, cfg.ConsumerGroup, cfg.ConsumerTopics)
	defer reader.Close()

	log.Info().Strs("topics", cfg.ConsumerTopics).Str("group", cfg.ConsumerGroup).Msg("consumer: started")
	proc := consumer.NewProcessor(reader, consumer.Chain(handlers...))
	if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("consumer: stopped with error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("consumer: metrics server shutdown error")
	}
}
