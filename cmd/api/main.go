package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AERESAL/VolunteerHub-Backend/internal/api"
	"github.com/AERESAL/VolunteerHub-Backend/internal/bootstrap"
	"github.com/AERESAL/VolunteerHub-Backend/internal/config"
	"github.com/AERESAL/VolunteerHub-Backend/internal/observability"
	"github.com/AERESAL/VolunteerHub-Backend/internal/outbox"
	httptransport "github.com/AERESAL/VolunteerHub-Backend/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("api: load configuration")
	}
	observability.ConfigureLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("api: bootstrap")
	}
	defer app.Close()

	var workers sync.WaitGroup
	if app.Pool != nil && len(cfg.KafkaBrokers) > 0 {
		producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()

		var registry outbox.SchemaRegistrar = outbox.NewStaticRegistry()
		if cfg.SchemaRegistryURL != "" {
			registry = outbox.NewSchemaRegistryClient(cfg.SchemaRegistryURL)
		}

		dispatcher := outbox.NewDispatcher(app.Pool, producer, registry, cfg.OutboxPollInterval, cfg.OutboxBatchSize)
		manager := outbox.NewDLQManager(app.Pool, cfg.DLQMaxRetries, cfg.DLQBaseDelay)

		workers.Add(2)
		go func() {
			defer workers.Done()
			dispatcher.Start(ctx)
		}()
		go func() {
			defer workers.Done()
			manager.Run(ctx, cfg.DLQPollInterval, cfg.OutboxBatchSize)
		}()
	} else {
		log.Info().Msg("api: outbox dispatcher disabled (needs postgres and kafka brokers)")
	}

	handler := api.NewHandler(api.Config{
		Ledger:                 app.Ledger,
		Signatures:             app.Signatures,
		Leaderboard:            app.Leaderboard,
		Accounts:               app.Accounts,
		Auth:                   bootstrap.AuthConfig(cfg),
		SignatureRatePerSecond: cfg.SignatureRatePerSecond,
		SignatureRateBurst:     cfg.SignatureRateBurst,
		MaxBodyBytes:           cfg.MaxBodyBytes,
	})

	serverCfg := httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		CORSOrigins:  cfg.CORSOrigins,
	}
	server := httptransport.NewServer(serverCfg, httptransport.NewRouter(serverCfg, handler))

	go func() {
		log.Info().Str("address", cfg.HTTPAddress).Bool("postgres", cfg.UsePostgres()).Msg("api: listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("api: server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("api: shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("api: graceful shutdown failed")
	}

	workers.Wait()
}
