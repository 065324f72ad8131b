package main

import (
	"context"
	"fmt"

	"github.com/gartstein/companyemployees/internal/company/auth"
	"github.com/gartstein/companyemployees/internal/company/config"
	"github.com/gartstein/companyemployees/internal/company/controller"
	"github.com/gartstein/companyemployees/internal/company/events"
	"github.com/gartstein/companyemployees/internal/company/handlers"
	"github.com/gartstein/companyemployees/internal/company/outputcache"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer syncLogger(logger)
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tokens, err := auth.NewTokenManager(cfg.Auth())
	if err != nil {
		return err
	}

	repo, err := connectDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close database", zap.Error(err))
		}
	}()

	producer, err := newProducer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer producer.Close()

	store, closeStore, err := newCacheStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	cache := outputcache.New(store, logger)

	if len(cfg.KafkaBrokers) > 0 {
		consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.Topic, consumerGroup(cfg.GroupID), logger)
		consumer.RegisterHandler(events.CacheEvictor(cache.Evict, outputcache.TagCompanies))
		consumer.Start(ctx)
		defer func() {
			cancel()
			<-consumer.Done()
			consumer.Close()
		}()
	}

	gin.SetMode(gin.ReleaseMode)
	global, companies, login := handlers.DefaultPolicies()
	router := handlers.NewRouter(handlers.RouterConfig{
		Companies:       controller.NewCompanyService(repo, producer, logger),
		Employees:       controller.NewEmployeeService(repo, producer, logger),
		Authentication:  controller.NewAuthenticationService(repo, tokens, producer, logger),
		Tokens:          tokens,
		Cache:           cache,
		GlobalPolicy:    global,
		CompaniesPolicy: companies,
		LoginPolicy:     login,
		AllowedOrigins:  cfg.AllowedOrigins,
		TrustedProxies:  cfg.TrustedProxies,
		Logger:          logger,
	})

	server := handlers.NewServer(cfg.HTTPPort, router, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	server.Stop()
	logger.Info("Servers stopped properly")
	return nil
}
