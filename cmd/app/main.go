// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"telegram-group-transfer/internal/application"
	"telegram-group-transfer/internal/config"
	"telegram-group-transfer/internal/domain/ports/adapter"
	"telegram-group-transfer/internal/infra/adapters/mtproto"
	tele "telegram-group-transfer/internal/infra/adapters/telegram"
	pg "telegram-group-transfer/internal/infra/db/postgres"
	"telegram-group-transfer/internal/infra/logging"
	"telegram-group-transfer/internal/infra/metrics"
	red "telegram-group-transfer/internal/infra/redis"
	"telegram-group-transfer/internal/infra/web"
	"telegram-group-transfer/internal/usecase"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, noop bot)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- MTProto client ----
	groups, err := mtproto.NewClient(&cfg.Telegram, cfg.Transfer.FloodWaitCeiling, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("mtproto")
	}
	go func() {
		if err := groups.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Fatal().Err(err).Msg("mtproto session stopped")
		}
	}()
	select {
	case <-groups.Ready():
	case <-ctx.Done():
		return
	}

	// ---- Repositories ----
	adminRepo := pg.NewAdminRepo(pool)
	runRepo := pg.NewRunRepo(pool)
	stateRepo := red.NewSetupStateRepo(redisClient, cfg.Redis.TTL)

	// ---- Use cases ----
	adminUC := usecase.NewAdminUseCase(adminRepo, logger)
	if err := adminUC.Seed(ctx, cfg.Bot.AdminIDs); err != nil {
		logger.Fatal().Err(err).Msg("seed admins")
	}
	setupUC := usecase.NewSetupUseCase(stateRepo, logger)

	registry := usecase.NewJobRegistry()
	pacer := usecase.NewIntervalPacer(cfg.Transfer.InviteInterval)

	// ---- Telegram bot ----
	// Built in two steps: the bot adapter is also the Messenger progress goes
	// through, and the facade the bot dispatches to needs the transfer UC.
	// Dev mode swaps in the noop adapter and never touches the Bot API.
	var messenger adapter.Messenger
	var botAdapter *tele.RealBotAdapter
	if cfg.Runtime.Dev {
		messenger = tele.NewNoOpBotAdapter(logger)
	} else {
		botAdapter, err = tele.NewRealBotAdapter(&cfg.Bot, rateLimiter, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram")
		}
		messenger = botAdapter
	}

	reporter := usecase.NewProgressReporter(messenger, cfg.Transfer.ReportTimeout, logger)
	transferUC := usecase.NewTransferUseCase(groups, pacer, registry, reporter, runRepo, usecase.TransferOptions{
		ProgressEvery:  cfg.Transfer.ProgressEvery,
		ProgressMaxGap: cfg.Transfer.ProgressMaxGap,
	}, logger)

	facade := application.NewBotFacade(adminUC, setupUC, transferUC, cfg.Bot.ContactUsername)
	if botAdapter != nil {
		botAdapter.SetFacade(facade)
		go func() {
			if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
	}

	// ---- Admin API ----
	srv := web.NewServer(transferUC, cfg.Admin.APIKey, logger)
	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: mux}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("admin api listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	_ = server.Close()
	cancel()
}
