package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/wellness_client/internal/app"
	"github.com/Freeeeeet/wellness_client/internal/config"
	"github.com/Freeeeeet/wellness_client/internal/controller"
	"github.com/Freeeeeet/wellness_client/internal/controller/handlers"
	"github.com/Freeeeeet/wellness_client/internal/environment"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	env, err := app.ResolveEnvironment(cfg)
	if err != nil {
		log.Fatalf("Failed to resolve environment: %v", err)
	}

	logger := app.NewLogger(env, "stdout")
	defer logger.Sync()

	if !cfg.DotEnvLoaded {
		logger.Info("No .env file found, using environment variables")
	}
	environment.LogResolved(logger, env)

	if err := cfg.ValidateBot(); err != nil {
		logger.Fatal("Invalid bot configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := app.NewRuntime(ctx, cfg, env, logger)
	if err != nil {
		logger.Fatal("Failed to initialise services", zap.Error(err))
	}
	defer rt.Close()

	refresher := app.NewRefresher(rt.Plans, rt.Session.HasToken, cfg.RefreshInterval, logger)
	refresher.Start(ctx)
	defer refresher.Stop()

	b, err := bot.New(cfg.TelegramToken,
		bot.WithMiddlewares(handlers.OwnerOnly(cfg.TelegramOwnerID, logger)),
	)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(b, rt.Auth, rt.Plans, env.Name, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	logger.Info("Starting wellness bot",
		zap.Int64("owner_id", cfg.TelegramOwnerID),
		zap.Bool("logged_in", rt.Session.HasToken()))

	botController.Start(ctx)

	logger.Info("Bot stopped")
}
