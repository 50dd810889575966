package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fantamatto_bot/internal/api"
	"fantamatto_bot/internal/bot"
	"fantamatto_bot/internal/feed"
	"fantamatto_bot/internal/middleware"
	"fantamatto_bot/internal/repository"
	"fantamatto_bot/internal/service"
	"fantamatto_bot/internal/session"
	"fantamatto_bot/pkg/auth"
	"fantamatto_bot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	tgAPI, err := bot.NewAPI(cfg.Telegram)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Telegram", zap.Error(err))
	}
	sender := bot.NewTelegramSender(tgAPI)

	hub := feed.NewHub(feed.DefaultBuffer)
	defer hub.Close()

	userService := service.NewUserService(repo, cfg.Telegram.RegistrationPassword)
	catalogService := service.NewCatalogService(repo)
	sightingService := service.NewSightingService(repo, hub)
	broadcastService := service.NewBroadcastService(repo, sender)
	svc := service.NewService(userService, catalogService, sightingService, broadcastService)

	sessions := session.NewStore(cfg.Session.TTL)
	defer sessions.Reset()

	if cfg.Session.TTL > 0 {
		sweeper, err := sessions.StartSweeper(cfg.Session.SweepSchedule)
		if err != nil {
			zapLogger.Fatal("Failed to start session sweeper", zap.Error(err))
		}
		defer sweeper.Stop()
	}

	if cfg.Telegram.AdminChatID == 0 {
		zapLogger.Warn("no admin chat configured, admin commands are disabled")
	}

	var srv *http.Server
	if cfg.Server.Enabled {
		if cfg.LogLevel != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		router := api.NewRouter(api.Deps{
			Users:         userService,
			Catalog:       catalogService,
			Sightings:     sightingService,
			Feed:          hub,
			Auth:          auth.NewTelegramAuth(cfg.Telegram.BotToken, cfg.TelegramAuth.DebugMode),
			Authorization: middleware.NewAuthorization(cfg.Telegram.AdminChatID),
		})

		srv = &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			zapLogger.Info("Starting server", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zapLogger.Error("server failed", zap.Error(err))
				stop()
			}
		}()
	}

	b := bot.New(tgAPI, sender, svc, sessions, cfg.Telegram.AdminChatID)
	if err := b.Run(ctx); err != nil {
		zapLogger.Error("bot stopped with error", zap.Error(err))
	}

	zapLogger.Info("shutting down")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("failed to shut down server", zap.Error(err))
		}
	}
}
