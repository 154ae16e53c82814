package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Vodeneev/matchbot/internal/bot"
	"github.com/Vodeneev/matchbot/internal/pkg/config"
	"github.com/Vodeneev/matchbot/internal/pkg/health"
	"github.com/Vodeneev/matchbot/internal/pkg/logging"
	"github.com/Vodeneev/matchbot/internal/pkg/metrics"
	"github.com/Vodeneev/matchbot/internal/pkg/soccerdata"
)

const serviceName = "matchbot"

func main() {
	var configPath string
	var token string

	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "Path to YAML config file (can be set via CONFIG_PATH env var); env only when empty")
	flag.StringVar(&token, "token", "", "Telegram bot token (or set TELEGRAM_BOT_TOKEN env var)")
	flag.Parse()

	// Flag wins over env and file; config applies env overrides on load.
	if token != "" {
		if err := os.Setenv("TELEGRAM_BOT_TOKEN", token); err != nil {
			log.Fatalf("Failed to apply -token: %v", err)
		}
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, closer, err := logging.SetupLogger(cfg.Logging, serviceName)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}

	err = run(cfg, logger)
	if err != nil {
		logger.Error("matchbot stopped with error", "error", err)
	}
	_ = closer.Close()
	if err != nil {
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

func run(cfg *config.Config, logger *slog.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	if cfg.Health.Port > 0 {
		if _, err := health.Run(ctx, health.AddrFor(cfg.Health.Port), serviceName, m.Handler(), cfg.Health.ReadHeaderTimeout); err != nil {
			return fmt.Errorf("start health server: %w", err)
		}
	}

	client := soccerdata.NewClient(soccerdata.ClientConfig{
		BaseURL:   cfg.SoccerData.BaseURL,
		APIKey:    cfg.SoccerData.APIKey,
		Timeout:   cfg.SoccerData.Timeout,
		LeagueIDs: cfg.SoccerData.LeagueIDs,
		Logger:    logger,
		Metrics:   m,
	})

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("create telegram bot: %w", err)
	}
	api.Debug = cfg.Telegram.Debug
	logger.Info("Authorized on Telegram", "account", api.Self.UserName)

	messenger := bot.NewTelegramMessenger(api, cfg.Telegram.SendInterval, logger)
	handler := bot.NewHandler(client, messenger, bot.Options{
		Location:       loc,
		UpcomingWindow: cfg.SoccerData.UpcomingWindow,
		MaxMessageLen:  cfg.Telegram.MaxMessageLen,
		Logger:         logger,
		Metrics:        m,
	})
	b := bot.NewBot(api, handler, messenger, cfg.Telegram, logger)

	if err := b.RegisterCommands(); err != nil {
		logger.Warn("Failed to register bot commands", "error", err)
	}

	logger.Info("Starting matchbot",
		"leagues", len(cfg.SoccerData.LeagueIDs),
		"timezone", loc.String(),
		"health_port", cfg.Health.Port)
	return b.Run(ctx)
}
