package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/samber/lo"

	"github.com/yqyati/windy/pkg/ai"
	"github.com/yqyati/windy/pkg/console"
	"github.com/yqyati/windy/pkg/domain"
	"github.com/yqyati/windy/pkg/logger"
	"github.com/yqyati/windy/pkg/repository"
	"github.com/yqyati/windy/pkg/screenshot"
	"github.com/yqyati/windy/pkg/services"
	"github.com/yqyati/windy/pkg/workers"
)

type Config struct {
	ConfigPath     string        `env:"WINDY_CONFIG" envDefault:"config.json"`
	BaseURL        string        `env:"WINDY_BASE_URL"`
	APIKey         string        `env:"WINDY_API_KEY"`
	Model          string        `env:"WINDY_MODEL"`
	SystemPrompt   string        `env:"WINDY_SYSTEM_PROMPT"`
	RequestTimeout time.Duration `env:"WINDY_REQUEST_TIMEOUT" envDefault:"60s"`
	MaxHistory     int           `env:"WINDY_MAX_HISTORY" envDefault:"50"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	workerGroup, err := setupWorkers()
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	if err := workerGroup.Start(ctx); err != nil {
		if errors.Is(err, console.ErrInputClosed) {
			slog.Info("input closed")
			return nil
		}
		return err
	}
	return nil
}

func setupWorkers() (workers.Group, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	settingsRepository := repository.NewSettingsRepository(cfg.ConfigPath)
	fileConfig, err := settingsRepository.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	fileConfig.AI = mergeSettings(fileConfig.AI, cfg)
	settingsRepository.SetCurrent(fileConfig)

	aiClient := ai.NewClient(cfg.RequestTimeout)
	if err := aiClient.Configure(fileConfig.AI); err != nil {
		slog.Warn("configuration incomplete; use /set or edit the config file", logger.Err(err))
	}

	conversationRepository := repository.NewConversationRepository(cfg.SystemPrompt, cfg.MaxHistory)

	promptCh := make(chan domain.Prompt)
	responseCh := make(chan domain.Response)

	chatService := services.NewChatService(aiClient, conversationRepository, responseCh)

	ui := console.New(
		os.Stdin,
		os.Stdout,
		screenshot.NewCapturer(),
		settingsRepository,
		aiClient,
		chatService,
		promptCh,
	)

	var workerGroup workers.Group
	workerGroup = append(workerGroup, ui)

	listener, err := workers.NewPromptListener(chatService, ui, promptCh, responseCh)
	if err != nil {
		return nil, fmt.Errorf("creating prompt listener: %w", err)
	}
	workerGroup = append(workerGroup, listener)

	return workerGroup, nil
}

// mergeSettings lets environment variables override the persisted settings
// for this run without touching the config file.
func mergeSettings(settings domain.Settings, cfg Config) domain.Settings {
	settings.BaseURL, _ = lo.Coalesce(cfg.BaseURL, settings.BaseURL)
	settings.APIKey, _ = lo.Coalesce(cfg.APIKey, settings.APIKey)
	settings.Model, _ = lo.Coalesce(cfg.Model, settings.Model, domain.DefaultModel)
	return settings
}
