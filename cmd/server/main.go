package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"telnet-irc/chat"
	"telnet-irc/moderation"
	"telnet-irc/server"
	"telnet-irc/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and manages the server lifecycle, so that
// deferred cleanup executes and errors surface in one place.
func run() error {
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	moderator, err := buildModerator(config, log)
	if err != nil {
		return fmt.Errorf("moderation setup: %w", err)
	}

	authService := services.NewAuthService(log)
	registry := chat.NewRegistry(config.RoomCapacity, config.HistoryLimit, log)
	router := server.NewRouter(authService, registry, moderator, log)
	srv := server.New(router, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return err
	}

	log.Info("Program stopped cleanly")
	return nil
}

// buildModerator loads the censored-word list when one is configured.
// Returns nil when moderation is disabled.
func buildModerator(config Config, log *slog.Logger) (*moderation.Moderator, error) {
	if config.CensoredWordsFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(config.CensoredWordsFile)
	if err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	words := strings.Fields(string(data))
	if len(words) == 0 {
		return nil, nil
	}

	runes := []rune(config.CensoredChar)
	if len(runes) != 1 {
		return nil, fmt.Errorf("CENSORED_CHARACTER must be a single character, got %q", config.CensoredChar)
	}

	return moderation.NewModerator(words, runes[0], log)
}
