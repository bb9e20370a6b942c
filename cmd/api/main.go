package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/config"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/infra/db"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/server"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/usecase"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("api stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	//.envはカレントか1つ上のどちらでもよい
	config.LoadDotEnv(".env", "../.env")
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	e, err := server.Build(cfg, gormDB, logger, usecase.SystemClock{}, usecase.UUIDSuffixGenerator{})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//Server起動
	return server.Start(ctx, e, ":"+strings.TrimPrefix(cfg.Port, ":"), logger)
}
