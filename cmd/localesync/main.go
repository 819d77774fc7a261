package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	logging "github.com/ipfs/go-log/v2"

	"localesync/internal/adapters/cli"
	"localesync/internal/config"
	"localesync/internal/infrastructure/i18n"
)

var log = logging.Logger("main")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	logging.SetAllLoggers(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(cfg, i18n.NewTranslator(cfg.ReportLocale), os.Stdout)
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Errorw("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
