package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophmember/internal/admin"
	"github.com/dmitrijs2005/gophmember/internal/cryptox"
	"github.com/dmitrijs2005/gophmember/internal/logging"
	"github.com/dmitrijs2005/gophmember/internal/server/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel)
	hasher := cryptox.NewBcryptHasher(cfg.BcryptCost)
	terminal := admin.NewTerminal(os.Stdin, os.Stdout)

	app := admin.NewApp(cfg, admin.PostgresConnector(cfg, hasher, logger), hasher, terminal, terminal, os.Stdout, logger)

	code := app.Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
