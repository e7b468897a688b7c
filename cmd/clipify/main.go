package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Spielbergo/clipifyit-sub000/internal/buildinfo"
	"github.com/Spielbergo/clipifyit-sub000/internal/client/cli"
	"github.com/Spielbergo/clipifyit-sub000/internal/client/config"
	"github.com/Spielbergo/clipifyit-sub000/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, os.Stderr)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
