package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/yeslist/internal/logging"
	"github.com/dmitrijs2005/yeslist/internal/server"
	"github.com/dmitrijs2005/yeslist/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err.Error())
		os.Exit(1)
	}

	app.Run(ctx)
}
