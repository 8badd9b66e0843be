package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sheikh-saqib/simple-ledger/internal/cli"
	"github.com/sheikh-saqib/simple-ledger/internal/config"
	"github.com/sheikh-saqib/simple-ledger/internal/ledger"
	"github.com/sheikh-saqib/simple-ledger/internal/logging"
)

func main() {
	sample := flag.Bool("sample", false, "create two sample accounts on start")
	file := flag.String("file", "", "default accounts file (overrides LEDGER_DATA_FILE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *file != "" {
		cfg.DataFile = *file
	}

	// the terminal belongs to the menu, so only warnings and above are logged
	level := cfg.LogLevel
	if level == "" {
		level = "warn"
	}
	logger, err := logging.New(cfg.Env, level)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	l := ledger.New()
	if *sample {
		if err := cli.SeedSample(l); err != nil {
			logger.Fatal("seeding sample accounts", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cli.New(l, os.Stdin, os.Stdout, cli.WithLogger(logger), cli.WithDefaultFile(cfg.DataFile))
	if err := c.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("cli stopped", zap.Error(err))
		os.Exit(1)
	}
}
