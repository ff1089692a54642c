package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ahkgo/internal/app"
	"ahkgo/internal/config"
)

const version = "v0.3.0"

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	endpoint := flag.String("endpoint", "", "host endpoint override (pipe or socket path)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync() //nolint:errcheck

	logger.Info("ahkd starting", zap.String("version", version))

	cfg, err := config.Load(*configPath, logger)
	if err != nil {
		logger.Fatal("failed to load config", zap.String("path", *configPath), zap.Error(err))
	}
	if *endpoint != "" {
		cfg.Endpoint = *endpoint
	}

	application := app.New(cfg, version, logger)

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "fatal error: %v\n", r)
			os.Exit(1)
		}
	}()

	application.Run()
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}
