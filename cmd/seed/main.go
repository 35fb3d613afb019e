package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/jo-hoe/perfumecatalog/internal/core"
	"github.com/jo-hoe/perfumecatalog/internal/logging"
	"github.com/jo-hoe/perfumecatalog/internal/seed"
	"github.com/joho/godotenv"
)

func main() {
	count := flag.Int("random", 20, "number of random perfumes added after the samples")
	configPath := flag.String("config", "", "config file, defaults to CONFIG_PATH or config.yaml")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = core.DefaultConfigPath
	}

	config, err := core.LoadConfig(path)
	if err != nil {
		slog.Error("failed to load config", "path", path, "error", err)
		os.Exit(1)
	}
	syncLogger, err := logging.Setup(config.LogLevel)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	os.Exit(execute(config, *count, syncLogger))
}

// execute seeds the catalog and flushes the logger, which os.Exit would skip.
func execute(config *core.ServiceConfig, count int, syncLogger func() error) int {
	defer func() {
		_ = syncLogger()
	}()

	if err := run(config, count); err != nil {
		slog.Error("seeding failed", "error", err)
		return 1
	}
	return 0
}

func run(config *core.ServiceConfig, count int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	coreService, err := core.NewCoreService(ctx, config)
	if err != nil {
		return err
	}
	defer func() {
		_ = coreService.Close()
	}()

	r := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	_, err = seed.Run(ctx, coreService, count, r)
	return err
}
