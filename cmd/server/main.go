package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jo-hoe/perfumecatalog/internal/backend"
	"github.com/jo-hoe/perfumecatalog/internal/backend/blobstore"
	"github.com/jo-hoe/perfumecatalog/internal/common"
	"github.com/jo-hoe/perfumecatalog/internal/core"
	frontend "github.com/jo-hoe/perfumecatalog/internal/frontend"
	"github.com/jo-hoe/perfumecatalog/internal/frontend/flash"
	"github.com/jo-hoe/perfumecatalog/internal/logging"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func getConfigPath() string {
	// First check if config path is provided via environment variable
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}
	return core.DefaultConfigPath
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	// Load configuration
	configPath := getConfigPath()
	config, err := core.LoadConfig(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}

	syncLogger, err := logging.Setup(config.LogLevel)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = syncLogger()
	}()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	coreService, err := core.NewCoreService(startupCtx, config)
	if err != nil {
		slog.Error("failed to initialize core service", "error", err)
		os.Exit(1)
	}

	flashStore, err := flash.NewStore(startupCtx, config.Redis.Addr, config.Redis.Password, config.Redis.DB)
	if err != nil {
		slog.Error("failed to initialize flash store", "error", err)
		os.Exit(1)
	}

	server := defineServer()
	serveBlobs(server, coreService.BlobStore())

	apiService := backend.NewAPIService(coreService)
	apiService.SetRoutes(server)
	frontendService, err := frontend.NewFrontendService(coreService, flashStore)
	if err != nil {
		slog.Error("failed to initialize frontend", "error", err)
		os.Exit(1)
	}
	frontendService.SetRoutes(server)

	portString := fmt.Sprintf(":%d", config.Port)

	// Start HTTP server in a goroutine to allow graceful shutdown
	go func() {
		slog.Info("starting server", "port", config.Port)
		if err := server.Start(portString); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := flashStore.Close(); err != nil {
		slog.Error("flash store close error", "error", err)
	}
	if err := coreService.Close(); err != nil {
		slog.Error("core service close error", "error", err)
	}
}

// serveBlobs exposes filesystem blobs under their public prefix. Other stores serve their own URLs.
func serveBlobs(e *echo.Echo, store blobstore.BlobStore) {
	filesystem, ok := store.(*blobstore.FilesystemStore)
	if !ok {
		return
	}
	slog.Info("serving blobs", "prefix", filesystem.PublicPrefix(), "root", filesystem.Root())
	e.Static(filesystem.PublicPrefix(), filesystem.Root())
}

func defineServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Configure request logger to skip "/probe" endpoint (health check)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/probe"
		},
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogError:     true,
		LogRemoteIP:  true,
		LogHost:      true,
		LogUserAgent: true,
		LogRoutePath: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"route", v.RoutePath,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"host", v.Host,
				"user_agent", v.UserAgent,
			}
			if v.Error != nil {
				slog.Error("request failed", append(attrs, "error", v.Error)...)
			} else {
				slog.Info("request", attrs...)
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())
	e.Pre(middleware.RemoveTrailingSlash())

	e.Validator = &common.GenericEchoValidator{}

	return e
}
