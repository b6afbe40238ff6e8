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

	"github.com/urfave/cli/v3"

	"github.com/ytget/yt-downloader-api/internal/config"
	"github.com/ytget/yt-downloader-api/internal/download"
	"github.com/ytget/yt-downloader-api/internal/logger"
	"github.com/ytget/yt-downloader-api/internal/metadata"
	"github.com/ytget/yt-downloader-api/internal/metrics"
	"github.com/ytget/yt-downloader-api/internal/platform"
	"github.com/ytget/yt-downloader-api/internal/server"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppName  = "yt-downloader-api"
	AppUsage = "HTTP API for media metadata lookup and background downloads via yt-dlp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:    AppName,
		Usage:   AppUsage,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Usage: "path to an optional .env file",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address, overrides " + config.KeyAddr,
			},
			&cli.StringFlag{
				Name:  "download-dir",
				Usage: "directory downloads are written to, overrides " + config.KeyDownloadDir,
			},
			&cli.BoolFlag{
				Name:  "install-ytdlp",
				Usage: "download yt-dlp on startup when it is missing, overrides " + config.KeyAutoInstall,
			},
		},
		Action: serve,
	}

	if err := app.Run(ctx, os.Args); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	settings, err := config.Load(cmd.String("env"))
	if err != nil {
		return err
	}
	if addr := cmd.String("addr"); addr != "" {
		settings.Addr = addr
	}
	if dir := cmd.String("download-dir"); dir != "" {
		settings.DownloadDir = dir
	}
	if cmd.Bool("install-ytdlp") {
		settings.AutoInstall = true
	}

	logger.New(logger.Config{
		Level:  logger.ParseLevel(settings.LogLevel),
		Format: settings.LogFormat,
		Output: os.Stdout,
	})
	slog.Info("starting", "app", AppName, "version", version, "addr", settings.Addr, "download_dir", settings.DownloadDir)

	if err := platform.CreateDirectoryIfNotExists(settings.DownloadDir); err != nil {
		return fmt.Errorf("failed to ensure downloads dir: %w", err)
	}

	ytdlpSvc := platform.NewYTDLPService(settings.YTDLPPath)
	ytdlpSvc.SetTimeout(settings.InfoTimeout)
	if settings.AutoInstall {
		if err := ytdlpSvc.Install(ctx); err != nil {
			return err
		}
	}

	downloadSvc := download.NewService(ytdlpSvc, download.NewRegistry(), settings.DownloadDir, settings.Container)
	resolver := metadata.NewResolver(ytdlpSvc, settings.MaxFormats)

	opts := server.Options{}
	if settings.MetricsEnabled {
		m := metrics.New(metrics.DefaultNamespace)
		downloadSvc.SetObserver(m)
		opts.Metrics = m.Handler()
		opts.Observer = m
	}

	httpServer := &http.Server{
		Addr:              settings.Addr,
		Handler:           server.New(resolver, downloadSvc, opts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", settings.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down", "running_jobs", downloadSvc.Running())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown incomplete", "error", err)
	}
	if err := downloadSvc.Shutdown(shutdownCtx); err != nil {
		slog.Warn("download jobs cancelled on shutdown", "error", err)
	}
	return nil
}
