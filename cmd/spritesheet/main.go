package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/dunamismax/spritesheet/internal/config"
	"github.com/dunamismax/spritesheet/internal/domain"
	"github.com/dunamismax/spritesheet/internal/metrics"
	"github.com/dunamismax/spritesheet/internal/sheet"
	"github.com/dunamismax/spritesheet/internal/storage"
	"github.com/dunamismax/spritesheet/internal/telemetry"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[sheet] ", log.LstdFlags|log.Lmsgprefix)

	sheetCfg, err := config.ParseArgs(args, cfg.Sheet)
	if err != nil {
		logger.Printf("%v", err)
		return 2
	}

	ctx := context.Background()
	shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.TraceConfig{
		ServiceName:    "spritesheet",
		ServiceVersion: version,
		Exporter:       cfg.Trace.Exporter,
		OTLPEndpoint:   cfg.Trace.OTLPEndpoint,
		OTLPInsecure:   cfg.Trace.OTLPInsecure,
	}, logger)
	if err != nil {
		logger.Printf("tracing setup failed: %v", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Printf("tracing shutdown error: %v", err)
		}
	}()

	if err := sheet.Startup(); err != nil {
		logger.Printf("image runtime startup failed: %v", err)
		return 1
	}
	defer sheet.Shutdown()

	resampler, err := sheet.ParseFilter(sheetCfg.Filter)
	if err != nil {
		logger.Printf("%v", err)
		return 2
	}

	m := metrics.New()
	defer func() {
		pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.Push(pushCtx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
			logger.Printf("metrics push failed: %v", err)
		}
	}()

	builder := sheet.NewBuilder(logger, resampler, m)
	result, err := builder.Build(ctx, sheetCfg.Request())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			logger.Printf("%v", err)
			return 2
		}
		logger.Printf("build failed: %v", err)
		return 1
	}

	if result.Status == domain.StatusEmpty {
		if n := len(result.Skipped); n > 0 {
			logger.Printf("No usable frames in %s, skipped=%d", sheetCfg.SourceDir, n)
		} else {
			logger.Printf("No PNG files found in %s", sheetCfg.SourceDir)
		}
		return 0
	}

	logger.Printf("Created spritesheet: %s", result.OutputFile)
	logger.Printf("Dimensions: %dx%d", result.Width, result.Height)
	logger.Printf("Frame Count: %d", result.FrameCount)
	logger.Printf("Frame Size: %dx%d", result.FrameWidth, result.FrameHeight)
	if n := len(result.Skipped); n > 0 {
		logger.Printf("Skipped: %d", n)
	}
	if !result.Uniform() {
		logger.Printf("warning: frame widths differ, Frame Size only describes the first frame")
	}

	if cfg.Publish.Enabled {
		if err := publish(ctx, logger, cfg, result.OutputFile); err != nil {
			logger.Printf("publish failed: %v", err)
			return 1
		}
	}
	return 0
}

func publish(ctx context.Context, logger *log.Logger, cfg config.Config, outputFile string) error {
	client, err := storage.NewClient(storage.Config{
		Endpoint: cfg.Storage.Endpoint,
		Access:   cfg.Storage.AccessKey,
		Secret:   cfg.Storage.SecretKey,
		Bucket:   cfg.Storage.Bucket,
		UseSSL:   cfg.Storage.UseSSL,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if err := client.EnsureBucket(ctx); err != nil {
		return err
	}
	key := storage.ObjectKey(cfg.Publish.ObjectPrefix, outputFile)
	size, err := client.PublishFile(ctx, key, outputFile)
	if err != nil {
		return err
	}
	logger.Printf("published bucket=%s key=%s bytes=%d", client.Bucket(), key, size)
	return nil
}
