// Command lecturekit serves the lecture pipeline over HTTP.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/lecturekit/api"
	"github.com/kbukum/lecturekit/bootstrap"
	"github.com/kbukum/lecturekit/config"
	"github.com/kbukum/lecturekit/logger"
	"github.com/kbukum/lecturekit/media"
	"github.com/kbukum/lecturekit/observability"
	"github.com/kbukum/lecturekit/redis"
	"github.com/kbukum/lecturekit/server"
	"github.com/kbukum/lecturekit/util"
)

const serviceName = "lecturekit"

func main() {
	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create app: %v\n", err)
		os.Exit(1)
	}
	if err := run(context.Background(), app); err != nil {
		app.Logger.Error("lecturekit exited", logger.Fields(logger.FieldError, err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, app *bootstrap.App[*Config]) error {
	cfg := app.Cfg
	log := app.Logger

	metrics, err := setupTelemetry(ctx, app)
	if err != nil {
		return err
	}

	var rc *redis.Component
	if cfg.Redis.Enabled && !cfg.Cache.Disabled {
		rc = redis.NewComponent(cfg.Redis, log)
		if err := app.RegisterComponent(rc); err != nil {
			return err
		}
	}

	app.OnStart(func(ctx context.Context) error {
		if !media.NewFFmpeg(cfg.Media, log).Available(ctx) {
			log.Warn("ffmpeg not found, /process_video will fail", logger.Fields("binary", cfg.Media.Binary))
		}
		return nil
	})

	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
		pipeline, err := buildPipeline(cfg, cacheStore(cfg, rc), log, metrics)
		if err != nil {
			return err
		}
		log.Info("models configured", logger.Fields(
			"transcription", cfg.Transcription.Provider,
			"llm", cfg.LLM.Provider+"/"+cfg.LLM.Model,
			"llm_key", util.MaskSecret(cfg.LLM.APIKey, 6),
			"embedding", cfg.Embedding.Provider,
			"tokenizer", cfg.Summarizer.Tokenizer,
		))

		handler := api.New(pipeline, log)
		srv := server.New(cfg.Server, log)
		srv.ApplyMiddleware()
		srv.RegisterDefaultEndpoints(a.Name, healthChecker(a.Components, handler))
		handler.Register(srv.GinEngine())

		// The server starts only once its routes exist; StartAll skips
		// components that are already running.
		if err := a.RegisterComponent(server.NewComponent(srv)); err != nil {
			return err
		}
		return a.Components.StartAll(ctx)
	})

	return app.Run(ctx)
}

// setupTelemetry installs the OTLP tracer and meter when enabled and
// registers their shutdown. Metrics is nil when metrics are off.
func setupTelemetry(ctx context.Context, app *bootstrap.App[*Config]) (*observability.Metrics, error) {
	cfg := app.Cfg.Observability

	if cfg.TracingEnabled {
		tp, err := observability.InitTracer(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("tracer: %w", err)
		}
		app.OnStop(tp.Shutdown)
	}
	if !cfg.MetricsEnabled {
		return nil, nil
	}

	mp, err := observability.InitMeter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("meter: %w", err)
	}
	app.OnStop(mp.Shutdown)
	return observability.NewMetrics(observability.Meter())
}
