package cmd

import (
	"log/slog"

	"github.com/roadwise/roadwise/internal/config"
	"github.com/roadwise/roadwise/internal/corpus"
	"github.com/roadwise/roadwise/internal/generate"
	"github.com/roadwise/roadwise/internal/index"
	"github.com/roadwise/roadwise/internal/logging"
	"github.com/roadwise/roadwise/internal/rules"
	"github.com/roadwise/roadwise/internal/search"
	"github.com/roadwise/roadwise/internal/telemetry"
)

// pipeline bundles everything a command needs to answer questions.
type pipeline struct {
	cfg     *config.Config
	rules   *rules.Rules
	index   *index.Index
	engine  *search.Engine
	metrics *telemetry.Metrics
	logger  *slog.Logger
	cleanup func()
}

// setupLogging configures slog per the effective config. The returned
// cleanup closes the log file and must run before exit.
func setupLogging(cfg *config.Config) (*slog.Logger, func(), error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.WriteToStderr = cfg.Logging.Stderr
	if cfg.Logging.FilePath != "" {
		logCfg.FilePath = cfg.Logging.FilePath
	}
	if debugMode {
		logCfg.Level = "debug"
		logCfg.WriteToStderr = true
	}
	return logging.Setup(logCfg)
}

// buildPipeline loads the config, corpus and rules, builds the
// in-memory indexes, and wires the query engine.
func buildPipeline(offline bool) (*pipeline, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, cleanup, err := setupLogging(cfg)
	if err != nil {
		return nil, err
	}

	fail := func(err error) (*pipeline, error) {
		cleanup()
		return nil, err
	}

	var r *rules.Rules
	if cfg.Corpus.RulesPath != "" {
		r, err = rules.Load(cfg.Corpus.RulesPath)
	} else {
		r, err = rules.Default()
	}
	if err != nil {
		return fail(err)
	}

	chunks, err := corpus.Load(cfg.Corpus.Path, r, logger)
	if err != nil {
		return fail(err)
	}

	ix, err := index.Build(chunks, r, logger)
	if err != nil {
		return fail(err)
	}

	metrics := telemetry.NewMetrics()
	opts := []search.Option{
		search.WithMetrics(metrics),
		search.WithCache(search.NewQueryCache(cfg.Cache.Size, cfg.Cache.TTL.Std())),
		search.WithMaxContextChars(cfg.Search.MaxContextChars),
	}

	if gen := buildGenerator(cfg, logger, offline); gen != nil {
		opts = append(opts, search.WithGenerator(gen))
	}

	return &pipeline{
		cfg:     cfg,
		rules:   r,
		index:   ix,
		engine:  search.NewEngine(ix, r, logger, opts...),
		metrics: metrics,
		logger:  logger,
		cleanup: cleanup,
	}, nil
}

// buildGenerator picks the answer backend. No API key (or --offline)
// means context-only answers.
func buildGenerator(cfg *config.Config, logger *slog.Logger, offline bool) generate.Generator {
	if offline || cfg.Generation.APIKey == "" {
		logger.Info("generation disabled, answering from context only")
		return nil
	}

	client, err := generate.NewClient(generate.ClientConfig{
		BaseURL:     cfg.Generation.BaseURL,
		APIKey:      cfg.Generation.APIKey,
		Model:       cfg.Generation.Model,
		Temperature: cfg.Generation.Temperature,
		Timeout:     cfg.Generation.Timeout.Std(),
	})
	if err != nil {
		logger.Warn("generation client unavailable",
			slog.String("error", err.Error()))
		return nil
	}
	return client
}
