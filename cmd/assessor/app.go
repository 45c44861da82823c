package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/career-assessor/internal/config"
	"github.com/jonathan/career-assessor/internal/generation"
	"github.com/jonathan/career-assessor/internal/llm"
	"github.com/jonathan/career-assessor/internal/logging"
	"github.com/jonathan/career-assessor/internal/metrics"
	"github.com/jonathan/career-assessor/internal/orchestrator"
	"github.com/jonathan/career-assessor/internal/scoring"
	"github.com/jonathan/career-assessor/internal/session"
)

// app bundles the collaborators every command needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	cache   session.Cache
	metrics *metrics.Recorder
	orch    *orchestrator.Orchestrator

	llmClient llm.Client
}

// loadConfig reads --config, fills defaults and applies --verbose.
func loadConfig() (*config.Config, error) {
	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	cfg := loaded.MergeWithDefaults(config.Default())
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// newApp opens the cache, picks the generators and builds the orchestrator.
func newApp(ctx context.Context, cfg *config.Config, onTransition orchestrator.TransitionCallback) (*app, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	limits, err := cfg.Assessment.ScoringLimits()
	if err != nil {
		return nil, err
	}

	cache, err := session.Open(ctx, cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to open session cache: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		cache:   cache,
		metrics: metrics.NewRecorder(),
	}

	questions, reports, err := a.generators(ctx, limits)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.orch, err = orchestrator.New(orchestrator.Options{
		Questions:    questions,
		Reports:      reports,
		Store:        session.NewStore(cache, logger),
		Policy:       cfg.ProfilePolicy,
		Limits:       limits,
		Logger:       logger,
		Metrics:      a.metrics,
		OnTransition: onTransition,
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// generators returns the offline bank and summary generators when no API
// key is configured, and the LLM-backed ones otherwise.
func (a *app) generators(ctx context.Context, limits scoring.Limits) (generation.QuestionGenerator, generation.ReportGenerator, error) {
	if a.cfg.LLM.UseOffline() {
		bank, err := generation.LoadBank(a.cfg.Assessment.QuestionBank)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Debug("using offline generators", zap.Int("bank_size", len(bank)))
		return generation.NewBankQuestionGenerator(bank, limits, a.logger), generation.NewSummaryReportGenerator(limits), nil
	}

	client, err := llm.NewClient(ctx, a.cfg.LLM.ModelConfig(), a.cfg.LLM.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	a.llmClient = client

	questions := generation.NewLLMQuestionGenerator(client, generation.LLMOptions{
		Tier:     llm.ModelTier(a.cfg.LLM.QuestionTier),
		Limits:   limits,
		Language: a.cfg.Assessment.Language,
		Logger:   a.logger,
	})
	reports := generation.NewLLMReportGenerator(client, generation.LLMOptions{
		Tier:     llm.ModelTier(a.cfg.LLM.ReportTier),
		Limits:   limits,
		Language: a.cfg.Assessment.Language,
		Logger:   a.logger,
	})
	return questions, reports, nil
}

// Close releases the LLM client and the cache and flushes the logger.
func (a *app) Close() error {
	var errs []error
	if a.llmClient != nil {
		errs = append(errs, a.llmClient.Close())
	}
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}
