package main

import (
	"context"
	"fmt"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/ats"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/cache"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/config"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/email"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/llm"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/observability"
	"go.uber.org/zap"
)

// loadRuntime reads the configuration and builds the logger every command uses.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func connectDB(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}

func newEngine(cfg *config.Config) (*ats.Engine, error) {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	return ats.New(opts)
}

// newCache connects to Redis when configured, scoping score keys to the
// engine's fingerprint. A nil cache disables caching.
func newCache(ctx context.Context, cfg *config.Config, engine *ats.Engine, logger *zap.Logger) *cache.ScoreCache {
	if cfg.Redis.Addr == "" {
		return nil
	}
	c := cache.New(cache.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		TTL:         cfg.Redis.TTL,
		Fingerprint: engine.Fingerprint(),
	})
	if err := c.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, caching disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = c.Close()
		return nil
	}
	return c
}

// newLLM builds the Gemini client. Without an API key the AI features are off.
func newLLM(ctx context.Context, cfg *config.Config, logger *zap.Logger) (llm.Client, error) {
	if cfg.Gemini.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, AI features disabled")
		return nil, nil
	}
	llmConfig := llm.ConfigForModel(cfg.Gemini.Model)
	if cfg.Gemini.EmbeddingModel != "" {
		llmConfig.EmbeddingModel = cfg.Gemini.EmbeddingModel
	}
	client, err := llm.NewGeminiClient(ctx, llmConfig, cfg.Gemini.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

// newSender builds the SES sender. Without a sender address email is off.
func newSender(ctx context.Context, cfg *config.Config, logger *zap.Logger) (email.Sender, error) {
	if cfg.Email.Sender == "" {
		logger.Warn("EMAIL_SENDER not set, email disabled")
		return nil, nil
	}
	sender, err := email.NewSESSender(ctx, cfg.Email.Region, cfg.Email.Sender, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create SES sender: %w", err)
	}
	return sender, nil
}
