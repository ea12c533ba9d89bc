package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/assistant"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/email"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/fetch"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/llm"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/observability"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/scoring"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the application tracker, ATS scoring, AI assistant and analytics endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jwtConfig, err := cfg.JWT()
	if err != nil {
		return err
	}
	passwords, err := cfg.Password()
	if err != nil {
		return err
	}

	database, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	metrics := observability.NewMetrics()

	scoringOpts := []scoring.Option{
		scoring.WithStore(database),
		scoring.WithMetrics(metrics),
		scoring.WithLogger(logger),
		scoring.WithConcurrency(cfg.Scoring.Concurrency),
	}
	importerOpts := []fetch.ImporterOption{
		fetch.WithRenderer(fetch.NewChromeRenderer(logger)),
		fetch.WithLogger(logger),
	}
	if c := newCache(ctx, cfg, engine, logger); c != nil {
		defer func() { _ = c.Close() }()
		scoringOpts = append(scoringOpts, scoring.WithCache(c))
		importerOpts = append(importerOpts, fetch.WithPageCache(c))
	}

	client, err := newLLM(ctx, cfg, logger)
	if err != nil {
		return err
	}
	var ai *assistant.Service
	if client != nil {
		defer func() { _ = client.Close() }()
		var aiOpts []assistant.Option
		if embedder, ok := client.(llm.Embedder); ok {
			aiOpts = append(aiOpts, assistant.WithRetriever(assistant.NewRetriever(embedder, cfg.Gemini.ChatTopK)))
		}
		ai = assistant.New(client, logger, aiOpts...)
		importerOpts = append(importerOpts, fetch.WithExtractor(client))
	}

	sender, err := newSender(ctx, cfg, logger)
	if err != nil {
		return err
	}
	otp, err := email.NewOTPIssuer(cfg.Auth.JWTSecret, cfg.Auth.OTPTTL)
	if err != nil {
		return err
	}

	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	srv, err := server.New(server.Config{Port: port}, server.Deps{
		Store:     database,
		JWT:       jwtConfig,
		Passwords: passwords,
		Scoring:   scoring.NewService(engine, scoringOpts...),
		Assistant: ai,
		Importer:  fetch.NewImporter(fetch.NewClient(fetch.DefaultOptions()), importerOpts...),
		Composer:  email.NewComposer(cfg.Email.AppURL),
		Sender:    sender,
		Addresses: email.NewValidator(net.DefaultResolver),
		OTP:       otp,
		Metrics:   metrics,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("interview vault ready",
		zap.Int("port", port),
		zap.Bool("ai", ai != nil),
		zap.Bool("email", sender != nil))
	return srv.Start(ctx)
}
