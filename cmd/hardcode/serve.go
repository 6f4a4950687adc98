package main

import (
	"fmt"
	"time"

	"github.com/PrintfR/HardCode/internal/config"
	"github.com/PrintfR/HardCode/internal/evaluation"
	"github.com/PrintfR/HardCode/internal/llm"
	"github.com/PrintfR/HardCode/internal/observability"
	"github.com/PrintfR/HardCode/internal/questions"
	"github.com/PrintfR/HardCode/internal/server"
	"github.com/PrintfR/HardCode/internal/server/ratelimit"
	"github.com/PrintfR/HardCode/internal/session"
	"github.com/PrintfR/HardCode/internal/voice"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start the HTTP server that exposes the interview, auth and voice relay endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	metrics := observability.NewMetrics()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	logger.Info("store ready", zap.String("backend", cfg.Backend()))

	client, err := newLLMClient(ctx, cfg.LLM())
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	generator := questions.NewGenerator(llm.Instrument(client, metrics, questions.Operation), logger)
	evaluator := evaluation.NewEvaluator(llm.Instrument(client, metrics, evaluation.Operation), logger)
	sessions := session.NewService(st, generator, evaluator, logger, metrics)

	var buffer voice.TranscriptBuffer = voice.NewMemoryBuffer()
	if cfg.RedisURL != "" {
		rdb, err := voice.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() { _ = rdb.Close() }()
		buffer = voice.NewRedisBuffer(rdb, 0)
	}

	relay := voice.NewRelay(voice.RelayConfig{
		Buffer:          buffer,
		Completer:       sessions,
		Logger:          logger,
		Metrics:         metrics,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		MaxCallDuration: time.Duration(cfg.MaxCallMinutes) * time.Minute,
	})

	srv, err := server.New(server.Config{
		Port:               cfg.Port,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}, server.Deps{
		Sessions:    sessions,
		Users:       st,
		Verifier:    server.NewIDTokenVerifier(cfg.GoogleClientID),
		JWT:         server.NewJWTService(&cfg.JWT),
		Relay:       relay,
		RateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		Logger:      logger,
		Metrics:     metrics,
		Ping:        st.ping,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
