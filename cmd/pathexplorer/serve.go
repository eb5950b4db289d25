package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/accrual"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/config"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/db"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/matching"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/recommend"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the expertise scoring, recommendation, and candidate matching endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	gemini, err := recommend.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.UpstreamTimeout)
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer gemini.Close()

	valuer := newPointValuer(cfg)

	recommender := recommend.NewService(database, gemini, valuer, nil)
	source := matching.NewHTTPSource(cfg.MLServiceURL, cfg.UpstreamTimeout)
	ranker := matching.NewMatcher(database, source, nil)

	var opts []accrual.Option
	if cfg.AccrualGuard {
		opts = append(opts, accrual.WithGuard())
	}
	job := accrual.NewJob(database, valuer, opts...)

	srv := server.New(server.Config{Port: cfg.Port, AdminToken: cfg.AdminToken},
		database, recommender, ranker, job)
	return srv.Start()
}
