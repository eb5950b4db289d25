package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/accrual"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/config"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/db"
)

var accrueForce bool

var accrueCmd = &cobra.Command{
	Use:   "accrue",
	Short: "Run one accrual cycle",
	Long:  `Apply the daily expertise point accrual for every active assignment, then exit. Intended to be run from cron once per day.`,
	RunE:  runAccrue,
}

func init() {
	accrueCmd.Flags().BoolVar(&accrueForce, "force", false, "Run even if a cycle already ran today")
	rootCmd.AddCommand(accrueCmd)
}

func runAccrue(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	valuer := newPointValuer(cfg)

	var opts []accrual.Option
	if cfg.AccrualGuard && !accrueForce {
		opts = append(opts, accrual.WithGuard())
	}

	summary, err := accrual.NewJob(database, valuer, opts...).Run(ctx)
	if err != nil {
		return fmt.Errorf("accrual cycle failed: %w", err)
	}

	if summary.Skipped {
		fmt.Println("Accrual cycle already ran today, skipped")
		return nil
	}
	fmt.Printf("Accrual complete: %d assignments, %d increments, %d failures\n",
		summary.Assignments, summary.Pairs, summary.Failures)
	return nil
}
