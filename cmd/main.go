package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yungbote/verifeye-backend/internal/app"
	"github.com/yungbote/verifeye-backend/internal/data/db"
	"github.com/yungbote/verifeye-backend/internal/platform/envutil"
	"github.com/yungbote/verifeye-backend/internal/services"
)

var envFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "verifeye",
	Short: "Verifeye scam-awareness training backend",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is normal outside local development.
		_ = godotenv.Load(envFile)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	tokenCmd.Flags().String("user", "", "user id to put in the token subject")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
	rootCmd.AddCommand(serveCmd, workerCmd, migrateCmd, tokenCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (and the job worker unless RUN_WORKER=false)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run only the job worker and scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		os.Setenv("RUN_SERVER", "false")
		os.Setenv("RUN_WORKER", "true")
		return run()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := app.NewLogger()
		if err != nil {
			return err
		}
		defer log.Sync()
		dbService, err := app.OpenDB(log, db.OptionsFromEnv(), true)
		if err != nil {
			return err
		}
		return dbService.Close()
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a session token for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		rawUser, _ := cmd.Flags().GetString("user")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		userID, err := uuid.Parse(rawUser)
		if err != nil {
			return fmt.Errorf("--user must be a uuid: %w", err)
		}
		log, err := app.NewLogger()
		if err != nil {
			return err
		}
		defer log.Sync()
		auth := services.NewAuthService(log, envutil.String("AUTH_JWT_SECRET", ""), "")
		tok, err := auth.IssueToken(userID, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func run() error {
	log, err := app.NewLogger()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, log)
	if err != nil {
		log.Error("Failed to init app", "error", err)
		log.Sync()
		return err
	}
	defer a.Close()

	if err := a.Start(ctx); err != nil {
		log.Error("Failed to start background services", "error", err)
		return err
	}
	if err := a.Run(ctx); err != nil {
		log.Error("Server stopped", "error", err)
		return err
	}
	log.Info("Shutting down")
	return nil
}
