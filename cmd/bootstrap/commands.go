package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"infoprod-ai-api/internal/config"
	"infoprod-ai-api/internal/wire"
	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// deps 由 PersistentPreRunE 初始化
type deps struct {
	cfg     *config.Config
	boot    *wire.Bootstrap
	cleanup func()
}

func newRootCmd() *cobra.Command {
	d := &deps{}

	root := &cobra.Command{
		Use:           "bootstrap",
		Short:         "Operational tasks for infoprod-ai-api",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

			boot, cleanup, err := wire.InitializeBootstrap(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("initialize: %w", err)
			}
			d.cfg, d.boot, d.cleanup = cfg, boot, cleanup
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if d.cleanup != nil {
				d.cleanup()
			}
		},
	}

	root.AddCommand(newMigrateCmd(d))
	root.AddCommand(newCheckLLMCmd(d))
	root.AddCommand(newSeedUserCmd(d))
	return root
}

func newMigrateCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the profiles, products and ebooks tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := d.boot.Postgres.AutoMigrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration completed")
			return nil
		},
	}
}

func newCheckLLMCmd(d *deps) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check-llm",
		Short: "Send a short prompt to the default provider and report the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if timeout <= 0 {
				timeout = d.cfg.LLM.ConnectivityTimeout
			}
			report := d.boot.Generation.CheckConnectivity(cmd.Context(), timeout)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if !report.Success {
				return errors.New(report.Message)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "request timeout (default llm.connectivity_timeout)")
	return cmd
}

func newSeedUserCmd(d *deps) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "seed-user",
		Short: "Create a user profile with a password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("SEED_USER_PASSWORD")
			}
			profile, err := d.boot.Auth.SignUp(cmd.Context(), name, email, password)
			if errors.Is(err, apperrors.ErrConflict) {
				fmt.Fprintf(cmd.OutOrStdout(), "user %s already exists\n", email)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user created: %s (%s)\n", profile.Email, profile.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Admin", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "password (or SEED_USER_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
