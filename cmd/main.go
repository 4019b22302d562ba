package main

import (
	"context"
	"fmt"
	"os"

	"go-vet-clinic/cmd/bootstrap"
	"go-vet-clinic/config"
	"go-vet-clinic/internal/domain/entity"
	"go-vet-clinic/internal/infrastructure/database"
	"go-vet-clinic/pkg/jwt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "vetclinic",
		Short:        "Veterinary clinic management API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".env", "path to an env file")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(migrateCmd(&configPath))
	rootCmd.AddCommand(queueSyncCmd(&configPath))
	rootCmd.AddCommand(tokenCmd(&configPath))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logrus.Errorf("Command failed: %v", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := bootstrap.NewLogger(cfg.App)
	log.Info("Configuration loaded successfully")
	return cfg, log, nil
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath)
		},
	}
}

func runServer(ctx context.Context, configPath string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// Initialize application with all dependencies
	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	// Run the application
	return app.Run()
}

func migrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return bootstrap.Migrate(cfg, log)
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			migrator, err := database.NewMigrator(cfg.DB.URL(), log)
			if err != nil {
				return err
			}
			defer migrator.Close()
			return migrator.Down(steps)
		},
	}
	downCmd.Flags().Int("steps", 1, "number of migrations to roll back")

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}

func queueSyncCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "queue-sync",
		Short: "Re-seed waiting room queue counters in Redis from the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			app, err := bootstrap.Connect(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer app.Close()

			queueService, err := app.NewQueueService()
			if err != nil {
				return err
			}
			return queueService.SyncOnStartup(cmd.Context())
		},
	}
}

func tokenCmd(configPath *string) *cobra.Command {
	var (
		userID   uint
		role     string
		clinicID uint
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			principal := &entity.Principal{
				UserID:   userID,
				Role:     entity.RoleName(role),
				ClinicID: clinicID,
			}
			if !principal.Role.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}
			if (principal.Role == entity.RoleSuperuser) != principal.IsSuperTenant() {
				return fmt.Errorf("role %s cannot be bound to clinic %d", role, clinicID)
			}

			token, tokenID, err := jwt.NewJWTService(cfg.JWT).GenerateAccessToken(principal)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "token id %s, expires in %s\n", tokenID, cfg.JWT.AccessExpiry)
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().UintVar(&userID, "user-id", 1, "user id claim")
	cmd.Flags().StringVar(&role, "role", string(entity.RoleAdministrative), "role claim")
	cmd.Flags().UintVar(&clinicID, "clinic-id", 1, "clinic id claim")
	return cmd
}
