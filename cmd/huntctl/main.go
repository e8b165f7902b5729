package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/istehunt/hunt/internal/admin"
	"github.com/istehunt/hunt/internal/database"
	"github.com/istehunt/hunt/internal/seed"
)

// ctlConfig is the minimal environment huntctl needs; the server's full
// config (JWT secret etc.) is not required for operational commands.
type ctlConfig struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	BcryptCost  int    `envconfig:"BCRYPT_COST" default:"12"`
}

func loadConfig() (*ctlConfig, error) {
	_ = godotenv.Load()
	var cfg ctlConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func connect(ctx context.Context) (*ctlConfig, *database.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			_, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(ctx); err != nil {
				return err
			}
			fmt.Println("migration complete")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load locations, teams, routes and tasks from a seed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading seed file: %w", err)
			}

			f, err := seed.Parse(data)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			_, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := seed.Apply(ctx, db.Pool(), f); err != nil {
				return err
			}
			fmt.Printf("seeded %d locations, %d teams, %d routes\n", len(f.Locations), len(f.Teams), len(f.Routes))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "data.yaml", "seed file (YAML or JSON)")
	return cmd
}

func newCreateAdminCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create or update an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			cfg, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
			if err != nil {
				return fmt.Errorf("hashing password: %w", err)
			}

			repo := admin.NewRepository(db.Pool())
			if err := repo.Upsert(ctx, email, string(hash)); err != nil {
				return err
			}
			fmt.Printf("admin %s ready\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:           "huntctl",
		Short:         "Operational tooling for the hunt server",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newCreateAdminCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
