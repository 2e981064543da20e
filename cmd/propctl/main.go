package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"propertyhub-backend/internal/config"
	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/models"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "propctl",
		Short: "PropertyHub operations tool",
	}

	rootCmd.AddCommand(
		migrateCmd(),
		seedAdminCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run schema migrations against the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			database.Init(cfg)
			if err := database.Migrate(database.DB); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Println("migrations applied")
			return nil
		},
	}
}

func seedAdminCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an admin user if none exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}

			cfg := config.Load()
			database.Init(cfg)

			var count int64
			if err := database.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("an admin user already exists")
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			admin := models.User{
				Name:         name,
				Email:        email,
				PasswordHash: string(hash),
				Role:         models.RoleAdmin,
			}
			if err := database.DB.Create(&admin).Error; err != nil {
				return err
			}

			fmt.Printf("admin user %s created (id %d)\n", admin.Email, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password")

	return cmd
}
