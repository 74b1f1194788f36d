package commands

import (
	"fmt"

	"invoice-generator/internal/models"
	"invoice-generator/internal/service"

	"github.com/spf13/cobra"
)

var (
	// create-admin flags
	adminUsername string
	adminEmail    string
	adminPassword string
)

// createAdminCmd adds an administrator without going through /auth/register.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Long: `Create an administrator account directly in the database.

Examples:
  invoicectl create-admin --username admin --email admin@example.com --password s3cret!`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		users := service.NewUserService(db, cfg.Security.BcryptCost)
		u, err := users.Create(cmd.Context(), service.UserInput{
			Username: adminUsername,
			Email:    adminEmail,
			Password: adminPassword,
			Role:     models.RoleAdmin,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %q created (id %s)\n", u.Username, u.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Username (required)")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Email (required)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Password, at least 6 characters (required)")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}
