package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio-site-backend/auth"
	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/models"
)

var adminFlags struct {
	username   string
	password   string
	profilePic string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the admin user that can log in and edit content",
	RunE: func(cmd *cobra.Command, args []string) error {
		username := strings.TrimSpace(adminFlags.username)
		if username == "" || adminFlags.password == "" {
			return errors.New("--username and --password are required")
		}

		hash, err := auth.HashPassword(adminFlags.password)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}

		db, err := openDatabase()
		if err != nil {
			return err
		}
		currentDB := database.New(db)
		defer currentDB.Close()

		user := &models.User{
			Username:     username,
			PasswordHash: hash,
			ProfilePic:   adminFlags.profilePic,
		}
		if err := currentDB.UserRepo().Add(cmd.Context(), user); err != nil {
			return fmt.Errorf("error creating admin user: %w", err)
		}

		log.Info().Str("username", user.Username).Str("userId", user.ID.String()).Msg("Admin user created")
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminFlags.username, "username", "", "admin username")
	createAdminCmd.Flags().StringVar(&adminFlags.password, "password", "", "admin password")
	createAdminCmd.Flags().StringVar(&adminFlags.profilePic, "profile-pic", "", "profile picture URL")
}
