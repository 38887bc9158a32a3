package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/database"
)

var globalConfig map[string]string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio site backend",
	Long: `Backend for the portfolio site: project and skill content, media stored in
Cloudinary (or S3) and a cookie session for the single admin user.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WithSSMParameters(cmd.Context(), globalConfig); err != nil {
			return fmt.Errorf("error loading SSM parameters: %w", err)
		}
		return nil
	},
}

// Execute runs the root command with the loaded configuration. Running the
// binary without a subcommand serves the API.
func Execute(cfg map[string]string) error {
	globalConfig = cfg
	rootCmd.RunE = serveCmd.RunE

	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("Command failed")
	}
	return err
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd, generateCmd)
}

// openDatabase connects and migrates the schema.
func openDatabase() (*gorm.DB, error) {
	db, err := database.Open(globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}
	return db, nil
}
