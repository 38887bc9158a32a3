package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/models"
)

var generateFlags struct {
	outPath    string
	reportOnly bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate typed query helpers and report unmapped columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(globalConfig)
		if err != nil {
			return err
		}
		defer database.New(db).Close()

		if generateFlags.reportOnly {
			_, err := models.GenerateColumnMismatchReport(db, os.Stdout)
			return err
		}
		return models.GenerateModels(db, generateFlags.outPath, os.Stdout)
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateFlags.outPath, "out", "./query", "output directory for generated code")
	generateCmd.Flags().BoolVar(&generateFlags.reportOnly, "report-only", false, "only print the column mismatch report")
}
