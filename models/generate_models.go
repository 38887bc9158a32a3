package models

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"sync"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

/*
Column Mismatch Report Usage:

Lists database columns that the Go models no longer map, e.g. after a field
was removed from a struct but its column was left behind.

	portfolio generate --report-only

Example output:

	=== COLUMN MISMATCH REPORT ===
	--- Table: projects ---
	Found 1 columns not accounted for in model:
	  - legacy_image_url

	--- Table: skills ---
	All columns are accounted for in the model.

	=== SUMMARY ===
	Total mismatched columns across all tables: 1
*/

// All lists every persisted model in migration order.
func All() []any {
	return []any{&User{}, &Project{}, &Skill{}}
}

// GenerateModels migrates the schema, prints the column report to out and
// writes typed query code under outPath.
func GenerateModels(db *gorm.DB, outPath string, out io.Writer) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verbose,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)

	fmt.Fprintln(out, "Migrating models...")
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}
	fmt.Fprintln(out, "Database migration completed successfully!")

	if _, err := GenerateColumnMismatchReport(db, out); err != nil {
		return err
	}

	g.Execute()
	fmt.Fprintln(out, "Model generation complete!")
	return nil
}

// GenerateColumnMismatchReport prints, per table, the columns that exist in the
// database but are not mapped by the model. It returns the total count.
func GenerateColumnMismatchReport(db *gorm.DB, out io.Writer) (int, error) {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return 0, fmt.Errorf("error connecting to database: %w", err)
	}

	fmt.Fprintln(out, "=== COLUMN MISMATCH REPORT ===")

	totalMismatches := 0
	for _, model := range All() {
		columns, err := modelColumns(model, db.NamingStrategy)
		if err != nil {
			return totalMismatches, err
		}
		tableName := columns.table

		fmt.Fprintf(out, "\n--- Table: %s ---\n", tableName)

		dbColumns, err := getTableColumns(db, tableName)
		if err != nil {
			return totalMismatches, err
		}
		if dbColumns == nil {
			fmt.Fprintln(out, "Table does not exist yet (will be created during migration)")
			continue
		}

		mismatches := findColumnMismatches(dbColumns, columns.names)
		if len(mismatches) == 0 {
			fmt.Fprintln(out, "All columns are accounted for in the model.")
			continue
		}

		fmt.Fprintf(out, "Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Fprintf(out, "  - %s\n", col)
		}
		totalMismatches += len(mismatches)
	}

	fmt.Fprintf(out, "\n=== SUMMARY ===\n")
	fmt.Fprintf(out, "Total mismatched columns across all tables: %d\n", totalMismatches)
	return totalMismatches, nil
}

type tableColumns struct {
	table string
	names []string
}

// modelColumns resolves the table and column names gorm uses for model.
func modelColumns(model any, namer schema.Namer) (tableColumns, error) {
	s, err := schema.Parse(model, &sync.Map{}, namer)
	if err != nil {
		return tableColumns{}, fmt.Errorf("error parsing model %T: %w", model, err)
	}
	names := make([]string, 0, len(s.DBNames))
	names = append(names, s.DBNames...)
	return tableColumns{table: s.Table, names: names}, nil
}

// getTableColumns returns nil when the table does not exist.
func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	var tableExists bool
	tableQuery := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = CURRENT_SCHEMA()
			AND table_name = ?
		)
	`
	if err := db.Raw(tableQuery, tableName).Scan(&tableExists).Error; err != nil {
		return nil, fmt.Errorf("error checking if table %s exists: %w", tableName, err)
	}
	if !tableExists {
		return nil, nil
	}

	columns := []string{}
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		AND table_schema = CURRENT_SCHEMA()
		ORDER BY ordinal_position
	`
	if err := db.Raw(query, tableName).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}
	return columns, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	sort.Strings(mismatches)
	return mismatches
}
