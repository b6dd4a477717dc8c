package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/processhub-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}

type foreignKey struct {
	name     string
	table    string
	column   string
	refTable string
	onDelete string
}

var foreignKeys = []foreignKey{
	{name: "fk_user_session_user", table: "user_session", column: "user_id", refTable: "user", onDelete: "CASCADE"},
	{name: "fk_process_user", table: "process", column: "user_id", refTable: "user"},
	{name: "fk_version_process", table: "version", column: "process_id", refTable: "process"},
	{name: "fk_deployment_version", table: "deployment", column: "version_id", refTable: "version"},
	{name: "fk_deployment_user", table: "deployment", column: "user_id", refTable: "user"},
	{name: "fk_execution_deployment", table: "execution", column: "deployment_id", refTable: "deployment"},
	{name: "fk_execution_process", table: "execution", column: "process_id", refTable: "process"},
	{name: "fk_execution_user", table: "execution", column: "user_id", refTable: "user"},
}

// EnsureForeignKeys adds the relational constraints AutoMigrate skips.
// Postgres has no ADD CONSTRAINT IF NOT EXISTS, hence the DO blocks.
func EnsureForeignKeys(db *gorm.DB) error {
	for _, fk := range foreignKeys {
		onDelete := ""
		if fk.onDelete != "" {
			onDelete = " ON DELETE " + fk.onDelete
		}
		stmt := fmt.Sprintf(`
			DO $$
			BEGIN
				IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
					ALTER TABLE %q ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %q(id)%s;
				END IF;
			END $$;
		`, fk.name, fk.table, fk.name, fk.column, fk.refTable, onDelete)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create %s: %w", fk.name, err)
		}
	}
	return nil
}

func EnsureIndexes(db *gorm.DB) error {
	stmts := map[string]string{
		"idx_execution_deployment_started": `CREATE INDEX IF NOT EXISTS idx_execution_deployment_started ON execution (deployment_id, started_at DESC);`,
		"idx_deployment_user_version":      `CREATE INDEX IF NOT EXISTS idx_deployment_user_version ON deployment (user_id, version_id);`,
	}
	for name, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
	}
	return nil
}
