// Package migration creates the contract tables on first start.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelRelation is created by the last step, so it only exists once every step has run.
const sentinelRelation = "public.idx_contract_analyses_contract_id"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_contracts",
		SQL: `CREATE TABLE IF NOT EXISTS contracts (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  filename      TEXT        NOT NULL,
  original_name TEXT,
  storage_path  TEXT        NOT NULL UNIQUE,
  size          BIGINT      NOT NULL CHECK (size >= 0),
  content_type  TEXT        NOT NULL,
  clauses       JSONB       NOT NULL DEFAULT '[]'::jsonb,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_contracts_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_contracts_created_at ON contracts (created_at);`,
	},
	{
		Name: "create_index_contracts_content_type",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_contracts_content_type ON contracts (content_type);`,
	},
	{
		Name: "create_table_contract_analyses",
		SQL: `CREATE TABLE IF NOT EXISTS contract_analyses (
  id                  UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  contract_id         UUID        NOT NULL REFERENCES contracts (id) ON DELETE CASCADE,
  report              JSONB       NOT NULL,
  similar_document_id TEXT,
  created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_contract_analyses_contract_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_contract_analyses_contract_id ON contract_analyses (contract_id, created_at DESC);`,
	},
}

// EnsureMigrated runs the migration steps unless the sentinel index already exists.
// Every step is idempotent so a partially applied schema is completed on the next run.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *zap.Logger, dbHost string) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("db_host", dbHost))
	start := time.Now()

	logger.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	query := fmt.Sprintf("SELECT to_regclass('%s') IS NOT NULL", sentinelRelation)
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		logger.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.String("error_message", fmt.Sprintf("failed to check sentinel relation: %v", err)),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel relation: %w", err)
	}

	if exists {
		logger.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	logger.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logger.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.String("error_message", err.Error()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logger.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	logger.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int("steps", len(steps)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}
