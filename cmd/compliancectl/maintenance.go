package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"complianceapi/internal/config"
	"complianceapi/internal/database"
	"complianceapi/internal/database/migration"
	"complianceapi/internal/dataset"
	"complianceapi/internal/embedding"
	"complianceapi/internal/logging"
	"complianceapi/internal/vectorstore"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the reference-contract vector collection from the dataset CSV",
	RunE:  runSeed,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the contracts and analyses tables when missing",
	RunE:  runMigrate,
}

func loadConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	cfg, err := config.LoadWithFile(configFile)
	if err != nil {
		return nil, err
	}
	logger = logging.New(cfg.LogLevel, cfg.Location(), cmd.ErrOrStderr())
	return cfg, nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmdContext(cmd)

	// only the pgvector backend lives in Postgres
	var db *sql.DB
	if cfg.Vector.Backend == "pgvector" {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
	}

	embedder, err := embedding.New(ctx, cfg.Embedding, nil)
	if err != nil {
		return err
	}
	store, err := vectorstore.New(cfg.Vector, embedder.Dimensions(), db)
	if err != nil {
		return err
	}

	n, err := seedCollection(ctx, store, embedder, cfg.Dataset)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d reference contracts into %q\n", n, cfg.Vector.Collection)
	return nil
}

func seedCollection(ctx context.Context, store vectorstore.Store, embedder embedding.Embedder, ds config.DatasetConfig) (int, error) {
	seeder := dataset.NewSeeder(store, embedder, ds.Path, ds.SeedConcurrency, logging.Component(logger, "dataset"))
	n, err := seeder.InitializeCollection(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed collection: %w", err)
	}
	return n, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmdContext(cmd)

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logging.Component(logger, "migration"), cfg.Database.Host); err != nil {
		logger.Error("migration_failed", zap.Error(err))
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
	return nil
}
