// Package ioschema implements SchemaManager interface for
// the import history database. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/gnames/gnnorm/pkg/config"
	"github.com/gnames/gnnorm/pkg/db"
	"github.com/gnames/gnnorm/pkg/lifecycle"
	"github.com/gnames/gnnorm/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// manager implements the lifecycle.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create creates the history schema. With drop the existing
// history tables are removed first.
func (m *manager) Create(
	ctx context.Context,
	cfg *config.Config,
	drop bool,
) error {
	gormDB, err := m.gorm(ctx)
	if err != nil {
		return err
	}

	if drop {
		for _, mdl := range schema.AllModels() {
			if err := gormDB.Migrator().DropTable(mdl); err != nil {
				return CreateSchemaError(err)
			}
		}
	}

	if err := schema.Migrate(gormDB); err != nil {
		return CreateSchemaError(err)
	}

	slog.Info("History schema created",
		"database", cfg.Database.Database,
		"dropped", drop,
	)
	return nil
}

// Migrate updates the history schema to the latest version
// using GORM AutoMigrate.
func (m *manager) Migrate(
	ctx context.Context,
	cfg *config.Config,
) error {
	gormDB, err := m.gorm(ctx)
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB); err != nil {
		return MigrateSchemaError(err)
	}

	slog.Info("History schema migrated", "database", cfg.Database.Database)
	return nil
}

func (m *manager) gorm(ctx context.Context) (*gorm.DB, error) {
	pool := m.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return nil, GORMConnectionError(err)
	}
	return gormDB.WithContext(ctx), nil
}
