// Package lifecycle defines management of the import history database.
package lifecycle

import (
	"context"

	"github.com/gnames/gnnorm/pkg/config"
)

// SchemaManager manages the import history schema. It uses GORM
// AutoMigrate for both creation and migration, so it is safe to run
// multiple times.
type SchemaManager interface {
	// Create creates the schema. Existing history tables are dropped
	// when drop is true.
	Create(ctx context.Context, cfg *config.Config, drop bool) error

	// Migrate updates the schema to the latest version.
	Migrate(ctx context.Context, cfg *config.Config) error
}
