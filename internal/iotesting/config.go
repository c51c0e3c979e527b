// Package iotesting provides shared test utilities: configurations for
// integration tests and small archive fixtures written into temporary
// directories.
package iotesting

import (
	"testing"

	"github.com/gnames/gnnorm/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "gnnorm_test"
)

// GetTestConfig returns a configuration suitable for tests. The home
// directory points to a temporary directory, so checkpoint stores and
// export files never touch the real cache. The database name is always
// TestDatabaseName.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig(t)
//	    // ... use cfg for database operations
//	}
func GetTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(t.TempDir()),
		config.OptDatabaseDatabase(TestDatabaseName),
		config.OptNormalizerBatchSize(7),
		config.OptNormalizerCancelInterval(3),
		config.OptJobsNumber(2),
	})
	return cfg
}
