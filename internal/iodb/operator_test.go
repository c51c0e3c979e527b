package iodb_test

import (
	"context"
	"testing"

	"github.com/gnames/gnnorm/internal/iodb"
	"github.com/gnames/gnnorm/internal/iotesting"
	"github.com/gnames/gnnorm/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These are integration tests that require PostgreSQL with a
// gnnorm_test database. They are skipped with -short or when the
// database cannot be reached.

func TestDSN(t *testing.T) {
	tests := []struct {
		msg      string
		user     string
		password string
		res      string
	}{
		{"plain", "postgres", "secret",
			"postgres://postgres:secret@db:5432/gnnorm?sslmode=disable"},
		{"escaped password", "postgres", "p@ss/word",
			"postgres://postgres:p%40ss%2Fword@db:5432/gnnorm?sslmode=disable"},
	}

	for _, v := range tests {
		cfg := config.New().Database
		cfg.Host = "db"
		cfg.Port = 5432
		cfg.Database = "gnnorm"
		cfg.SSLMode = "disable"
		cfg.User = v.user
		cfg.Password = v.password
		assert.Equal(t, v.res, iodb.DSN(&cfg), v.msg)
	}
}

func TestPgxOperator(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()
	cfg := iotesting.GetTestConfig(t)

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	defer op.Close()
	require.NotNil(t, op.Pool())

	_, err := op.Pool().Exec(ctx,
		"CREATE TABLE IF NOT EXISTS iodb_probe (id INT)")
	require.NoError(t, err)

	exists, err := op.TableExists(ctx, "iodb_probe")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = op.TableExists(ctx, "nonexistent_table")
	require.NoError(t, err)
	assert.False(t, exists)

	has, err := op.HasTables(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, op.DropAllTables(ctx))
	has, err = op.HasTables(ctx)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestConnectInvalidHost(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	cfg := iotesting.GetTestConfig(t)
	cfg.Database.Host = "invalid-host-that-does-not-exist"

	op := iodb.NewPgxOperator()
	err := op.Connect(context.Background(), &cfg.Database)
	assert.Error(t, err)
}
