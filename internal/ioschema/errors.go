package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/pkg/errcode"
)

// NotConnectedError creates an error for a history schema operation
// without a database connection.
func NotConnectedError() error {
	msg := "Import history schema needs a database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// GORMConnectionError creates an error for GORM
// connection failures.
func GORMConnectionError(err error) error {
	msg := `Cannot open the import history database with GORM

<em>How to fix:</em>
  1. Check the database section of config.yaml
  2. Make sure PostgreSQL accepts connections`

	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to connect with GORM: %w", err),
	}
}

// CreateSchemaError creates an error for schema
// creation failures.
func CreateSchemaError(err error) error {
	msg := `Cannot create import history schema

<em>Possible causes:</em>
  - Insufficient database permissions
  - History tables are used by another process

<em>How to fix:</em>
  1. Check database user has CREATE permissions
  2. Stop running "gnnorm schedule" processes
  3. Run "gnnorm create --force"`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to create schema: %w", err),
	}
}

// MigrateSchemaError creates an error for schema
// migration failures.
func MigrateSchemaError(err error) error {
	msg := `Cannot migrate import history schema

<em>Possible causes:</em>
  - Attempts that violate new constraints
  - Insufficient database permissions

<em>How to fix:</em>
  1. Check database user permissions
  2. Recreate the schema with "gnnorm create --force",
     recorded attempts will be lost`

	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to migrate schema: %w", err),
	}
}
