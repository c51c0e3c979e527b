package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/pkg/errcode"
)

// ConnectionError creates an error for failed connections
// to PostgreSQL.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to PostgreSQL database <em>%s</em>

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>
  2. Verify database exists:
     <em>psql -h %s -U %s -l</em>
  3. Use memory history instead:
     <em>scheduler.history: memory</em>`

	vars := []any{database, host, port, host, user}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// NotConnectedError creates an error for operations
// attempted before Connect.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database operation attempted without connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// QueryError creates an error for a failed query.
func QueryError(op string, err error) error {
	return &gn.Error{
		Code: errcode.DBQueryError,
		Msg:  "Database query failed: <em>%s</em>",
		Vars: []any{op},
		Err:  fmt.Errorf("failed to %s: %w", op, err),
	}
}
