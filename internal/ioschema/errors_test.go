package ioschema

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	orig := errors.New("boom")
	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
	}{
		{"not connected", NotConnectedError(), errcode.DBNotConnectedError},
		{"gorm", GORMConnectionError(orig), errcode.SchemaGORMConnectionError},
		{"create", CreateSchemaError(orig), errcode.SchemaCreateError},
		{"migrate", MigrateSchemaError(orig), errcode.SchemaMigrateError},
	}
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			gnErr, ok := v.err.(*gn.Error)
			require.True(t, ok)
			assert.Equal(t, v.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			if v.code != errcode.DBNotConnectedError {
				assert.ErrorIs(t, gnErr.Err, orig)
			}
		})
	}
}
