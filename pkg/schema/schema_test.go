package schema_test

import (
	"strings"
	"testing"

	"github.com/gnames/gnnorm/pkg/schema"
	"github.com/stretchr/testify/assert"
)

func TestImportAttemptDDL(t *testing.T) {
	a := schema.ImportAttempt{}
	ddl := a.TableDDL()

	assert.Contains(t, ddl, "CREATE TABLE import_attempts")
	assert.Contains(t, ddl, "id UUID PRIMARY KEY")
	assert.Contains(t, ddl, "dataset_key VARCHAR(100) NOT NULL")
	assert.Contains(t, ddl, "finished_at TIMESTAMP")
	assert.Len(t, a.IndexDDL(), 2)
}

func TestDatasetImportDDL(t *testing.T) {
	d := schema.DatasetImport{}
	assert.Equal(t, "dataset_imports", d.TableName())
	assert.Contains(t, d.TableDDL(), "dataset_key VARCHAR(100) PRIMARY KEY")
	assert.Empty(t, d.IndexDDL())
}

func TestDDL(t *testing.T) {
	ddl := schema.DDL()
	assert.Equal(t, 2, strings.Count(ddl, "CREATE TABLE"))
	assert.Contains(t, ddl, "idx_attempt_number")
}

func TestAllModels(t *testing.T) {
	for _, m := range schema.AllModels() {
		_, ok := m.(schema.DDLGenerator)
		assert.True(t, ok)
	}
}
