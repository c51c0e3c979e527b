package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model any, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))
}

func (a ImportAttempt) TableName() string { return "import_attempts" }

func (a ImportAttempt) TableDDL() string {
	return generateDDL(a, a.TableName())
}

func (a ImportAttempt) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX idx_attempt_number ON import_attempts (dataset_key, number);",
		"CREATE INDEX idx_attempt_state ON import_attempts (dataset_key, state);",
	}
}

func (d DatasetImport) TableName() string { return "dataset_imports" }

func (d DatasetImport) TableDDL() string {
	return generateDDL(d, d.TableName())
}

func (d DatasetImport) IndexDDL() []string {
	return nil
}

// DDL returns the full schema as a SQL script, for databases managed
// without GORM.
func DDL() string {
	var sb strings.Builder
	for _, m := range AllModels() {
		g, ok := m.(DDLGenerator)
		if !ok {
			continue
		}
		sb.WriteString(g.TableDDL())
		sb.WriteString("\n")
		for _, idx := range g.IndexDDL() {
			sb.WriteString(idx)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
