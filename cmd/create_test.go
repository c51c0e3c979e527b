package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCmd(t *testing.T) {
	cmd := getCreateCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "create", cmd.Use)
	assert.Contains(t, cmd.Short, "schema")
	assert.Contains(t, cmd.Long, "PostgreSQL")
	assert.Contains(t, cmd.Long, "GORM AutoMigrate")
	assert.NotNil(t, cmd.RunE)

	tests := []struct {
		flag, short, def string
	}{
		{"force", "f", "false"},
		{"all", "", "false"},
		{"ddl", "", "false"},
	}
	for _, v := range tests {
		f := cmd.Flags().Lookup(v.flag)
		require.NotNil(t, f, v.flag)
		assert.Equal(t, v.short, f.Shorthand, v.flag)
		assert.Equal(t, v.def, f.DefValue, v.flag)
	}
}

func TestCreateCmdHelp(t *testing.T) {
	cmd := getCreateCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	help := buf.String()
	assert.Contains(t, help, "--force")
	assert.Contains(t, help, "Examples:")
	assert.Contains(t, help, "gnnorm create --force")
}

func TestCreateCmdDDL(t *testing.T) {
	cmd := getCreateCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--ddl"})

	err := cmd.Execute()
	require.NoError(t, err)

	ddl := buf.String()
	assert.Contains(t, ddl, "CREATE TABLE")
	assert.Contains(t, ddl, "import_attempts")
	assert.Contains(t, ddl, "dataset_imports")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		msg, input string
		ok         bool
	}{
		{"yes", "yes\n", true},
		{"y", "Y\n", true},
		{"no", "no\n", false},
		{"empty", "\n", false},
		{"no newline", "yes", true},
		{"eof", "", false},
	}
	for _, v := range tests {
		ok, err := confirm(strings.NewReader(v.input))
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.ok, ok, v.msg)
	}
}
