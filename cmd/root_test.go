package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "gnnorm", cmd.Use)
	assert.Contains(t, cmd.Short, "GNnorm")
	assert.Contains(t, cmd.Long, "ColDP")
	assert.NotNil(t, cmd.PersistentPreRunE,
		"PersistentPreRunE should be set for bootstrap")
	assert.NotNil(t, cmd.PersistentPostRunE)
	assert.NotNil(t, cmd.RunE)
	assert.True(t, cmd.SilenceErrors)
	assert.True(t, cmd.SilenceUsage)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, n := range []string{"normalize", "schedule", "create", "migrate"} {
		assert.Contains(t, names, n)
	}
}

func TestRootCmdVersion(t *testing.T) {
	tests := []struct {
		msg, flag string
	}{
		{"long", "--version"},
		{"short", "-V"},
	}

	for _, v := range tests {
		cmd := getRootCmd()
		cmd.Version = "version: v1.2.3\nbuild:   abc123"

		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetArgs([]string{v.flag})

		err := cmd.Execute()
		require.NoError(t, err, v.msg)

		out := buf.String()
		assert.Contains(t, out, "v1.2.3", v.msg)
		assert.Contains(t, out, "abc123", v.msg)
		assert.NotContains(t, out, "gnnorm version", v.msg)
	}
}

func TestRootCmdHelp(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	help := buf.String()
	assert.Contains(t, help, "gnnorm")
	assert.Contains(t, help, "normalize")
	assert.Contains(t, help, "schedule")
}

func TestRootCmdIndependentInstances(t *testing.T) {
	cmd1 := getRootCmd()
	cmd2 := getRootCmd()
	assert.NotSame(t, cmd1, cmd2)

	cmd1.Version = "version1"
	cmd2.Version = "version2"
	assert.Equal(t, "version1", cmd1.Version)
	assert.Equal(t, "version2", cmd2.Version)
}

func TestRootCmdInvalidCommand(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"nonexistent-command"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t,
		strings.Contains(buf.String(), "unknown") ||
			strings.Contains(err.Error(), "unknown"),
	)
}

func TestEnvName(t *testing.T) {
	tests := []struct {
		key, env string
	}{
		{"database.host", "GNNORM_DATABASE_HOST"},
		{"scheduler.names_cache_size", "GNNORM_SCHEDULER_NAMES_CACHE_SIZE"},
		{"jobs_number", "GNNORM_JOBS_NUMBER"},
	}
	for _, v := range tests {
		assert.Equal(t, v.env, envName(v.key), v.key)
	}
}

func TestInitEnvVars(t *testing.T) {
	t.Setenv("GNNORM_DATABASE_HOST", "db.example.org")
	t.Setenv("GNNORM_SCHEDULER_WORKERS", "5")
	t.Setenv("GNNORM_SCHEDULER_NORMALIZE_TIMEOUT", "90m")

	v := viper.New()
	initEnvVars(v)

	assert.Equal(t, "db.example.org", v.GetString("database.host"))
	assert.Equal(t, 5, v.GetInt("scheduler.workers"))
	assert.Equal(t, "1h30m0s", v.GetDuration("scheduler.normalize_timeout").String())
}
