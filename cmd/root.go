/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/internal/iofs"
	"github.com/gnames/gnnorm/internal/iologger"
	app "github.com/gnames/gnnorm/pkg"
	"github.com/gnames/gnnorm/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir   string
	opts      []config.Option
	cfg       *config.Config
	closeLogs func() error
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "gnnorm",
		Short:   "GNnorm normalizes biodiversity checklists into consistent trees",
		Long: `GNnorm imports biodiversity checklist archives (ACEF, DwC-A, ColDP)
and normalizes each of them into one consistent taxonomic tree.

Features:
  - Normalization: parent and synonym linking, classification,
    basionym groups, stable identifiers, names-index matching
  - Export: finished datasets are written into SQLite files
  - Scheduling: prioritized and cron driven imports with history
    kept in memory or in PostgreSQL
  - Metrics: Prometheus endpoint for long running schedules

Configuration is read from config.yaml and GNNORM_ environment
variables. Datasets known to the scheduler are listed in datasets.yaml.`,
		PersistentPreRunE:  bootstrap,
		PersistentPostRunE: shutdown,
		RunE:               runRoot,
		SilenceErrors:      true,
		SilenceUsage:       true,
	}

	// Remove the automatic "gnnorm version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gnnorm")

	rootCmd.AddCommand(
		getNormalizeCmd(),
		getScheduleCmd(),
		getCreateCmd(),
		getMigrateCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if closeLogs, err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = iofs.EnsureDatasetsFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info(
		"Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir),
	)

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", config.ConfigFilePath(homeDir))
	return nil
}

// reconfigureLogging reinitializes the logger with the loaded
// configuration. The file written by the default logger is appended to.
func reconfigureLogging(cfg *config.Config) error {
	if err := shutdown(nil, nil); err != nil {
		return err
	}
	var err error
	closeLogs, err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log, true)
	return err
}

func shutdown(_ *cobra.Command, _ []string) error {
	if closeLogs == nil {
		return nil
	}
	err := closeLogs()
	closeLogs = nil
	return err
}

func runRoot(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

// envVars lists configuration keys that can be set by environment
// variables. They match the fields included in config.ToOptions().
var envVars = []string{
	"normalizer.batch_size",
	"normalizer.cancel_interval",
	"normalizer.id_alphabet",
	"normalizer.default_code",
	"normalizer.match_names",
	"normalizer.export",

	"scheduler.workers",
	"scheduler.normalize_timeout",
	"scheduler.fetch_timeout",
	"scheduler.metrics_addr",
	"scheduler.history",
	"scheduler.names_cache_size",

	"database.host",
	"database.port",
	"database.user",
	"database.password",
	"database.database",
	"database.ssl_mode",

	"log.level",
	"log.format",
	"log.destination",

	"jobs_number",
}

// envName converts a configuration key to its environment variable, for
// example "database.host" to "GNNORM_DATABASE_HOST".
func envName(key string) string {
	return "GNNORM_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func initEnvVars(v *viper.Viper) {
	// We bind variables manually so we can see clearly which env variables
	// are allowed.
	v.SetEnvPrefix("GNNORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range envVars {
		_ = v.BindEnv(key, envName(key))
	}

	v.AutomaticEnv()
}
