package cmd

import (
	"github.com/gnames/gnnorm/pkg/config"
	"github.com/spf13/cobra"
)

// funcFlag converts a command line flag into configuration options.
// Flags that were not set produce no options, so config.yaml and
// environment settings stay in force.
type funcFlag func(cmd *cobra.Command) []config.Option

func jobsFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("jobs") {
		return nil
	}
	i, _ := cmd.Flags().GetInt("jobs")
	return []config.Option{config.OptJobsNumber(i)}
}

func exportFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("export") {
		return nil
	}
	b, _ := cmd.Flags().GetBool("export")
	return []config.Option{config.OptNormalizerExport(b)}
}

func progressFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("progress") {
		return nil
	}
	b, _ := cmd.Flags().GetBool("progress")
	return []config.Option{config.OptNormalizerShowProgress(b)}
}

func workersFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("workers") {
		return nil
	}
	i, _ := cmd.Flags().GetInt("workers")
	return []config.Option{config.OptSchedulerWorkers(i)}
}

func historyFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("history") {
		return nil
	}
	s, _ := cmd.Flags().GetString("history")
	return []config.Option{config.OptSchedulerHistory(s)}
}

func flagOptions(cmd *cobra.Command, ff ...funcFlag) []config.Option {
	var res []config.Option
	for _, f := range ff {
		res = append(res, f(cmd)...)
	}
	return res
}
