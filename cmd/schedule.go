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
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/internal/iodatasets"
	"github.com/gnames/gnnorm/internal/ioexport"
	"github.com/gnames/gnnorm/internal/iohistory"
	"github.com/gnames/gnnorm/internal/iometrics"
	"github.com/gnames/gnnorm/internal/ionormalize"
	"github.com/gnames/gnnorm/internal/ioscheduler"
	gnnorm "github.com/gnames/gnnorm/pkg"
	"github.com/gnames/gnnorm/pkg/config"
	"github.com/gnames/gnnorm/pkg/datasets"
	"github.com/gnames/gnnorm/pkg/namesindex"
	"github.com/gnames/gnnorm/pkg/parserpool"
	"github.com/spf13/cobra"
)

// getScheduleCmd returns the schedule command.
func getScheduleCmd() *cobra.Command {
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Import registered datasets through the scheduler",
		Long: `Schedule imports datasets registered in datasets.yaml.

Imports run in priority order by a bounded number of workers, at most
one import per dataset at a time. Names of successful imports are added
to the names index, later imports are matched against it.

Without --serve all selected datasets are imported once and the command
exits. With --serve datasets given by --datasets are imported at once,
cron schedules of the selected datasets are registered, and Prometheus
metrics are served until the command is interrupted.

Examples:
  gnnorm schedule
  gnnorm schedule -d col,itis -f
  gnnorm schedule --serve -w 4`,
		RunE: runSchedule,
	}

	scheduleCmd.Flags().StringSliceP("datasets", "d", nil,
		"keys of datasets to import, all registered datasets by default")
	scheduleCmd.Flags().BoolP("force", "f", false,
		"re-run imports ahead of routine ones")
	scheduleCmd.Flags().Bool("serve", false,
		"keep cron schedules and the metrics endpoint running")
	scheduleCmd.Flags().IntP("workers", "w", 0,
		"number of parallel imports")
	scheduleCmd.Flags().IntP("jobs", "j", 0,
		"number of parallel name parsing jobs")
	scheduleCmd.Flags().BoolP("export", "e", false,
		"export finished datasets into SQLite files")
	scheduleCmd.Flags().String("history", "",
		"import history storage (memory, postgres)")

	return scheduleCmd
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	cfg.Update(flagOptions(cmd, jobsFlag, workersFlag, exportFlag, historyFlag))
	keys, _ := cmd.Flags().GetStringSlice("datasets")
	force, _ := cmd.Flags().GetBool("force")
	serve, _ := cmd.Flags().GetBool("serve")

	reg, err := iodatasets.Load(config.DatasetsFilePath(cfg.HomeDir))
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	ds, missing := reg.Filter(keys)
	for _, k := range missing {
		gn.Warn("Dataset <em>%s</em> is not registered, skipping", k)
	}
	if len(ds) == 0 {
		gn.Info("No datasets to import")
		return nil
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	hist, closeHist, err := iohistory.Open(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer closeHist()

	index, err := namesindex.NewCached(
		namesindex.NewMemory(), cfg.Scheduler.NamesCacheSize,
	)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	pool := parserpool.NewPool(cfg.JobsNumber)
	defer pool.Close()

	metrics := iometrics.New()
	p := ioscheduler.Pipeline{
		Fetcher:    iodatasets.NewFetcher(cfg, reg),
		Normalizer: ionormalize.New(cfg, pool, index),
		History:    hist,
		Index:      index,
		Metrics:    metrics,
		Codes:      iodatasets.Codes(reg),
	}
	if cfg.Normalizer.Export {
		p.Exporter = ioexport.New(cfg)
	}
	sch := ioscheduler.New(cfg, p)
	defer sch.Close()

	submit := ds
	if serve && len(keys) == 0 {
		submit = nil
	}
	for _, d := range submit {
		if err = sch.Submit(d.Key, d.Priority, force); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
	}

	if serve {
		err = runServe(ctx, sch, metrics, ds)
	} else {
		waitImports(ctx, sch)
	}
	sch.Close()

	report(hist, ds)
	if err != nil {
		gn.PrintErrorMessage(err)
	}
	return err
}

// runServe registers cron schedules and serves metrics until ctx is
// canceled.
func runServe(
	ctx context.Context,
	sch gnnorm.Scheduler,
	metrics *iometrics.Metrics,
	ds []datasets.Dataset,
) error {
	if err := sch.Schedule(ds); err != nil {
		return err
	}
	gn.Info(
		"Serving metrics at <em>%s/metrics</em>, press Ctrl-C to stop",
		cfg.Scheduler.MetricsAddr,
	)
	return metrics.Serve(ctx, cfg.Scheduler.MetricsAddr)
}

// waitImports blocks until all submitted imports are over. An interrupt
// cancels running imports.
func waitImports(ctx context.Context, sch gnnorm.Scheduler) {
	done := make(chan struct{})
	go func() {
		sch.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		gn.Warn("Interrupted, canceling running imports...")
		sch.Close()
		<-done
	}
}

// report prints the last attempt of every dataset.
func report(hist gnnorm.History, ds []datasets.Dataset) {
	ctx := context.Background()
	for _, d := range ds {
		aa, err := hist.Attempts(ctx, d.Key)
		if err != nil {
			gn.PrintErrorMessage(err)
			continue
		}
		if len(aa) == 0 {
			continue
		}
		a := aa[len(aa)-1]
		switch a.State {
		case gnnorm.Succeeded:
			var records int
			if a.Summary != nil {
				records = a.Summary.Records
			}
			gn.Info("<em>%s</em> attempt %d: %s, %d records",
				d.Key, a.Number, a.State, records)
		case gnnorm.Failed:
			gn.Warn("%s attempt %d: %s, %s", d.Key, a.Number, a.State, a.Error)
		default:
			gn.Info("<em>%s</em> attempt %d: %s", d.Key, a.Number, a.State)
		}
	}
}
