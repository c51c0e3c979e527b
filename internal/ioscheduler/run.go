package ioscheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	gnnorm "github.com/gnames/gnnorm/pkg"
	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/gnames/gnnorm/pkg/graph"
)

// run performs one import attempt. The previous successful attempt stays
// current unless this one succeeds.
func (s *scheduler) run(ctx context.Context, req *request) {
	defer s.wg.Done()
	defer s.sem.Release(1)
	defer s.done(req.key)

	start := time.Now()
	a, err := s.p.History.Start(ctx, req.key)
	if err != nil {
		slog.Error("Cannot start import attempt",
			"dataset_key", req.key, "error", err)
		s.metrics.ObserveRun(gnnorm.Attempt{
			DatasetKey: req.key,
			State:      gnnorm.Failed,
		}, time.Since(start))
		return
	}
	slog.Info("Import started",
		"dataset_key", req.key,
		"attempt", a.Number,
		"force", req.force,
	)

	res, err := s.execute(ctx, req)
	a.State = classify(ctx, err)
	a.Finished = time.Now()
	if err != nil {
		a.Error = err.Error()
	}
	if res != nil {
		a.Summary = &res.Summary
	}

	// the attempt is recorded even when the run was canceled
	if err := s.p.History.Finish(context.WithoutCancel(ctx), a); err != nil {
		slog.Error("Cannot finish import attempt",
			"dataset_key", req.key, "error", err)
	}
	s.metrics.ObserveRun(a, time.Since(start))

	switch a.State {
	case gnnorm.Succeeded:
		slog.Info("Import succeeded",
			"dataset_key", req.key,
			"attempt", a.Number,
			"records", humanize.Comma(int64(res.Summary.Records)),
			"duration", gnfmt.TimeString(time.Since(start).Seconds()),
		)
	case gnnorm.Canceled:
		slog.Info("Import canceled",
			"dataset_key", req.key, "attempt", a.Number)
	default:
		slog.Error("Import failed",
			"dataset_key", req.key, "attempt", a.Number, "error", err)
	}
}

func (s *scheduler) execute(ctx context.Context, req *request) (*gnnorm.Result, error) {
	var dir string
	err := stage(ctx, req.key, "fetch", s.cfg.Scheduler.FetchTimeout,
		func(ctx context.Context) error {
			var err error
			dir, err = s.p.Fetcher.Fetch(ctx, req.key)
			return err
		})
	if err != nil {
		return nil, err
	}

	var res *gnnorm.Result
	err = stage(ctx, req.key, "normalize", s.cfg.Scheduler.NormalizeTimeout,
		func(ctx context.Context) error {
			var err error
			res, err = s.p.Normalizer.Normalize(ctx, gnnorm.Request{
				DatasetKey: req.key,
				Dir:        dir,
				Code:       s.code(req.key),
			})
			return err
		})
	if err != nil {
		return nil, err
	}

	if s.p.Exporter != nil {
		if _, err = s.p.Exporter.Export(ctx, res); err != nil {
			return res, err
		}
	}

	if s.p.Index != nil {
		if err = s.p.Index.Add(ctx, names(res.Graph)); err != nil {
			slog.Warn("Names index not updated",
				"dataset_key", req.key, "error", err)
		}
	}
	return res, nil
}

func (s *scheduler) code(key string) nomen.Code {
	if c, ok := s.p.Codes[key]; ok {
		return c
	}
	return nomen.UnknownCode
}

// stage runs fn with its own timeout. Running out of time fails the
// import, a canceled parent cancels it.
func stage(
	ctx context.Context,
	key, name string,
	timeout time.Duration,
	fn func(context.Context) error,
) error {
	parent := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	err := fn(ctx)
	if err != nil && parent.Err() == nil &&
		errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return TimeoutError(key, name, timeout, err)
	}
	return err
}

// classify turns the outcome of a run into the attempt state. A run
// whose context was canceled is never a failure.
func classify(ctx context.Context, err error) gnnorm.State {
	switch {
	case err == nil:
		return gnnorm.Succeeded
	case ctx.Err() != nil:
		return gnnorm.Canceled
	default:
		return gnnorm.Failed
	}
}

func names(g *graph.Graph) []*nomen.Name {
	var res []*nomen.Name
	for n := range g.Nodes(graph.NameNode) {
		if n.Name != nil && !n.Synthetic {
			res = append(res, n.Name)
		}
	}
	return res
}
