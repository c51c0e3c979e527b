// Package ioscheduler owns the queue of import requests. A bounded pool of
// workers takes requests in priority order and runs them through the
// fetch, normalize and export stages, at most one run per dataset.
package ioscheduler

import (
	"container/heap"
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/gnames/gnnorm/internal/iometrics"
	gnnorm "github.com/gnames/gnnorm/pkg"
	"github.com/gnames/gnnorm/pkg/config"
	"github.com/gnames/gnnorm/pkg/datasets"
	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/gnames/gnnorm/pkg/namesindex"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/semaphore"
)

// Pipeline holds the components an import goes through.
type Pipeline struct {
	Fetcher    gnnorm.Fetcher
	Normalizer gnnorm.Normalizer
	History    gnnorm.History

	// Exporter is optional, without it finished graphs are not handed
	// over.
	Exporter gnnorm.Exporter

	// Index is optional. It receives names of successful imports.
	Index namesindex.Updater

	// Metrics is optional.
	Metrics *iometrics.Metrics

	// Codes are nomenclatural codes of datasets that override the
	// configured default.
	Codes map[string]nomen.Code
}

type scheduler struct {
	cfg     *config.Config
	p       Pipeline
	metrics *iometrics.Metrics

	sem  *semaphore.Weighted
	ctx  context.Context
	stop context.CancelFunc
	cron *cron.Cron
	wake chan struct{}
	wg   sync.WaitGroup

	mu      sync.Mutex
	idle    *sync.Cond
	queue   requestQueue
	queued  map[string]*request
	running map[string]context.CancelFunc
	seq     uint64
	closed  bool
}

// New creates a scheduler and starts its dispatcher. It must be closed
// with Close.
func New(cfg *config.Config, p Pipeline) gnnorm.Scheduler {
	workers := max(cfg.Scheduler.Workers, 1)
	ctx, stop := context.WithCancel(context.Background())
	s := &scheduler{
		cfg:     cfg,
		p:       p,
		metrics: p.Metrics,
		sem:     semaphore.NewWeighted(int64(workers)),
		ctx:     ctx,
		stop:    stop,
		cron:    cron.New(),
		wake:    make(chan struct{}, 1),
		queued:  make(map[string]*request),
		running: make(map[string]context.CancelFunc),
	}
	if s.metrics == nil {
		s.metrics = iometrics.New()
	}
	s.idle = sync.NewCond(&s.mu)

	s.wg.Add(1)
	go s.dispatch()
	return s
}

// Submit queues an import. A request for an already queued dataset is
// merged with the queued one.
func (s *scheduler) Submit(key string, priority int, force bool) error {
	if key == "" {
		return SubmitError(key, errors.New("empty dataset key"))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ClosedError(key)
	}

	if req, ok := s.queued[key]; ok {
		req.priority = max(req.priority, priority)
		req.force = req.force || force
		heap.Fix(&s.queue, req.index)
	} else {
		s.seq++
		req = &request{
			key:       key,
			priority:  priority,
			force:     force,
			submitted: time.Now(),
			seq:       s.seq,
		}
		heap.Push(&s.queue, req)
		s.queued[key] = req
	}

	slog.Info("Import queued",
		"dataset_key", key,
		"priority", priority,
		"force", force,
	)
	s.updateGauges()
	s.signal()
	return nil
}

func (s *scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found bool
	if req, ok := s.queued[key]; ok {
		heap.Remove(&s.queue, req.index)
		delete(s.queued, key)
		found = true
	}
	if cancel, ok := s.running[key]; ok {
		cancel()
		found = true
	}
	if found {
		slog.Info("Import canceled", "dataset_key", key)
		s.updateGauges()
		s.idle.Broadcast()
	}
	return found
}

func (s *scheduler) Queue() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	reqs := slices.Clone(s.queue)
	slices.SortFunc(reqs, func(a, b *request) int {
		if before(a, b) {
			return -1
		}
		return 1
	})
	res := make([]string, len(reqs))
	for i, r := range reqs {
		res[i] = r.key
	}
	return res
}

func (s *scheduler) Running() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.running))
}

// Schedule submits routine imports of datasets according to their cron
// schedules. Datasets without a schedule are skipped.
func (s *scheduler) Schedule(ds []datasets.Dataset) error {
	var count int
	for _, d := range ds {
		if d.Schedule == "" {
			continue
		}
		key, priority := d.Key, d.Priority
		_, err := s.cron.AddFunc(d.Schedule, func() {
			if err := s.Submit(key, priority, false); err != nil {
				slog.Warn("Routine import not queued",
					"dataset_key", key, "error", err)
			}
		})
		if err != nil {
			return CronError(d.Key, d.Schedule, err)
		}
		count++
	}
	if count > 0 {
		s.cron.Start()
		slog.Info("Routine imports scheduled", "datasets", count)
	}
	return nil
}

func (s *scheduler) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.closed && (len(s.queued) > 0 || len(s.running) > 0) {
		s.idle.Wait()
	}
}

func (s *scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.queue = nil
	clear(s.queued)
	s.updateGauges()
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.stop()
	s.wg.Wait()

	s.mu.Lock()
	s.idle.Broadcast()
	s.mu.Unlock()
}

// dispatch starts a run whenever a worker is free and a request can go.
func (s *scheduler) dispatch() {
	defer s.wg.Done()
	for {
		if err := s.sem.Acquire(s.ctx, 1); err != nil {
			return
		}
		req, ctx := s.next()
		if req == nil {
			s.sem.Release(1)
			return
		}
		s.wg.Add(1)
		go s.run(ctx, req)
	}
}

// next blocks until a request can be dispatched and marks its dataset as
// running. It returns nil when the scheduler is closed.
func (s *scheduler) next() (*request, context.Context) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return nil, nil
		}
		if req := s.popReady(); req != nil {
			ctx, cancel := context.WithCancel(s.ctx)
			s.running[req.key] = cancel
			s.updateGauges()
			s.mu.Unlock()
			return req, ctx
		}
		s.mu.Unlock()

		select {
		case <-s.wake:
		case <-s.ctx.Done():
			return nil, nil
		}
	}
}

// popReady takes the first request whose dataset is not running. Requests
// of running datasets stay queued.
func (s *scheduler) popReady() *request {
	var skipped []*request
	defer func() {
		for _, r := range skipped {
			heap.Push(&s.queue, r)
		}
	}()
	for s.queue.Len() > 0 {
		req := heap.Pop(&s.queue).(*request)
		if _, busy := s.running[req.key]; busy {
			skipped = append(skipped, req)
			continue
		}
		delete(s.queued, req.key)
		return req
	}
	return nil
}

// done releases the dataset after a run.
func (s *scheduler) done(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.running[key]; ok {
		cancel()
		delete(s.running, key)
	}
	s.updateGauges()
	s.idle.Broadcast()
	s.signal()
}

func (s *scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// updateGauges must be called with the lock held.
func (s *scheduler) updateGauges() {
	s.metrics.SetQueue(len(s.queued))
	s.metrics.SetRunning(len(s.running))
}
