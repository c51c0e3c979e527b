// Package gnnorm defines the contracts of the checklist normalizer: the
// normalizer itself, the components surrounding it in the import
// pipeline, and the values they exchange.
package gnnorm

import (
	"context"
	"time"

	"github.com/gnames/gnnorm/pkg/datasets"
	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/gnames/gnnorm/pkg/ent/verbatim"
	"github.com/gnames/gnnorm/pkg/graph"
)

// Request asks for normalization of one unpacked archive.
type Request struct {
	DatasetKey string
	// Dir is the directory with the archive content.
	Dir string
	// Code overrides the configured default nomenclatural code.
	Code nomen.Code
}

// Summary holds per-dataset counts for import metrics.
type Summary struct {
	DatasetKey string         `json:"datasetKey"`
	Format     string         `json:"format"`
	Records    int            `json:"records"`
	Names      int            `json:"names"`
	BareNames  int            `json:"bareNames"`
	Taxa       int            `json:"taxa"`
	Synonyms   int            `json:"synonyms"`
	Synthetic  int            `json:"synthetic"`
	Basionyms  int            `json:"basionyms"`
	Issues     map[string]int `json:"issues"`
	Duration   time.Duration  `json:"duration"`
}

// Result is the output of a clean normalizer run. The graph is closed and
// read-only.
type Result struct {
	Summary  Summary
	Graph    *graph.Graph
	Verbatim *verbatim.Store
}

// Normalizer turns an archive directory into a consistent graph.
type Normalizer interface {
	Normalize(ctx context.Context, req Request) (*Result, error)
}

// Exporter hands a finished graph over to the downstream importer and
// returns the location of the written data.
type Exporter interface {
	Export(ctx context.Context, res *Result) (string, error)
}

// Fetcher prepares the archive directory of a dataset.
type Fetcher interface {
	Fetch(ctx context.Context, datasetKey string) (string, error)
}

// State is the state of an import attempt.
type State uint8

const (
	Queued State = iota
	Running
	Succeeded
	Failed
	// Canceled is a terminal state that is not a failure.
	Canceled
)

func (s State) String() string {
	switch s {
	case Queued:
		return "QUEUED"
	case Running:
		return "RUNNING"
	case Succeeded:
		return "SUCCEEDED"
	case Failed:
		return "FAILED"
	case Canceled:
		return "CANCELED"
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the attempt is over.
func (s State) IsTerminal() bool {
	return s == Succeeded || s == Failed || s == Canceled
}

// Attempt is one recorded import of a dataset.
type Attempt struct {
	ID         string
	DatasetKey string
	// Number grows with every attempt of the dataset, whatever its outcome.
	Number   int
	State    State
	Started  time.Time
	Finished time.Time
	Error    string
	Summary  *Summary
}

// History records import attempts. The current attempt of a dataset is
// its latest successful one.
type History interface {
	Start(ctx context.Context, datasetKey string) (Attempt, error)
	Finish(ctx context.Context, a Attempt) error
	Current(ctx context.Context, datasetKey string) (Attempt, bool, error)
	Attempts(ctx context.Context, datasetKey string) ([]Attempt, error)
}

// Scheduler owns the queue of import requests.
type Scheduler interface {
	// Submit queues an import. Force marks an explicit re-run, which goes
	// ahead of routine imports of the same priority.
	Submit(datasetKey string, priority int, force bool) error
	// Cancel removes a queued import or stops a running one. It returns
	// false if the dataset is neither queued nor running.
	Cancel(datasetKey string) bool
	// Queue returns keys of queued datasets in dispatch order.
	Queue() []string
	// Running returns keys of datasets being imported.
	Running() []string
	// Schedule registers cron schedules of routine imports.
	Schedule(ds []datasets.Dataset) error
	// Wait blocks until the queue is empty and nothing runs.
	Wait()
	// Close stops cron, drops queued requests, cancels running imports
	// and waits for them to finish.
	Close()
}
