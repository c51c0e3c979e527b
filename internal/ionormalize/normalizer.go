// Package ionormalize implements the Normalizer. It reads an archive into
// a verbatim store and an arena graph, then runs strictly ordered passes
// that link relationships, resolve basionym groups, settle identities and
// match names against the names index. Every pass ends with a durable
// checkpoint.
package ionormalize

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnnorm/internal/ioarchive"
	"github.com/gnames/gnnorm/internal/iostore"
	gnnorm "github.com/gnames/gnnorm/pkg"
	"github.com/gnames/gnnorm/pkg/config"
	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/gnames/gnnorm/pkg/ent/verbatim"
	"github.com/gnames/gnnorm/pkg/graph"
	"github.com/gnames/gnnorm/pkg/interpret"
	"github.com/gnames/gnnorm/pkg/namesindex"
)

// normalizer implements the Normalizer interface.
type normalizer struct {
	cfg     *config.Config
	parser  interpret.Parser
	matcher namesindex.Matcher
}

// New creates a Normalizer. A nil matcher switches names-index matching
// off.
func New(
	cfg *config.Config,
	p interpret.Parser,
	m namesindex.Matcher,
) gnnorm.Normalizer {
	if m == nil || !cfg.Normalizer.MatchNames {
		m = namesindex.PassThrough{}
	}
	return &normalizer{cfg: cfg, parser: p, matcher: m}
}

// Normalize runs all passes over one archive. On failure or cancellation
// the checkpoint store is removed, a run is never resumed.
func (n *normalizer) Normalize(
	ctx context.Context,
	req gnnorm.Request,
) (*gnnorm.Result, error) {
	start := time.Now()
	key := req.DatasetKey
	if key == "" {
		key = filepath.Base(filepath.Clean(req.Dir))
	}

	reader, err := ioarchive.New(req.Dir)
	if err != nil {
		return nil, err
	}

	store, err := iostore.New(config.StoreDir(n.cfg.HomeDir, key))
	if err != nil {
		return nil, err
	}

	code := req.Code
	if code == nomen.UnknownCode {
		code, _ = nomen.ParseCode(n.cfg.Normalizer.DefaultCode)
	}

	r := newRun(n.cfg, key, code, n.parser, n.matcher)
	r.reader = reader
	r.store = store

	slog.Info("Starting normalization",
		"dataset_key", key,
		"dir", req.Dir,
		"format", reader.Format().String(),
	)

	err = r.execute(ctx)
	if err != nil {
		if rmErr := store.Remove(); rmErr != nil {
			slog.Warn("Cannot remove checkpoint store",
				"dataset_key", key, "error", rmErr)
		}
		return nil, err
	}
	if err = store.Close(); err != nil {
		slog.Warn("Cannot close checkpoint store",
			"dataset_key", key, "error", err)
	}

	summary := r.summary()
	summary.Duration = time.Since(start)
	slog.Info("Normalization finished",
		"dataset_key", key,
		"records", humanize.Comma(int64(summary.Records)),
		"taxa", humanize.Comma(int64(summary.Taxa)),
		"synonyms", humanize.Comma(int64(summary.Synonyms)),
		"duration", gnfmt.TimeString(summary.Duration.Seconds()),
	)

	return &gnnorm.Result{
		Summary:  summary,
		Graph:    r.g,
		Verbatim: r.vs,
	}, nil
}

// pass is one step of the normalization.
type pass struct {
	name string
	fn   func(context.Context) error
}

// run keeps the state of one normalization.
type run struct {
	cfg     *config.Config
	key     string
	reader  ioarchive.Reader
	store   *iostore.Store
	intr    *interpret.Interpreter
	matcher namesindex.Matcher

	g  *graph.Graph
	vs *verbatim.Store

	// usages keeps interpreted usages by usage node index.
	usages map[int]*interpret.Usage
	// basionymRefs are basionym references in record order.
	basionymRefs []basionymRef
	// relations are verbatim keys of name relation rows.
	relations []int64
	// extensions maps a declared taxon id to verbatim keys of its
	// extension rows.
	extensions map[string][]int64
	extOrder   []string
	// higher caches classification taxa by rank and name.
	higher map[nomen.RankedName]int
	// incertae is the synthesized root for unplaced taxa, -1 until needed.
	incertae int

	names      int
	unparsable int
}

func newRun(
	cfg *config.Config,
	key string,
	code nomen.Code,
	p interpret.Parser,
	m namesindex.Matcher,
) *run {
	return &run{
		cfg:        cfg,
		key:        key,
		intr:       interpret.New(p, code),
		matcher:    m,
		g:          graph.New(key),
		vs:         verbatim.NewStore(),
		usages:     make(map[int]*interpret.Usage),
		extensions: make(map[string][]int64),
		higher:     make(map[nomen.RankedName]int),
		incertae:   -1,
	}
}

func (r *run) passes() []pass {
	return []pass{
		{"insert", r.insert},
		{"link", r.link},
		{"classification", r.classify},
		{"basionym", r.resolveBasionyms},
		{"identity", r.identity},
		{"match", r.match},
		{"aggregate", r.aggregate},
	}
}

func (r *run) execute(ctx context.Context) error {
	for _, p := range r.passes() {
		if ctx.Err() != nil {
			return CanceledError(r.key, p.name)
		}

		start := time.Now()
		slog.Info("Starting pass", "dataset_key", r.key, "pass", p.name)

		err := p.fn(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return CanceledError(r.key, p.name)
			}
			return err
		}

		if r.store != nil {
			if err = r.store.Checkpoint(p.name, r.g, r.vs); err != nil {
				return err
			}
		}

		slog.Info("Pass finished",
			"dataset_key", r.key,
			"pass", p.name,
			"duration", gnfmt.TimeString(time.Since(start).Seconds()),
		)
	}
	return nil
}

// checkCancel polls the context every cancel_interval iterations.
func (r *run) checkCancel(ctx context.Context, i int, pass string) error {
	interval := r.cfg.Normalizer.CancelInterval
	if interval < 1 {
		interval = 1
	}
	if i%interval != 0 {
		return nil
	}
	if ctx.Err() != nil {
		return CanceledError(r.key, pass)
	}
	return nil
}
