package ionormalize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnnorm/pkg/ent/issue"
	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/gnames/gnnorm/pkg/ent/verbatim"
	"github.com/gnames/gnnorm/pkg/graph"
	"github.com/gnames/gnnorm/pkg/interpret"
	"golang.org/x/sync/errgroup"
)

// basionymRef is a declared basionym of a name node.
type basionymRef struct {
	nameIdx int
	id      string
	key     int64
}

// insert streams records from the archive, interprets them in parallel
// batches and adds the results to the graph in record order.
func (r *run) insert(ctx context.Context) error {
	ch := make(chan *verbatim.Record, r.batchSize())
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.reader.Read(gctx, ch)
	})

	g.Go(func() error {
		return r.consume(gctx, ch)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("Records inserted",
		"dataset_key", r.key,
		"records", humanize.Comma(int64(r.vs.Len())),
		"names", humanize.Comma(int64(r.names)),
	)

	if r.names > 0 && r.unparsable == r.names {
		return ParseError(r.key, r.names)
	}
	return nil
}

func (r *run) batchSize() int {
	if r.cfg.Normalizer.BatchSize < 1 {
		return 1
	}
	return r.cfg.Normalizer.BatchSize
}

func (r *run) consume(ctx context.Context, ch <-chan *verbatim.Record) error {
	size := r.batchSize()
	batch := make([]*verbatim.Record, 0, size)
	timeStart := time.Now()
	var count int

	flush := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, res := range r.interpretBatch(batch) {
			if err := r.add(res); err != nil {
				return err
			}
		}
		count += len(batch)
		batch = batch[:0]
		if r.cfg.Normalizer.ShowProgress {
			speed := float64(count) / time.Since(timeStart).Seconds()
			fmt.Fprintf(os.Stderr, "\r%s", strings.Repeat(" ", 50))
			fmt.Fprintf(os.Stderr, "\rInserted %s records, %s records/sec",
				humanize.Comma(int64(count)), humanize.Comma(int64(speed)))
		}
		return nil
	}

	for rec := range ch {
		r.vs.Add(rec)
		batch = append(batch, rec)
		if len(batch) < size {
			continue
		}
		if err := flush(); err != nil {
			return err
		}
	}

	err := flush()
	if r.cfg.Normalizer.ShowProgress {
		fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", 50))
	}
	return err
}

// interpretBatch interprets records concurrently, results keep the order
// of the batch.
func (r *run) interpretBatch(batch []*verbatim.Record) []interpret.Interpreted {
	res := make([]interpret.Interpreted, len(batch))
	jobs := max(r.cfg.JobsNumber, 1)
	chunk := (len(batch) + jobs - 1) / jobs
	if chunk == 0 {
		return res
	}

	var g errgroup.Group
	for start := 0; start < len(batch); start += chunk {
		end := min(start+chunk, len(batch))
		g.Go(func() error {
			for i := start; i < end; i++ {
				res[i] = r.intr.Record(batch[i])
			}
			return nil
		})
	}
	_ = g.Wait()
	return res
}

// add inserts one interpreted record into the graph.
func (r *run) add(it interpret.Interpreted) error {
	rec := r.vs.Get(it.Key)
	if it.Issues.Len() > 0 {
		r.vs.AddIssues(it.Key, it.Issues.Issues()...)
	}

	switch rec.Type {
	case verbatim.Name:
		idx, canonical, err := r.addName(it.Name, it.Key)
		if err != nil {
			return err
		}
		if id := rec.Get(verbatim.BasionymID); id != "" && canonical {
			r.basionymRefs = append(r.basionymRefs, basionymRef{idx, id, it.Key})
		}
	case verbatim.Usage:
		return r.addUsage(rec, it)
	case verbatim.NameRelation:
		r.relations = append(r.relations, it.Key)
	default:
		if tid := rec.Get(verbatim.TaxonID); tid != "" && rec.Type.IsExtension() {
			if _, ok := r.extensions[tid]; !ok {
				r.extOrder = append(r.extOrder, tid)
			}
			r.extensions[tid] = append(r.extensions[tid], it.Key)
		}
	}
	return nil
}

// addName creates a name node and returns its index. A name with an id
// used before gets an anonymous node marked as a duplicate, and canonical
// is false.
func (r *run) addName(n *nomen.Name, key int64) (idx int, canonical bool, err error) {
	r.names++
	if n.Type == nomen.NoName {
		r.unparsable++
	}

	node, created, err := r.g.AddNode(graph.NameNode, n.ID)
	if err != nil {
		return -1, false, InsertError(r.key, key, err)
	}
	if created {
		node.VerbatimKey = key
		r.g.SetName(node.Idx, n)
		return node.Idx, true, nil
	}

	r.vs.AddIssues(key, issue.IDNotUnique)
	dup, _, err := r.g.AddNode(graph.NameNode, "")
	if err != nil {
		return -1, false, InsertError(r.key, key, err)
	}
	dup.DuplicateOf = n.ID
	dup.VerbatimKey = key
	n.ID = ""
	r.g.SetName(dup.Idx, n)
	return dup.Idx, false, nil
}

func (r *run) addUsage(rec *verbatim.Record, it interpret.Interpreted) error {
	u := it.Usage
	n := it.Name
	if n == nil {
		// the usage refers to a name row
		if nn, ok := r.g.ByID(graph.NameNode, u.NameID); ok {
			return r.addUsageNode(u, nn.Idx, true, it.Key)
		}
		var iss issue.Set
		n, iss = r.intr.Name(rec)
		r.vs.AddIssues(it.Key, iss.Issues()...)
	}
	nameIdx, canonical, err := r.addName(n, it.Key)
	if err != nil {
		return err
	}
	return r.addUsageNode(u, nameIdx, canonical, it.Key)
}

func (r *run) addUsageNode(
	u *interpret.Usage,
	nameIdx int,
	canonicalName bool,
	key int64,
) error {
	node, created, err := r.g.AddNode(graph.UsageNode, u.ID)
	if err != nil {
		return InsertError(r.key, key, err)
	}
	if !created {
		r.vs.AddIssues(key, issue.IDNotUnique)
		if node, _, err = r.g.AddNode(graph.UsageNode, ""); err != nil {
			return InsertError(r.key, key, err)
		}
		node.DuplicateOf = u.ID
	}

	node.VerbatimKey = key
	node.Status = u.Status
	node.Label = graph.Taxon
	if u.IsSynonym() {
		node.Label = graph.Synonym
	}
	r.g.SetUsageName(node.Idx, nameIdx)
	r.usages[node.Idx] = u

	if u.BasionymID != "" && canonicalName && node.DuplicateOf == "" {
		r.basionymRefs = append(r.basionymRefs, basionymRef{nameIdx, u.BasionymID, key})
	}
	return nil
}
