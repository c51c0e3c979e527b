// Package ioexport hands finished graphs over to the downstream importer.
// Every dataset is written into its own SQLite file with a fixed set of
// tables created by embedded goose migrations.
package ioexport

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	gnnorm "github.com/gnames/gnnorm/pkg"
	"github.com/gnames/gnnorm/pkg/config"
	"github.com/gnames/gnnorm/pkg/graph"
	"github.com/gnames/gnsys"
	"github.com/pressly/goose/v3"

	// Pure Go SQLite driver (no CGo)
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// goose keeps its base filesystem and dialect in package state.
var gooseMu sync.Mutex

type exporter struct {
	dir string
	enc gnfmt.GNjson
}

// New creates an Exporter writing into the export directory of the home
// directory.
func New(cfg *config.Config) gnnorm.Exporter {
	return &exporter{dir: config.ExportDir(cfg.HomeDir)}
}

// Path returns the export file of a dataset.
func Path(cfg *config.Config, datasetKey string) string {
	return filepath.Join(config.ExportDir(cfg.HomeDir), datasetKey+".sqlite")
}

// Export writes a closed graph and its verbatim records. An existing
// export of the dataset is replaced. A failed export leaves no file.
func (e *exporter) Export(ctx context.Context, res *gnnorm.Result) (string, error) {
	start := time.Now()
	if res == nil || res.Graph == nil || !res.Graph.Closed() {
		return "", OpenError(e.dir, fmt.Errorf("graph is not finished"))
	}
	key := res.Graph.DatasetKey()

	if err := gnsys.MakeDir(e.dir); err != nil {
		return "", OpenError(e.dir, err)
	}
	path := filepath.Join(e.dir, key+".sqlite")
	tmp := path + ".tmp"
	_ = os.Remove(tmp)

	err := e.write(ctx, tmp, res)
	if err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err = os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", WriteError("rename", err)
	}

	slog.Info("Dataset exported",
		"dataset_key", key,
		"path", path,
		"records", humanize.Comma(int64(res.Verbatim.Len())),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return path, nil
}

func (e *exporter) write(ctx context.Context, path string, res *gnnorm.Result) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return OpenError(path, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = OFF",
		"PRAGMA synchronous = OFF",
		"PRAGMA foreign_keys = OFF",
	} {
		if _, err = db.ExecContext(ctx, pragma); err != nil {
			return OpenError(path, err)
		}
	}
	if err = migrate(ctx, db); err != nil {
		return OpenError(path, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return WriteError("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	steps := []struct {
		table string
		fn    func(context.Context, *sql.Tx, *gnnorm.Result) error
	}{
		{"dataset", writeDataset},
		{"verbatim", e.writeVerbatim},
		{"name", writeNames},
		{"name_usage", writeUsages},
		{"synonym", writeSynonyms},
		{"basionym", writeBasionyms},
		{"usage_data", writeUsageData},
		{"issue_count", writeIssueCounts},
	}
	for _, s := range steps {
		if err = s.fn(ctx, tx, res); err != nil {
			return WriteError(s.table, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return WriteError("commit", err)
	}
	return nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer func() {
		goose.SetBaseFS(nil)
		gooseMu.Unlock()
	}()
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

// insert runs a prepared statement for every row produced by rows.
func insert(
	ctx context.Context,
	tx *sql.Tx,
	query string,
	rows func(yield func(...any) error) error,
) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	var count int
	return rows(func(args ...any) error {
		count++
		if count%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		_, err := stmt.ExecContext(ctx, args...)
		return err
	})
}

func writeDataset(ctx context.Context, tx *sql.Tx, res *gnnorm.Result) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO dataset (dataset_key, format, records, created_at) VALUES (?, ?, ?, ?)",
		res.Graph.DatasetKey(), res.Summary.Format, res.Verbatim.Len(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (e *exporter) writeVerbatim(ctx context.Context, tx *sql.Tx, res *gnnorm.Result) error {
	q := `INSERT INTO verbatim (key, file, line, row_type, terms, issues)
VALUES (?, ?, ?, ?, ?, ?)`
	return insert(ctx, tx, q, func(yield func(...any) error) error {
		for rec := range res.Verbatim.All() {
			terms, err := e.enc.Encode(rec.Terms)
			if err != nil {
				return err
			}
			err = yield(rec.Key, rec.File, rec.Line, rec.Type.String(),
				string(terms), rec.Issues.String())
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func writeNames(ctx context.Context, tx *sql.Tx, res *gnnorm.Result) error {
	q := `INSERT INTO name (id, scientific_name, authorship, year, rank, code,
type, canonical, cardinality, uninomial, genus, infrageneric_epithet,
specific_epithet, infraspecific_epithet, homotypic_name_id, names_index_id,
match_type, synthetic, verbatim_key)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return insert(ctx, tx, q, func(yield func(...any) error) error {
		for n := range res.Graph.Nodes(graph.NameNode) {
			nm := n.Name
			err := yield(n.ID, nm.ScientificName, nm.Authorship, nm.Year,
				nm.Rank.String(), nm.Code.String(), nm.Type.String(), nm.Canonical,
				nm.Cardinality, nm.Uninomial, nm.Genus, nm.InfragenericEpithet,
				nm.SpecificEpithet, nm.InfraspecificEpithet, nm.HomotypicNameID,
				nm.NamesIndexID, nm.MatchType.String(), n.Synthetic,
				verbatimKey(n.VerbatimKey))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func writeUsages(ctx context.Context, tx *sql.Tx, res *gnnorm.Result) error {
	g := res.Graph
	q := `INSERT INTO name_usage (id, name_id, parent_id, label, status,
synthetic, verbatim_key) VALUES (?, ?, ?, ?, ?, ?, ?)`
	return insert(ctx, tx, q, func(yield func(...any) error) error {
		for n := range g.Nodes(graph.UsageNode) {
			var parent any
			if p, ok := g.Parent(n.Idx); ok {
				parent = g.Node(p).ID
			}
			err := yield(n.ID, g.Node(n.NameIdx).ID, parent, n.Label.String(),
				n.Status.String(), n.Synthetic, verbatimKey(n.VerbatimKey))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func writeSynonyms(ctx context.Context, tx *sql.Tx, res *gnnorm.Result) error {
	return writeRels(ctx, tx, res.Graph, graph.SynonymOf,
		"INSERT INTO synonym (usage_id, accepted_id) VALUES (?, ?)")
}

func writeBasionyms(ctx context.Context, tx *sql.Tx, res *gnnorm.Result) error {
	return writeRels(ctx, tx, res.Graph, graph.HasBasionym,
		"INSERT INTO basionym (name_id, basionym_id) VALUES (?, ?)")
}

func writeRels(
	ctx context.Context,
	tx *sql.Tx,
	g *graph.Graph,
	t graph.RelType,
	q string,
) error {
	return insert(ctx, tx, q, func(yield func(...any) error) error {
		for r := range g.Rels(t) {
			if err := yield(g.Node(r.From).ID, g.Node(r.To).ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeUsageData(ctx context.Context, tx *sql.Tx, res *gnnorm.Result) error {
	q := "INSERT OR IGNORE INTO usage_data (usage_id, verbatim_key) VALUES (?, ?)"
	return insert(ctx, tx, q, func(yield func(...any) error) error {
		for n := range res.Graph.Nodes(graph.UsageNode) {
			for _, k := range n.Data {
				if err := yield(n.ID, k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func writeIssueCounts(ctx context.Context, tx *sql.Tx, res *gnnorm.Result) error {
	q := "INSERT INTO issue_count (issue, records) VALUES (?, ?)"
	return insert(ctx, tx, q, func(yield func(...any) error) error {
		for i, count := range res.Verbatim.Histogram() {
			if err := yield(i.String(), count); err != nil {
				return err
			}
		}
		return nil
	})
}

func verbatimKey(k int64) any {
	if k <= 0 {
		return nil
	}
	return k
}
