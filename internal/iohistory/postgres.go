package iohistory

import (
	"context"
	"errors"
	"time"

	"github.com/gnames/gnfmt"
	gnnorm "github.com/gnames/gnnorm/pkg"
	"github.com/gnames/gnnorm/pkg/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type postgres struct {
	op  db.Operator
	enc gnfmt.GNjson
}

// NewPostgres creates a history stored in the import_attempts and
// dataset_imports tables. The operator must be connected and the schema
// migrated.
func NewPostgres(op db.Operator) gnnorm.History {
	return &postgres{op: op}
}

const attemptColumns = `a.id::text, a.dataset_key, a.number, a.state,
a.started_at, a.finished_at, a.error, a.summary`

func (p *postgres) Start(ctx context.Context, key string) (gnnorm.Attempt, error) {
	if key == "" {
		return gnnorm.Attempt{}, WriteError(key, errors.New("empty dataset key"))
	}
	pool := p.op.Pool()
	if pool == nil {
		return gnnorm.Attempt{}, WriteError(key, errors.New("not connected"))
	}

	a := gnnorm.Attempt{
		ID:         uuid.NewString(),
		DatasetKey: key,
		State:      gnnorm.Running,
		Started:    time.Now().UTC(),
	}
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		// serializes numbering of concurrent attempts of one dataset
		_, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key)
		if err != nil {
			return err
		}
		err = tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(number), 0) + 1
			 FROM import_attempts WHERE dataset_key = $1`, key,
		).Scan(&a.Number)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO import_attempts
			 (id, dataset_key, number, state, started_at, error, summary)
			 VALUES ($1, $2, $3, $4, $5, '', '')`,
			a.ID, key, a.Number, a.State.String(), a.Started,
		)
		return err
	})
	if err != nil {
		return gnnorm.Attempt{}, WriteError(key, err)
	}
	return a, nil
}

func (p *postgres) Finish(ctx context.Context, a gnnorm.Attempt) error {
	if !a.State.IsTerminal() {
		return WriteError(a.DatasetKey, errors.New("attempt is not finished"))
	}
	pool := p.op.Pool()
	if pool == nil {
		return WriteError(a.DatasetKey, errors.New("not connected"))
	}
	summary, err := encodeSummary(p.enc, a.Summary)
	if err != nil {
		return WriteError(a.DatasetKey, err)
	}
	if a.Finished.IsZero() {
		a.Finished = time.Now()
	}

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE import_attempts
			 SET state = $2, finished_at = $3, error = $4, summary = $5
			 WHERE id = $1 AND dataset_key = $6 AND finished_at IS NULL`,
			a.ID, a.State.String(), a.Finished.UTC(), a.Error, summary,
			a.DatasetKey,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return errors.New("unknown or finished attempt " + a.ID)
		}
		if a.State != gnnorm.Succeeded {
			return nil
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO dataset_imports (dataset_key, current_attempt_id, updated_at)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (dataset_key) DO UPDATE
			 SET current_attempt_id = EXCLUDED.current_attempt_id,
			     updated_at = EXCLUDED.updated_at`,
			a.DatasetKey, a.ID, a.Finished.UTC(),
		)
		return err
	})
	if err != nil {
		return WriteError(a.DatasetKey, err)
	}
	return nil
}

func (p *postgres) Current(ctx context.Context, key string) (gnnorm.Attempt, bool, error) {
	pool := p.op.Pool()
	if pool == nil {
		return gnnorm.Attempt{}, false, ReadError(key, errors.New("not connected"))
	}
	q := `SELECT ` + attemptColumns + `
	FROM dataset_imports d
	JOIN import_attempts a ON a.id = d.current_attempt_id
	WHERE d.dataset_key = $1`

	a, err := p.scan(pool.QueryRow(ctx, q, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return gnnorm.Attempt{}, false, nil
	}
	if err != nil {
		return gnnorm.Attempt{}, false, ReadError(key, err)
	}
	return a, true, nil
}

func (p *postgres) Attempts(ctx context.Context, key string) ([]gnnorm.Attempt, error) {
	pool := p.op.Pool()
	if pool == nil {
		return nil, ReadError(key, errors.New("not connected"))
	}
	q := `SELECT ` + attemptColumns + `
	FROM import_attempts a
	WHERE a.dataset_key = $1
	ORDER BY a.number`

	rows, err := pool.Query(ctx, q, key)
	if err != nil {
		return nil, ReadError(key, err)
	}
	defer rows.Close()

	var res []gnnorm.Attempt
	for rows.Next() {
		a, err := p.scan(rows)
		if err != nil {
			return nil, ReadError(key, err)
		}
		res = append(res, a)
	}
	if err = rows.Err(); err != nil {
		return nil, ReadError(key, err)
	}
	return res, nil
}

func (p *postgres) scan(row pgx.Row) (gnnorm.Attempt, error) {
	var a gnnorm.Attempt
	var state, summary string
	var finished *time.Time
	err := row.Scan(&a.ID, &a.DatasetKey, &a.Number, &state,
		&a.Started, &finished, &a.Error, &summary)
	if err != nil {
		return a, err
	}
	a.State = parseState(state)
	if finished != nil {
		a.Finished = *finished
	}
	a.Summary, err = decodeSummary(p.enc, summary)
	return a, err
}
