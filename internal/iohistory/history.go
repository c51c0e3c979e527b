// Package iohistory records import attempts. The memory history lives as
// long as the process, the PostgreSQL history survives restarts.
package iohistory

import (
	"context"
	"fmt"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnnorm/internal/iodb"
	"github.com/gnames/gnnorm/internal/ioschema"
	gnnorm "github.com/gnames/gnnorm/pkg"
	"github.com/gnames/gnnorm/pkg/config"
)

// Open returns the history selected by the configuration, together with a
// function that releases its resources. The PostgreSQL schema is migrated
// on open.
func Open(ctx context.Context, cfg *config.Config) (gnnorm.History, func(), error) {
	switch cfg.Scheduler.History {
	case "", "memory":
		return NewMemory(), func() {}, nil
	case "postgres":
		op := iodb.NewPgxOperator()
		if err := op.Connect(ctx, &cfg.Database); err != nil {
			return nil, nil, err
		}
		if err := ioschema.NewManager(op).Migrate(ctx, cfg); err != nil {
			op.Close()
			return nil, nil, err
		}
		return NewPostgres(op), func() { op.Close() }, nil
	}
	return nil, nil, WriteError("",
		fmt.Errorf("unknown history backend %q", cfg.Scheduler.History))
}

func parseState(s string) gnnorm.State {
	for _, st := range []gnnorm.State{
		gnnorm.Queued, gnnorm.Running, gnnorm.Succeeded,
		gnnorm.Failed, gnnorm.Canceled,
	} {
		if st.String() == s {
			return st
		}
	}
	return gnnorm.Failed
}

func encodeSummary(enc gnfmt.GNjson, s *gnnorm.Summary) (string, error) {
	if s == nil {
		return "", nil
	}
	bs, err := enc.Encode(s)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

func decodeSummary(enc gnfmt.GNjson, s string) (*gnnorm.Summary, error) {
	if s == "" {
		return nil, nil
	}
	var res gnnorm.Summary
	if err := enc.Decode([]byte(s), &res); err != nil {
		return nil, err
	}
	return &res, nil
}
