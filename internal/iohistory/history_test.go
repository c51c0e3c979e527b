package iohistory

import (
	"context"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/internal/iodb"
	"github.com/gnames/gnnorm/internal/ioschema"
	"github.com/gnames/gnnorm/internal/iotesting"
	gnnorm "github.com/gnames/gnnorm/pkg"
	"github.com/gnames/gnnorm/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHistory checks behavior shared by all history backends.
func testHistory(t *testing.T, h gnnorm.History) {
	ctx := context.Background()

	_, ok, err := h.Current(ctx, "col")
	require.NoError(t, err)
	assert.False(t, ok)

	a1, err := h.Start(ctx, "col")
	require.NoError(t, err)
	assert.Equal(t, 1, a1.Number)
	assert.Equal(t, gnnorm.Running, a1.State)
	assert.NotEmpty(t, a1.ID)

	// still running, no current attempt
	_, ok, err = h.Current(ctx, "col")
	require.NoError(t, err)
	assert.False(t, ok)

	a1.State = gnnorm.Succeeded
	a1.Summary = &gnnorm.Summary{
		DatasetKey: "col",
		Format:     "ColDP",
		Taxa:       10,
		Issues:     map[string]int{"PARENT_ID_INVALID": 2},
	}
	require.NoError(t, h.Finish(ctx, a1))

	err = h.Finish(ctx, a1)
	assert.Error(t, err, "finished twice")

	a2, err := h.Start(ctx, "col")
	require.NoError(t, err)
	assert.Equal(t, 2, a2.Number)
	a2.State = gnnorm.Failed
	a2.Error = "archive is broken"
	require.NoError(t, h.Finish(ctx, a2))

	// a failed attempt keeps the previous current one
	cur, ok, err := h.Current(ctx, "col")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a1.ID, cur.ID)
	require.NotNil(t, cur.Summary)
	assert.Equal(t, 10, cur.Summary.Taxa)
	assert.Equal(t, 2, cur.Summary.Issues["PARENT_ID_INVALID"])
	assert.False(t, cur.Finished.IsZero())

	a3, err := h.Start(ctx, "col")
	require.NoError(t, err)
	a3.State = gnnorm.Canceled
	require.NoError(t, h.Finish(ctx, a3))

	as, err := h.Attempts(ctx, "col")
	require.NoError(t, err)
	require.Len(t, as, 3)
	states := make([]gnnorm.State, len(as))
	for i, a := range as {
		assert.Equal(t, i+1, a.Number)
		states[i] = a.State
	}
	assert.Equal(t,
		[]gnnorm.State{gnnorm.Succeeded, gnnorm.Failed, gnnorm.Canceled}, states)
	assert.Equal(t, "archive is broken", as[1].Error)

	other, err := h.Start(ctx, "itis")
	require.NoError(t, err)
	assert.Equal(t, 1, other.Number)

	other.State = gnnorm.Running
	err = h.Finish(ctx, other)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.HistoryWriteError, gnErr.Code)

	_, err = h.Start(ctx, "")
	assert.Error(t, err)
}

func TestMemory(t *testing.T) {
	testHistory(t, NewMemory())
}

func TestMemoryUnknownAttempt(t *testing.T) {
	h := NewMemory()
	err := h.Finish(context.Background(), gnnorm.Attempt{
		ID: "nope", DatasetKey: "col", State: gnnorm.Failed,
	})
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.HistoryWriteError, gnErr.Code)
}

func TestOpen(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	h, closer, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer closer()
	_, ok := h.(*memory)
	assert.True(t, ok)

	cfg.Scheduler.History = "redis"
	_, _, err = Open(context.Background(), cfg)
	assert.Error(t, err)
}

func TestParseState(t *testing.T) {
	for _, st := range []gnnorm.State{
		gnnorm.Running, gnnorm.Succeeded, gnnorm.Failed, gnnorm.Canceled,
	} {
		assert.Equal(t, st, parseState(st.String()))
	}
	assert.Equal(t, gnnorm.Failed, parseState("garbage"))
}

func TestPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()
	cfg := iotesting.GetTestConfig(t)

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	defer op.Close()
	require.NoError(t, ioschema.NewManager(op).Create(ctx, cfg, true))

	testHistory(t, NewPostgres(op))
}
