package iohistory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	gnnorm "github.com/gnames/gnnorm/pkg"
	"github.com/google/uuid"
)

type memory struct {
	mu       sync.Mutex
	attempts map[string][]gnnorm.Attempt
}

// NewMemory creates a history kept in process memory.
func NewMemory() gnnorm.History {
	return &memory{attempts: make(map[string][]gnnorm.Attempt)}
}

func (m *memory) Start(_ context.Context, key string) (gnnorm.Attempt, error) {
	if key == "" {
		return gnnorm.Attempt{}, WriteError(key, errors.New("empty dataset key"))
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	a := gnnorm.Attempt{
		ID:         uuid.NewString(),
		DatasetKey: key,
		Number:     len(m.attempts[key]) + 1,
		State:      gnnorm.Running,
		Started:    time.Now(),
	}
	m.attempts[key] = append(m.attempts[key], a)
	return a, nil
}

func (m *memory) Finish(_ context.Context, a gnnorm.Attempt) error {
	if !a.State.IsTerminal() {
		return WriteError(a.DatasetKey, errors.New("attempt is not finished"))
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	as := m.attempts[a.DatasetKey]
	i := slices.IndexFunc(as, func(x gnnorm.Attempt) bool { return x.ID == a.ID })
	if i < 0 {
		return WriteError(a.DatasetKey, errors.New("unknown attempt "+a.ID))
	}
	if as[i].State.IsTerminal() {
		return WriteError(a.DatasetKey, errors.New("attempt already finished"))
	}
	if a.Finished.IsZero() {
		a.Finished = time.Now()
	}
	if a.Summary != nil {
		s := *a.Summary
		a.Summary = &s
	}
	a.Number = as[i].Number
	a.Started = as[i].Started
	as[i] = a
	return nil
}

func (m *memory) Current(_ context.Context, key string) (gnnorm.Attempt, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	as := m.attempts[key]
	for i := len(as) - 1; i >= 0; i-- {
		if as[i].State == gnnorm.Succeeded {
			return as[i], true, nil
		}
	}
	return gnnorm.Attempt{}, false, nil
}

func (m *memory) Attempts(_ context.Context, key string) ([]gnnorm.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.attempts[key]), nil
}
