package ioscheduler

import (
	"container/heap"
	"time"
)

// request is a queued import of one dataset.
type request struct {
	key      string
	priority int
	// force marks an explicit re-run.
	force     bool
	submitted time.Time
	seq       uint64
	index     int
}

// before reports whether a is dispatched before b: higher priority first,
// explicit re-runs before routine imports, then older requests.
func before(a, b *request) bool {
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	if a.force != b.force {
		return a.force
	}
	if !a.submitted.Equal(b.submitted) {
		return a.submitted.Before(b.submitted)
	}
	return a.seq < b.seq
}

// requestQueue implements heap.Interface.
type requestQueue []*request

var _ heap.Interface = (*requestQueue)(nil)

func (q requestQueue) Len() int { return len(q) }

func (q requestQueue) Less(i, j int) bool { return before(q[i], q[j]) }

func (q requestQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *requestQueue) Push(x any) {
	req := x.(*request)
	req.index = len(*q)
	*q = append(*q, req)
}

func (q *requestQueue) Pop() any {
	old := *q
	n := len(old)
	req := old[n-1]
	old[n-1] = nil
	req.index = -1
	*q = old[:n-1]
	return req
}
