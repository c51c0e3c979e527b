package ioscheduler

import (
	"fmt"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/pkg/errcode"
)

// ClosedError creates an error for requests sent to a closed scheduler.
func ClosedError(key string) error {
	return &gn.Error{
		Code: errcode.SchedulerClosedError,
		Msg:  "Scheduler is closed, <em>%s</em> is not queued",
		Vars: []any{key},
		Err:  fmt.Errorf("scheduler closed: %s", key),
	}
}

// SubmitError creates an error for an invalid import request.
func SubmitError(key string, err error) error {
	return &gn.Error{
		Code: errcode.SchedulerSubmitError,
		Msg:  "Cannot queue import of <em>%s</em>",
		Vars: []any{key},
		Err:  fmt.Errorf("submit %q: %w", key, err),
	}
}

// TimeoutError creates an error for a stage of an import that ran out of
// time.
func TimeoutError(key, stage string, d time.Duration, err error) error {
	return &gn.Error{
		Code: errcode.SchedulerTimeoutError,
		Msg:  "Import of <em>%s</em> exceeded %s timeout of %s",
		Vars: []any{key, stage, d},
		Err:  fmt.Errorf("%s of %s timed out after %s: %w", stage, key, d, err),
	}
}

// CronError creates an error for an invalid routine schedule.
func CronError(key, spec string, err error) error {
	return &gn.Error{
		Code: errcode.SchedulerCronError,
		Msg:  "Invalid schedule <em>%s</em> of <em>%s</em>",
		Vars: []any{spec, key},
		Err:  fmt.Errorf("cron spec %q of %s: %w", spec, key, err),
	}
}
