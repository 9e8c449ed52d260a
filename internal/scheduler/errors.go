package scheduler

import "fmt"

// ErrKind distinguishes which half of a registration failed.
type ErrKind string

const (
	// ErrOneShot means the one-shot execution could not be scheduled.
	ErrOneShot ErrKind = "one_shot"
	// ErrPeriodic means the periodic execution could not be scheduled.
	ErrPeriodic ErrKind = "periodic"
	// ErrSchedule wraps a malformed cron expression.
	ErrSchedule ErrKind = "schedule"
)

// SchedulingError is returned synchronously from Register.
type SchedulingError struct {
	Kind ErrKind
	Job  string
	Err  error
}

func (e *SchedulingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scheduling %q (%s): %v", e.Job, e.Kind, e.Err)
	}
	return fmt.Sprintf("scheduling %q (%s)", e.Job, e.Kind)
}

func (e *SchedulingError) Unwrap() error { return e.Err }
