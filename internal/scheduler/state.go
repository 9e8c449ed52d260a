package scheduler

import (
	"sync"

	"github.com/google/uuid"
)

// State is the lifecycle of a scheduled execution. A registration is
// StatePending until its timer or cron entry is armed. One-shot executions
// end in StateCompleted or StateFailed; periodic executions return to
// StateScheduled after every run.
type State string

const (
	StatePending   State = "pending"
	StateScheduled State = "scheduled"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// JobStatus is a point-in-time view of one tracked execution.
type JobStatus struct {
	ID       uuid.UUID
	Name     string
	Periodic bool
	State    State
}

type registration struct {
	id       uuid.UUID
	name     string
	periodic bool

	mu    sync.Mutex
	state State
}

func (r *registration) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// finish records the run outcome; periodic executions go back to scheduled.
func (r *registration) finish(outcome State) {
	if r.periodic {
		r.setState(StateScheduled)
		return
	}
	r.setState(outcome)
}

func (r *registration) getState() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
