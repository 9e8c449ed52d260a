package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/erebor/erebor-backend/internal/ingest"
	"github.com/erebor/erebor-backend/internal/model"
)

type nopSink struct{}

func (nopSink) Send(model.Timetable) bool { return true }

func newTestScheduler() *Scheduler {
	s := New(nopSink{}, zerolog.Nop())
	s.delay = 5 * time.Millisecond
	return s
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRegister_MalformedExpression(t *testing.T) {
	s := newTestScheduler()
	err := s.Register("broken", "not a cron line", func(context.Context, ingest.Sink) error { return nil })
	if err == nil {
		t.Fatalf("expected scheduling error")
	}

	var se *SchedulingError
	if !errors.As(err, &se) || se.Kind != ErrSchedule {
		t.Fatalf("expected schedule parse error, got %v", err)
	}
	if len(s.States()) != 0 {
		t.Fatalf("nothing should be tracked after a failed registration")
	}
}

func TestRegister_SevenFieldExpression(t *testing.T) {
	s := newTestScheduler()
	job := func(context.Context, ingest.Sink) error { return nil }

	// trailing year column, wildcard and literal forms
	if err := s.Register("moria", "0 0 0 * * * *", job); err != nil {
		t.Fatalf("seven-field expression rejected: %v", err)
	}
	if err := s.Register("moria-dated", "0 0 0 * * * 2026", job); err != nil {
		t.Fatalf("seven-field expression with year rejected: %v", err)
	}
	if len(s.States()) != 4 {
		t.Fatalf("expected 4 tracked executions, got %d", len(s.States()))
	}
}

func TestRegister_SevenFieldBadYear(t *testing.T) {
	s := newTestScheduler()
	err := s.Register("broken", "0 0 0 * * * nope", func(context.Context, ingest.Sink) error { return nil })

	var se *SchedulingError
	if !errors.As(err, &se) || se.Kind != ErrSchedule {
		t.Fatalf("expected schedule parse error, got %v", err)
	}
}

func TestNewRegistrationStartsPending(t *testing.T) {
	s := newTestScheduler()
	reg := s.track("moria", false)
	if got := reg.getState(); got != StatePending {
		t.Fatalf("fresh registration is %s, want %s", got, StatePending)
	}
}

func TestRegister_AfterStop(t *testing.T) {
	s := newTestScheduler()
	s.Stop()

	err := s.Register("late", "0 0 0 * * *", func(context.Context, ingest.Sink) error { return nil })
	var se *SchedulingError
	if !errors.As(err, &se) || se.Kind != ErrOneShot {
		t.Fatalf("expected one-shot registration failure, got %v", err)
	}
}

func TestOneShotRuns(t *testing.T) {
	s := newTestScheduler()
	var runs atomic.Int32
	err := s.Register("moria", "0 0 0 * * *", func(context.Context, ingest.Sink) error {
		runs.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// The one-shot run fires even without Start.
	waitFor(t, func() bool { return runs.Load() == 1 })

	waitFor(t, func() bool {
		for _, st := range s.States() {
			if !st.Periodic && st.State == StateCompleted {
				return true
			}
		}
		return false
	})
}

func TestOneShotFailureDoesNotExit(t *testing.T) {
	s := newTestScheduler()
	var exited atomic.Int32
	s.exit = func(int) { exited.Add(1) }

	err := s.Register("moria", "0 0 0 * * *", func(context.Context, ingest.Sink) error {
		return errors.New("upstream down")
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	waitFor(t, func() bool {
		for _, st := range s.States() {
			if !st.Periodic && st.State == StateFailed {
				return true
			}
		}
		return false
	})
	if exited.Load() != 0 {
		t.Fatalf("job failure must not terminate the process")
	}
}

func TestPanickingJobRequestsExit(t *testing.T) {
	s := newTestScheduler()
	exitCode := make(chan int, 1)
	s.exit = func(code int) { exitCode <- code }

	err := s.Register("moria", "0 0 0 * * *", func(context.Context, ingest.Sink) error {
		panic("boom")
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	select {
	case code := <-exitCode:
		if code != 255 {
			t.Fatalf("expected exit code 255, got %d", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("panic did not request exit")
	}
}

func TestStates_TracksBothExecutions(t *testing.T) {
	s := New(nopSink{}, zerolog.Nop())
	err := s.Register("moria", "0 0 0 * * *", func(context.Context, ingest.Sink) error { return nil })
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	states := s.States()
	if len(states) != 2 {
		t.Fatalf("expected one-shot and periodic registrations, got %d", len(states))
	}
	if states[0].Periodic == states[1].Periodic {
		t.Fatalf("expected one periodic and one one-shot registration: %+v", states)
	}
	for _, st := range states {
		if st.State != StateScheduled {
			t.Fatalf("fresh registrations must be scheduled: %+v", st)
		}
	}
}

func TestPeriodicExecution(t *testing.T) {
	s := newTestScheduler()
	s.delay = time.Hour // keep the one-shot out of the way

	var runs atomic.Int32
	err := s.Register("moria", "* * * * * *", func(context.Context, ingest.Sink) error {
		runs.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("periodic job never fired")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
