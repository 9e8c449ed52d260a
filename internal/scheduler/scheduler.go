// Package scheduler registers timetable sync jobs: every registration gets a
// one-shot run shortly after startup and a recurring run per its cron
// expression. The two may overlap; jobs must tolerate concurrent invocations.
package scheduler

import (
	"context"
	"os"
	"regexp"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/erebor/erebor-backend/internal/ingest"
)

// oneShotDelay is how long after registration the health-check run fires.
const oneShotDelay = 10 * time.Second

// Job performs one sync attempt, sending zero or more timetables to the sink.
type Job func(ctx context.Context, sink ingest.Sink) error

// Scheduler holds the ingestion sink and passes it explicitly into each job
// invocation.
type Scheduler struct {
	cron   *cron.Cron
	parser cron.Parser
	sink   ingest.Sink
	log    zerolog.Logger
	exit   func(code int)

	delay time.Duration

	mu      sync.Mutex
	stopped bool
	jobs    []*registration
}

// New returns a scheduler accepting five- and six-field cron expressions
// (with seconds), plus the seven-field form carrying a trailing year column.
func New(sink ingest.Sink, log zerolog.Logger) *Scheduler {
	parser := cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
	return &Scheduler{
		cron:   cron.New(cron.WithParser(parser)),
		parser: parser,
		sink:   sink,
		log:    log,
		exit:   os.Exit,
		delay:  oneShotDelay,
	}
}

// Register schedules two executions of job under name: a one-shot run
// oneShotDelay after registration and a periodic run per expr. Errors are
// returned synchronously; nothing is scheduled on failure of either half.
func (s *Scheduler) Register(name, expr string, job Job) error {
	schedule, err := s.parser.Parse(normalizeExpr(expr))
	if err != nil {
		return &SchedulingError{Kind: ErrSchedule, Job: name, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return &SchedulingError{Kind: ErrOneShot, Job: name}
	}

	oneShot := s.track(name, false)
	periodic := s.track(name, true)

	oneShot.setState(StateScheduled)
	time.AfterFunc(s.delay, func() { s.runJob(oneShot, job) })
	periodic.setState(StateScheduled)
	s.cron.Schedule(schedule, cron.FuncJob(func() { s.runJob(periodic, job) }))

	s.log.Info().
		Str("job", name).
		Str("cron", expr).
		Stringer("one_shot_id", oneShot.id).
		Stringer("periodic_id", periodic.id).
		Msg("registered sync job")
	return nil
}

// Start begins firing periodic jobs. One-shot jobs fire regardless, timed
// from their registration.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop prevents further periodic firings. Running jobs are not interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.cron.Stop()
}

func (s *Scheduler) track(name string, periodic bool) *registration {
	reg := &registration{id: uuid.New(), name: name, periodic: periodic, state: StatePending}
	s.jobs = append(s.jobs, reg)
	return reg
}

// yearField matches the trailing year column of a seven-field expression.
var yearField = regexp.MustCompile(`^[0-9*,/-]+$`)

// normalizeExpr reduces a seven-field expression to the six-field form the
// parser understands. The year column is validated, then discarded: jobs
// recur every year. Anything else passes through untouched and fails parsing
// on its own terms.
func normalizeExpr(expr string) string {
	fields := strings.Fields(expr)
	if len(fields) == 7 && yearField.MatchString(fields[6]) {
		return strings.Join(fields[:6], " ")
	}
	return expr
}

func (s *Scheduler) runJob(reg *registration, job Job) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Interface("panic", r).
				Str("job", reg.name).
				Stringer("job_id", reg.id).
				Bytes("stack", debug.Stack()).
				Msg("sync job panicked")
			s.exit(255)
		}
	}()

	reg.setState(StateRunning)
	start := time.Now()

	if err := job(context.Background(), s.sink); err != nil {
		reg.finish(StateFailed)
		s.log.Error().
			Err(err).
			Str("job", reg.name).
			Stringer("job_id", reg.id).
			Msg("sync job failed, waiting for the next scheduled run")
		return
	}

	reg.finish(StateCompleted)
	s.log.Info().
		Str("job", reg.name).
		Stringer("job_id", reg.id).
		Dur("took", time.Since(start)).
		Msg("sync job finished")
}

// States reports a snapshot of every tracked execution, for logging and tests.
func (s *Scheduler) States() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStatus, 0, len(s.jobs))
	for _, reg := range s.jobs {
		out = append(out, JobStatus{ID: reg.id, Name: reg.name, Periodic: reg.periodic, State: reg.getState()})
	}
	return out
}
