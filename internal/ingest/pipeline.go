// Package ingest serializes all repository writes through an unbounded
// multi-producer single-consumer pipeline. Exactly one goroutine owns
// repository mutation; producers never block on the consumer.
package ingest

import (
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/erebor/erebor-backend/internal/model"
	"github.com/erebor/erebor-backend/internal/repository"
)

// Sink accepts timetables from any number of concurrent producers.
type Sink interface {
	// Send enqueues a timetable; it returns false once the pipeline is closed.
	Send(t model.Timetable) bool
}

// Pipeline is the single-writer ingestion channel. Writes are applied in the
// order they are enqueued; there is no reordering or coalescing.
type Pipeline struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []model.Timetable
	closed bool
	done   chan struct{}

	consumer      repository.TimetableConsumer
	exitOnFailure bool
	exit          func(code int)
	log           zerolog.Logger
}

// Start launches the consumer goroutine. With exitOnFailure set, a closed
// pipeline terminates the process with exit code 255 instead of leaving the
// service up with ingestion silently disabled.
func Start(consumer repository.TimetableConsumer, exitOnFailure bool, log zerolog.Logger) *Pipeline {
	return start(consumer, exitOnFailure, log, os.Exit)
}

func start(consumer repository.TimetableConsumer, exitOnFailure bool, log zerolog.Logger, exit func(int)) *Pipeline {
	p := &Pipeline{
		done:          make(chan struct{}),
		consumer:      consumer,
		exitOnFailure: exitOnFailure,
		exit:          exit,
		log:           log,
	}
	p.cond = sync.NewCond(&p.mu)
	go p.run()
	return p
}

// Send enqueues a timetable for the consumer. Never blocks on the consumer.
func (p *Pipeline) Send(t model.Timetable) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false
	}
	p.queue = append(p.queue, t)
	p.cond.Signal()
	return true
}

// Close marks the pipeline broken. The consumer drains the queue, then stops.
func (p *Pipeline) Close() {
	p.mu.Lock()
	p.closed = true
	p.cond.Signal()
	p.mu.Unlock()
}

// Done is closed once the consumer goroutine has stopped.
func (p *Pipeline) Done() <-chan struct{} { return p.done }

func (p *Pipeline) run() {
	p.log.Info().Bool("exit_on_failure", p.exitOnFailure).Msg("listening for timetable updates")

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			break
		}
		t := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.log.Trace().Stringer("id", t.Descriptor.ID).Msg("received timetable")
		p.consumer.Consume(t)
	}

	p.log.Error().Msg("timetable pipeline closed, no further writes will be accepted")
	close(p.done)
	if p.exitOnFailure {
		p.exit(255)
	}
}
