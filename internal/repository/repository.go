// Package repository backs all timetable reads with an in-memory index and
// writes accepted mutations through to a durable store.
package repository

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/erebor/erebor-backend/internal/model"
)

// TimetableProvider is the read capability exposed to the API. Safe for
// unlimited concurrent callers.
type TimetableProvider interface {
	Get(id model.TimetableId) (model.Timetable, bool)
	Namespaces() []string
	AvailableTimetables(namespace string) ([]model.TimetableDescriptor, bool)
}

// TimetableConsumer is the write capability, invoked only by the ingestion
// consumer.
type TimetableConsumer interface {
	Consume(t model.Timetable)
}

// PersistentStore is the durable delegate the repository writes through to.
type PersistentStore interface {
	Persist(t model.Timetable) error
	LoadAll() ([]model.Timetable, error)
}

// Repository implements both capabilities over a read-optimized in-memory
// index. The index is guarded by a reader/writer lock; readers never block
// each other. Persist failures are logged and the in-memory update is kept,
// so the store may drift until a later successful write or a restart reload.
type Repository struct {
	mu         sync.RWMutex
	timetables map[model.TimetableId]model.Timetable
	available  map[string]map[model.TimetableId]model.TimetableDescriptor
	store      PersistentStore
	log        zerolog.Logger
}

// NewInMemory returns a repository without a durable store.
func NewInMemory(log zerolog.Logger) *Repository {
	return &Repository{
		timetables: make(map[model.TimetableId]model.Timetable),
		available:  make(map[string]map[model.TimetableId]model.TimetableDescriptor),
		log:        log,
	}
}

// NewWithStore returns a repository write-throughing to store, preloaded with
// everything the store currently holds so reads are correct before the first
// sync completes.
func NewWithStore(store PersistentStore, log zerolog.Logger) (*Repository, error) {
	r := NewInMemory(log)
	r.store = store

	loaded, err := store.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, t := range loaded {
		r.insert(t)
	}
	log.Info().Int("count", len(loaded)).Msg("loaded timetables from durable store")
	return r, nil
}

// Consume upserts by descriptor id: the prior entry is replaced wholesale and
// the namespace listing updated, then the write goes through to the store.
// Last write wins; there is no merging.
func (r *Repository) Consume(t model.Timetable) {
	r.insert(t)

	if r.store == nil {
		return
	}
	if err := r.store.Persist(t); err != nil {
		r.log.Error().
			Err(err).
			Stringer("id", t.Descriptor.ID).
			Msg("cannot persist timetable; keeping in-memory state, store converges on a later write")
	}
}

func (r *Repository) insert(t model.Timetable) {
	id := t.Descriptor.ID

	r.mu.Lock()
	defer r.mu.Unlock()

	r.timetables[id] = t
	set, ok := r.available[id.Namespace]
	if !ok {
		set = make(map[model.TimetableId]model.TimetableDescriptor)
		r.available[id.Namespace] = set
	}
	set[id] = t.Descriptor
}

// Get returns a deep copy of the stored timetable, never a live reference.
func (r *Repository) Get(id model.TimetableId) (model.Timetable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.timetables[id]
	if !ok {
		return model.Timetable{}, false
	}
	return t.Clone(), true
}

// Namespaces lists every namespace with at least one stored timetable, sorted.
func (r *Repository) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.available))
	for ns := range r.available {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// AvailableTimetables lists the descriptors stored under namespace, sorted by
// id. The second return is false for an unknown namespace.
func (r *Repository) AvailableTimetables(namespace string) ([]model.TimetableDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.available[namespace]
	if !ok {
		return nil, false
	}
	out := make([]model.TimetableDescriptor, 0, len(set))
	for _, desc := range set {
		out = append(out, desc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.ID < out[j].ID.ID })
	return out, true
}
