package jobstore

import (
	"sync"

	"github.com/you-humble/scribe/internal/domain"
)

// Store is the in-memory job registry. One mutex covers the whole map, so an
// Update for a given ID never interleaves with another Update: every
// read-modify-write runs inside the same critical section. Jobs live until
// process exit; there is no eviction.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]domain.Job
}

func New() *Store {
	return &Store{jobs: make(map[string]domain.Job)}
}

// Create registers a new job. A duplicate ID is an internal invariant
// violation, reported as domain.ErrJobExists.
func (s *Store) Create(job domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.ID]; ok {
		return domain.ErrJobExists
	}
	s.jobs[job.ID] = job
	return nil
}

// Get returns a snapshot of the job, or false when the ID is unknown.
func (s *Store) Get(id string) (domain.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	return job, ok
}

// Update applies mutate to the stored job atomically.
func (s *Store) Update(id string, mutate func(*domain.Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return domain.ErrJobNotFound
	}
	mutate(&job)
	s.jobs[id] = job
	return nil
}

// List returns a snapshot of every job, in no particular order.
func (s *Store) List() []domain.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, job)
	}
	return out
}
