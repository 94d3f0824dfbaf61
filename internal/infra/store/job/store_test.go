package jobstore

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/you-humble/scribe/internal/domain"
)

func newJob(id string) domain.Job {
	return domain.Job{
		ID:        id,
		Status:    domain.StatusQueued,
		Filename:  id + ".wav",
		CreatedAt: time.Now().UTC(),
	}
}

// TestCreateAndGet verifies round-trip of a freshly created job.
func TestCreateAndGet(t *testing.T) {
	s := New()
	if err := s.Create(newJob("a")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, ok := s.Get("a")
	if !ok {
		t.Fatal("Get() reported missing job")
	}
	if got.Status != domain.StatusQueued {
		t.Fatalf("status = %s, want queued", got.Status)
	}
}

// TestCreateDuplicateFails checks the ID-uniqueness invariant.
func TestCreateDuplicateFails(t *testing.T) {
	s := New()
	if err := s.Create(newJob("a")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Create(newJob("a")); !errors.Is(err, domain.ErrJobExists) {
		t.Fatalf("duplicate Create() error = %v, want ErrJobExists", err)
	}
}

// TestGetUnknownIsDistinct checks unknown IDs never yield a default record.
func TestGetUnknownIsDistinct(t *testing.T) {
	s := New()
	if _, ok := s.Get("missing"); ok {
		t.Fatal("Get() returned a record for an unknown ID")
	}
}

// TestUpdateMutatesAtomically checks read-modify-write semantics.
func TestUpdateMutatesAtomically(t *testing.T) {
	s := New()
	if err := s.Create(newJob("a")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	now := time.Now().UTC()
	err := s.Update("a", func(j *domain.Job) {
		j.Status = domain.StatusProcessing
		j.StartedAt = &now
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := s.Get("a")
	if got.Status != domain.StatusProcessing {
		t.Fatalf("status = %s, want processing", got.Status)
	}
	if got.StartedAt == nil || !got.StartedAt.Equal(now) {
		t.Fatalf("started_at = %v, want %v", got.StartedAt, now)
	}
}

// TestUpdateUnknownFails checks updates to absent IDs are rejected.
func TestUpdateUnknownFails(t *testing.T) {
	s := New()
	err := s.Update("missing", func(j *domain.Job) { j.Status = domain.StatusFailed })
	if !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("Update() error = %v, want ErrJobNotFound", err)
	}
}

// TestListSnapshots verifies List returns every stored job.
func TestListSnapshots(t *testing.T) {
	s := New()
	for i := 0; i < 3; i++ {
		if err := s.Create(newJob(fmt.Sprintf("job-%d", i))); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	jobs := s.List()
	if len(jobs) != 3 {
		t.Fatalf("List() returned %d jobs, want 3", len(jobs))
	}
}

// TestConcurrentReadersAndWriters exercises the store under the race
// detector: one writer per job plus concurrent listers and getters.
func TestConcurrentReadersAndWriters(t *testing.T) {
	s := New()
	const n = 32

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("job-%d", i)
		if err := s.Create(newJob(id)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Update(id, func(j *domain.Job) { j.Status = domain.StatusProcessing })
			_ = s.Update(id, func(j *domain.Job) { j.Status = domain.StatusCompleted })
		}()
		go func() {
			defer wg.Done()
			s.Get(id)
			s.List()
		}()
	}
	wg.Wait()

	for _, j := range s.List() {
		if j.Status != domain.StatusCompleted {
			t.Fatalf("job %s status = %s, want completed", j.ID, j.Status)
		}
	}
}
