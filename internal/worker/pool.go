package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/you-humble/scribe/internal/domain"
)

type JobStore interface {
	Update(id string, mutate func(*domain.Job)) error
}

type Releaser interface {
	Release(path string)
}

type Engine interface {
	Transcribe(ctx context.Context, audioPath string, language *string) (domain.Transcription, error)
}

// Pool drains an unbounded FIFO task queue with a fixed number of workers
// (default 1, which serializes access to the shared engine). Tasks are never
// retried and a failing task never stops the workers; the staged file is
// released exactly once on every exit path.
type Pool struct {
	size   int
	store  JobStore
	stage  Releaser
	engine Engine

	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []domain.Task
	closed bool

	wg sync.WaitGroup
}

func NewPool(size int, store JobStore, stage Releaser, engine Engine) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{
		size:   size,
		store:  store,
		stage:  stage,
		engine: engine,
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Start launches the workers. The engine handle must already be initialized;
// construction of the engine fails the process before Start is ever reached.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.run(ctx)
		}()
	}
	slog.Info("worker pool started", slog.Int("workers", p.size))
}

// Stop wakes the workers, waits for in-flight tasks to reach a terminal
// state, and releases the staged files of tasks still queued. Queued tasks
// are abandoned; jobs are not persisted across restarts.
func (p *Pool) Stop() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	abandoned := p.tasks
	p.tasks = nil
	p.mu.Unlock()

	for _, t := range abandoned {
		p.stage.Release(t.FilePath)
	}
	if len(abandoned) > 0 {
		slog.Warn("abandoned queued tasks on shutdown", slog.Int("count", len(abandoned)))
	}
	slog.Info("worker pool stopped")
}

// Enqueue appends a task in submission order. The queue is unbounded;
// sustained overload grows memory instead of applying backpressure.
func (p *Pool) Enqueue(t domain.Task) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		p.stage.Release(t.FilePath)
		slog.Warn("enqueue after shutdown, task dropped", slog.String("job_id", t.JobID))
		return
	}
	p.tasks = append(p.tasks, t)
	p.cond.Signal()
}

// next blocks until a task is available or the pool is stopped.
func (p *Pool) next() (domain.Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.tasks) == 0 && !p.closed {
		p.cond.Wait()
	}
	if p.closed {
		return domain.Task{}, false
	}

	t := p.tasks[0]
	p.tasks = p.tasks[1:]
	return t, true
}

func (p *Pool) run(ctx context.Context) {
	for {
		t, ok := p.next()
		if !ok {
			return
		}
		p.process(ctx, t)
	}
}

// process executes one task through its full lifecycle:
// queued -> processing -> completed|failed. The release defer is registered
// first so cleanup is the final step even when result assembly, the store
// update, or the engine panics.
func (p *Pool) process(ctx context.Context, t domain.Task) {
	defer p.stage.Release(t.FilePath)
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("panic during transcription",
				slog.String("job_id", t.JobID),
				slog.Any("panic", rec),
			)
			p.fail(t.JobID, domain.FailureEngineInternal, fmt.Sprintf("internal error: %v", rec))
		}
	}()

	started := time.Now().UTC()
	if err := p.store.Update(t.JobID, func(j *domain.Job) {
		j.Status = domain.StatusProcessing
		j.StartedAt = &started
	}); err != nil {
		slog.Error("claim task", slog.String("job_id", t.JobID), slog.String("error", err.Error()))
		return
	}
	slog.Info("transcription started", slog.String("job_id", t.JobID))

	transcription, err := p.engine.Transcribe(ctx, t.FilePath, t.Language)
	if err != nil {
		// The originating request already returned; the error lives on
		// the job record and is never re-raised.
		slog.Error("transcription failed",
			slog.String("job_id", t.JobID),
			slog.String("error", err.Error()),
		)
		p.fail(t.JobID, domain.Classify(err), err.Error())
		return
	}

	result := domain.BuildResult(transcription)
	completed := time.Now().UTC()
	if err := p.store.Update(t.JobID, func(j *domain.Job) {
		j.Status = domain.StatusCompleted
		j.Result = &result
		j.CompletedAt = &completed
	}); err != nil {
		slog.Error("store result", slog.String("job_id", t.JobID), slog.String("error", err.Error()))
		return
	}
	slog.Info("transcription completed",
		slog.String("job_id", t.JobID),
		slog.String("language", result.Language),
		slog.Int("segments", len(result.Segments)),
	)
}

func (p *Pool) fail(jobID string, kind domain.FailureKind, message string) {
	completed := time.Now().UTC()
	if err := p.store.Update(jobID, func(j *domain.Job) {
		if j.Status.Terminal() {
			return
		}
		j.Status = domain.StatusFailed
		j.Error = message
		j.FailureKind = kind
		j.CompletedAt = &completed
	}); err != nil {
		slog.Error("mark job failed", slog.String("job_id", jobID), slog.String("error", err.Error()))
	}
}
