package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/you-humble/scribe/internal/domain"

	"github.com/google/uuid"
)

type JobStore interface {
	Create(job domain.Job) error
	Get(id string) (domain.Job, bool)
	List() []domain.Job
}

type StageStore interface {
	Stage(ctx context.Context, jobID, originalFilename string, r io.Reader) (string, error)
	Release(path string)
}

type TaskQueue interface {
	Enqueue(t domain.Task)
}

type Engine interface {
	Transcribe(ctx context.Context, audioPath string, language *string) (domain.Transcription, error)
}

type usecase struct {
	store  JobStore
	stage  StageStore
	queue  TaskQueue
	engine Engine
}

func New(store JobStore, stage StageStore, queue TaskQueue, engine Engine) *usecase {
	return &usecase{
		store:  store,
		stage:  stage,
		queue:  queue,
		engine: engine,
	}
}

// Submit stages the upload, registers a queued job, and hands a task to the
// worker pool. It never waits on engine work. A staging failure is reported
// synchronously and leaves no job record and no task behind.
func (uc *usecase) Submit(ctx context.Context, filename string, r io.Reader, language *string) (string, error) {
	jobID := uuid.NewString()

	path, err := uc.stage.Stage(ctx, jobID, filename, r)
	if err != nil {
		return "", fmt.Errorf("stage upload: %w", err)
	}

	job := domain.Job{
		ID:                jobID,
		Status:            domain.StatusQueued,
		Filename:          filename,
		LanguageRequested: language,
		CreatedAt:         time.Now().UTC(),
	}
	if err := uc.store.Create(job); err != nil {
		uc.stage.Release(path)
		return "", fmt.Errorf("create job: %w", err)
	}

	uc.queue.Enqueue(domain.Task{JobID: jobID, FilePath: path, Language: language})
	slog.Info("job submitted",
		slog.String("job_id", jobID),
		slog.String("filename", filename),
	)
	return jobID, nil
}

// TranscribeNow is the blocking path: it stages the upload, invokes the
// engine inline on the calling goroutine, and returns the assembled result.
// It bypasses the job store and the queue but shares the engine's
// serialization boundary with the worker pool. The staged file is released
// on every exit path.
func (uc *usecase) TranscribeNow(ctx context.Context, filename string, r io.Reader, language *string) (domain.Result, error) {
	path, err := uc.stage.Stage(ctx, uuid.NewString(), filename, r)
	if err != nil {
		return domain.Result{}, fmt.Errorf("stage upload: %w", err)
	}
	defer uc.stage.Release(path)

	transcription, err := uc.engine.Transcribe(ctx, path, language)
	if err != nil {
		return domain.Result{}, err
	}

	return domain.BuildResult(transcription), nil
}

// Status returns the full record for one job.
func (uc *usecase) Status(jobID string) (domain.JobView, error) {
	job, ok := uc.store.Get(jobID)
	if !ok {
		return domain.JobView{}, domain.ErrJobNotFound
	}
	return domain.NewJobView(job), nil
}

// ListSummary projects every job onto the operational listing, omitting
// transcripts, segments, and error detail.
func (uc *usecase) ListSummary() domain.JobsSummary {
	jobs := uc.store.List()

	summary := domain.JobsSummary{
		TotalJobs: len(jobs),
		Jobs:      make(map[string]domain.SummaryEntry, len(jobs)),
	}
	for _, j := range jobs {
		summary.Jobs[j.ID] = domain.SummaryEntry{
			Status:      j.Status,
			Filename:    j.Filename,
			CreatedAt:   j.CreatedAt,
			CompletedAt: j.CompletedAt,
		}
	}
	return summary
}
