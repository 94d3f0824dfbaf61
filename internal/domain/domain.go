package domain

import (
	"errors"
	"time"
)

type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transitions can occur.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// FailureKind classifies why a job (or a synchronous request) failed, so
// callers can branch on the class instead of matching message text.
type FailureKind string

const (
	FailureStagingIO      FailureKind = "staging_io"
	FailureDecode         FailureKind = "decode"
	FailureEngineInternal FailureKind = "engine_internal"
)

// Job is the single source-of-truth record for one submitted transcription.
// Only the worker pool mutates a job after creation; query services read
// snapshots.
type Job struct {
	ID                string     `json:"job_id"`
	Status            JobStatus  `json:"status"`
	Filename          string     `json:"filename"`
	LanguageRequested *string    `json:"language_requested,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`

	// Exactly one of Result / Error is set once Status is terminal.
	Result      *Result     `json:"-"`
	Error       string      `json:"-"`
	FailureKind FailureKind `json:"-"`
}

// Task is the unit handed from the submission service to the worker pool.
// The queue owns it until a worker claims it.
type Task struct {
	JobID    string
	FilePath string
	Language *string
}

type Segment struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type LanguageCandidate struct {
	Language    string  `json:"language"`
	Probability float64 `json:"probability"`
}

// Result is the assembled, rounded transcription outcome stored on a
// completed job and returned by the synchronous path.
type Result struct {
	Transcript          string              `json:"transcript"`
	Language            string              `json:"language"`
	LanguageProbability float64             `json:"language_probability"`
	Segments            []Segment           `json:"segments"`
	Candidates          []LanguageCandidate `json:"all_language_candidates,omitempty"`
}

// RawSegment is one engine-produced segment before assembly rounding.
type RawSegment struct {
	Start float64
	End   float64
	Text  string
}

// LanguageInfo is the engine's detection outcome before assembly rounding.
// Candidates, when present, are ranked best-first by the engine.
type LanguageInfo struct {
	Language    string
	Probability float64
	Candidates  []LanguageCandidate
}

// Transcription is the fully drained engine output for one audio file.
type Transcription struct {
	Segments []RawSegment
	Info     LanguageInfo
}

var (
	ErrJobNotFound = errors.New("job not found")
	ErrJobExists   = errors.New("job already exists")
)

// EngineError is a transcription failure tagged with its class.
type EngineError struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (e *EngineError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *EngineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Classify maps an error to its failure kind; unrecognized errors count as
// internal engine faults.
func Classify(err error) FailureKind {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return FailureEngineInternal
}
