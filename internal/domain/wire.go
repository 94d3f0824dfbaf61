package domain

import "time"

// SubmitResponse acknowledges an async submission.
type SubmitResponse struct {
	JobID          string    `json:"job_id"`
	Status         JobStatus `json:"status"`
	CheckStatusURL string    `json:"check_status_url"`
}

// JobView is the full job record as serialized by the status endpoint.
// Result fields appear only on completed jobs, error fields only on failed
// ones.
type JobView struct {
	JobID             string     `json:"job_id"`
	Status            JobStatus  `json:"status"`
	Filename          string     `json:"filename"`
	LanguageRequested *string    `json:"language_requested,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`

	Success             bool                `json:"success,omitempty"`
	Transcript          *string             `json:"transcript,omitempty"`
	Language            string              `json:"language,omitempty"`
	LanguageProbability *float64            `json:"language_probability,omitempty"`
	Segments            []Segment           `json:"segments,omitempty"`
	Candidates          []LanguageCandidate `json:"all_language_candidates,omitempty"`

	Error       string      `json:"error,omitempty"`
	FailureKind FailureKind `json:"failure_kind,omitempty"`
}

// NewJobView projects a job snapshot onto its wire representation.
func NewJobView(j Job) JobView {
	v := JobView{
		JobID:             j.ID,
		Status:            j.Status,
		Filename:          j.Filename,
		LanguageRequested: j.LanguageRequested,
		CreatedAt:         j.CreatedAt,
		StartedAt:         j.StartedAt,
		CompletedAt:       j.CompletedAt,
	}

	switch j.Status {
	case StatusCompleted:
		if j.Result != nil {
			v.Success = true
			v.Transcript = &j.Result.Transcript
			v.Language = j.Result.Language
			v.LanguageProbability = &j.Result.LanguageProbability
			v.Segments = j.Result.Segments
			v.Candidates = j.Result.Candidates
		}
	case StatusFailed:
		v.Error = j.Error
		v.FailureKind = j.FailureKind
	}

	return v
}

// TranscriptionResponse is the synchronous endpoint's success payload.
type TranscriptionResponse struct {
	Success             bool                `json:"success"`
	Transcript          string              `json:"transcript"`
	Language            string              `json:"language"`
	LanguageProbability float64             `json:"language_probability"`
	Segments            []Segment           `json:"segments"`
	Candidates          []LanguageCandidate `json:"all_language_candidates,omitempty"`
}

// NewTranscriptionResponse wraps an assembled result for the sync endpoint.
func NewTranscriptionResponse(r Result) TranscriptionResponse {
	return TranscriptionResponse{
		Success:             true,
		Transcript:          r.Transcript,
		Language:            r.Language,
		LanguageProbability: r.LanguageProbability,
		Segments:            r.Segments,
		Candidates:          r.Candidates,
	}
}

// SummaryEntry is one row of the operational listing; it deliberately omits
// transcripts, segments, and error detail.
type SummaryEntry struct {
	Status      JobStatus  `json:"status"`
	Filename    string     `json:"filename"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// JobsSummary is the listing endpoint payload, keyed by job ID.
type JobsSummary struct {
	TotalJobs int                     `json:"total_jobs"`
	Jobs      map[string]SummaryEntry `json:"jobs"`
}

// ErrorResponse carries a human-readable failure description.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
