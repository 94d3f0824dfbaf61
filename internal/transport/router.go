package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter mounts the transcription API surface.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/transcribe", h.transcribe)
	r.Post("/transcribe-async", h.transcribeAsync)
	r.Get("/transcribe-status/{job_id}", h.status)
	r.Get("/transcribe-jobs", h.jobs)
	r.Get("/health", h.health)

	return r
}
