package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/you-humble/scribe/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Usecase interface {
	Submit(ctx context.Context, filename string, r io.Reader, language *string) (string, error)
	TranscribeNow(ctx context.Context, filename string, r io.Reader, language *string) (domain.Result, error)
	Status(jobID string) (domain.JobView, error)
	ListSummary() domain.JobsSummary
}

type Handler struct {
	maxUploadBytes int64
	usecase        Usecase
}

func NewHandler(maxUploadMb int64, uc Usecase) *Handler {
	return &Handler{
		maxUploadBytes: maxUploadMb << 20,
		usecase:        uc,
	}
}

// transcribe is the blocking path: the caller waits for the full
// transcription and receives the assembled result inline.
func (h *Handler) transcribe(w http.ResponseWriter, r *http.Request) {
	logger := slog.With(
		slog.String("request_id", uuid.NewString()),
		slog.String("handler", "transcribe"),
		slog.String("remote_addr", r.RemoteAddr),
	)

	file, filename, language, ok := h.uploadedFile(w, r, logger)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.usecase.TranscribeNow(r.Context(), filename, file, language)
	if err != nil {
		logger.Error("TranscribeNow usecase",
			slog.String("file_name", filename),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, domain.NewTranscriptionResponse(result))
}

// transcribeAsync accepts the upload, queues a job, and returns immediately
// with the job ID. Processing failures are visible only via status polls.
func (h *Handler) transcribeAsync(w http.ResponseWriter, r *http.Request) {
	logger := slog.With(
		slog.String("request_id", uuid.NewString()),
		slog.String("handler", "transcribe_async"),
		slog.String("remote_addr", r.RemoteAddr),
	)

	file, filename, language, ok := h.uploadedFile(w, r, logger)
	if !ok {
		return
	}
	defer file.Close()

	jobID, err := h.usecase.Submit(r.Context(), filename, file, language)
	if err != nil {
		logger.Error("Submit usecase",
			slog.String("file_name", filename),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to accept transcription job")
		return
	}

	writeJSON(w, http.StatusAccepted, domain.SubmitResponse{
		JobID:          jobID,
		Status:         domain.StatusQueued,
		CheckStatusURL: fmt.Sprintf("/transcribe-status/%s", jobID),
	})
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")

	view, err := h.usecase.Status(jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "Job not found")
			return
		}
		slog.Error("Status usecase",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) jobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.usecase.ListSummary())
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// uploadedFile parses the multipart upload and the optional language hint
// shared by both transcription endpoints. On failure it writes the error
// response and returns ok=false.
func (h *Handler) uploadedFile(
	w http.ResponseWriter,
	r *http.Request,
	logger *slog.Logger,
) (io.ReadCloser, string, *string, bool) {
	defer r.Body.Close()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		logger.Error("ParseMultipartForm", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "unable to parse multipart form")
		return nil, "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.Warn("missing file field")
		writeError(w, http.StatusBadRequest, "field `file` is required")
		return nil, "", nil, false
	}

	var language *string
	if lang := r.FormValue("language"); lang != "" {
		language = &lang
	}

	return file, header.Filename, language, true
}

func writeError(w http.ResponseWriter, status int, detail string) {
	if detail == "" {
		detail = http.StatusText(status)
	}
	writeJSON(w, status, domain.ErrorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("writeJSON", slog.String("error", err.Error()))
	}
}
