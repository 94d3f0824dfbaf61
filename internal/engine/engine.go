// Package engine adapts the external speech-to-text CLI behind a narrow
// interface. The engine binary is a faster-whisper wrapper that reads one
// audio file and prints a single JSON document on stdout:
//
//	{
//	  "language": "en",
//	  "language_probability": 0.9871,
//	  "all_language_probs": [{"language": "en", "probability": 0.9871}, ...],
//	  "segments": [{"start": 0.0, "end": 2.5, "text": "..."}, ...]
//	}
//
// The wrapper exits 2 when the input cannot be decoded; any other non-zero
// exit is an internal engine fault.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/you-humble/scribe/internal/domain"
)

const decodeFailureExitCode = 2

// commandResult captures one engine process invocation.
type commandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (commandResult, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := commandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, err
	}
	return result, nil
}

// Whisper invokes the transcription CLI. The underlying model is a single
// shared resource that is not safe for concurrent use, so every invocation
// runs under one mutex; the worker pool and the synchronous path share one
// Whisper instance and therefore one serialization boundary.
type Whisper struct {
	command   string
	modelPath string

	runner   commandRunner
	lookPath func(file string) (string, error)
	stat     func(name string) (os.FileInfo, error)

	mu sync.Mutex
}

// New resolves the engine binary and model file up front so a broken engine
// setup fails at startup instead of inside the first job.
func New(command, modelPath string) (*Whisper, error) {
	w := &Whisper{
		command:   command,
		modelPath: modelPath,
		runner:    execRunner{},
		lookPath:  exec.LookPath,
		stat:      os.Stat,
	}
	if err := w.init(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Whisper) init() error {
	if strings.TrimSpace(w.command) == "" {
		return fmt.Errorf("engine command is empty")
	}
	if _, err := w.lookPath(w.command); err != nil {
		return fmt.Errorf("engine binary %q not found: %w", w.command, err)
	}
	if strings.TrimSpace(w.modelPath) == "" {
		return fmt.Errorf("engine model path is empty")
	}
	if _, err := w.stat(w.modelPath); err != nil {
		return fmt.Errorf("engine model %q not accessible: %w", w.modelPath, err)
	}
	return nil
}

// Transcribe runs the engine on one staged audio file and fully drains its
// output. A nil language means auto-detect.
func (w *Whisper) Transcribe(ctx context.Context, audioPath string, language *string) (domain.Transcription, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	args := []string{"-m", w.modelPath, "-f", audioPath, "--json"}
	if language != nil && strings.TrimSpace(*language) != "" {
		args = append(args, "-l", *language)
	}

	result, runErr := w.runner.Run(ctx, w.command, args...)
	if runErr != nil {
		return domain.Transcription{}, classifyRunFailure(result, runErr)
	}

	var out wireOutput
	if err := json.Unmarshal([]byte(result.Stdout), &out); err != nil {
		return domain.Transcription{}, &domain.EngineError{
			Kind:    domain.FailureEngineInternal,
			Message: "engine produced malformed output",
			Err:     err,
		}
	}

	return out.transcription(), nil
}

func classifyRunFailure(result commandResult, runErr error) error {
	detail := strings.TrimSpace(result.Stderr)
	if detail == "" {
		detail = runErr.Error()
	}

	if result.ExitCode == decodeFailureExitCode {
		return &domain.EngineError{
			Kind:    domain.FailureDecode,
			Message: fmt.Sprintf("audio decode failed: %s", detail),
			Err:     runErr,
		}
	}
	return &domain.EngineError{
		Kind:    domain.FailureEngineInternal,
		Message: fmt.Sprintf("transcription engine failed: %s", detail),
		Err:     runErr,
	}
}

// wireOutput mirrors the engine's JSON document.
type wireOutput struct {
	Language            string  `json:"language"`
	LanguageProbability float64 `json:"language_probability"`
	AllLanguageProbs    []struct {
		Language    string  `json:"language"`
		Probability float64 `json:"probability"`
	} `json:"all_language_probs"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (o wireOutput) transcription() domain.Transcription {
	t := domain.Transcription{
		Info: domain.LanguageInfo{
			Language:    o.Language,
			Probability: o.LanguageProbability,
		},
	}
	for _, c := range o.AllLanguageProbs {
		t.Info.Candidates = append(t.Info.Candidates, domain.LanguageCandidate{
			Language:    c.Language,
			Probability: c.Probability,
		})
	}
	for _, s := range o.Segments {
		t.Segments = append(t.Segments, domain.RawSegment{Start: s.Start, End: s.End, Text: s.Text})
	}
	return t
}

// NewForTests constructs an engine with injectable process and filesystem
// dependencies.
func NewForTests(
	command, modelPath string,
	runner commandRunner,
	lookPath func(file string) (string, error),
	stat func(name string) (os.FileInfo, error),
) (*Whisper, error) {
	w := &Whisper{
		command:   command,
		modelPath: modelPath,
		runner:    runner,
		lookPath:  lookPath,
		stat:      stat,
	}
	if err := w.init(); err != nil {
		return nil, err
	}
	return w, nil
}
