package engine

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/you-humble/scribe/internal/domain"
)

type fakeRunner struct {
	result commandResult
	err    error

	gotName string
	gotArgs []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (commandResult, error) {
	f.gotName = name
	f.gotArgs = args
	return f.result, f.err
}

func okLookPath(file string) (string, error)  { return "/usr/bin/" + file, nil }
func okStat(string) (os.FileInfo, error)      { return nil, nil }
func missingStat(string) (os.FileInfo, error) { return nil, os.ErrNotExist }

const sampleOutput = `{
	"language": "en",
	"language_probability": 0.98712,
	"all_language_probs": [
		{"language": "en", "probability": 0.98712},
		{"language": "de", "probability": 0.01}
	],
	"segments": [
		{"start": 0.0, "end": 2.5, "text": "hello"},
		{"start": 2.5, "end": 4.0, "text": "world"}
	]
}`

// TestNewRejectsBrokenSetup checks engine construction is startup-fatal when
// the binary or model is missing.
func TestNewRejectsBrokenSetup(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		model    string
		lookPath func(string) (string, error)
		stat     func(string) (os.FileInfo, error)
	}{
		{
			name:     "empty command",
			command:  "",
			model:    "/models/base.bin",
			lookPath: okLookPath,
			stat:     okStat,
		},
		{
			name:    "binary not on path",
			command: "whisper-json",
			model:   "/models/base.bin",
			lookPath: func(string) (string, error) {
				return "", errors.New("not found")
			},
			stat: okStat,
		},
		{
			name:     "empty model path",
			command:  "whisper-json",
			model:    "",
			lookPath: okLookPath,
			stat:     okStat,
		},
		{
			name:     "missing model file",
			command:  "whisper-json",
			model:    "/models/base.bin",
			lookPath: okLookPath,
			stat:     missingStat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewForTests(tt.command, tt.model, &fakeRunner{}, tt.lookPath, tt.stat); err == nil {
				t.Fatal("expected construction error")
			}
		})
	}
}

// TestTranscribeParsesOutput checks the drained engine output round-trips
// into domain types unrounded.
func TestTranscribeParsesOutput(t *testing.T) {
	runner := &fakeRunner{result: commandResult{Stdout: sampleOutput}}
	w, err := NewForTests("whisper-json", "/models/base.bin", runner, okLookPath, okStat)
	if err != nil {
		t.Fatalf("NewForTests() error = %v", err)
	}

	got, err := w.Transcribe(context.Background(), "/tmp/a.wav", nil)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	if got.Info.Language != "en" {
		t.Fatalf("language = %q, want en", got.Info.Language)
	}
	if got.Info.Probability != 0.98712 {
		t.Fatalf("probability = %v, want raw 0.98712", got.Info.Probability)
	}
	if len(got.Segments) != 2 || got.Segments[1].Text != "world" {
		t.Fatalf("segments = %+v", got.Segments)
	}
	if len(got.Info.Candidates) != 2 {
		t.Fatalf("candidates = %+v", got.Info.Candidates)
	}
}

// TestTranscribeLanguageFlag checks the optional hint maps to -l and absence
// means auto-detect.
func TestTranscribeLanguageFlag(t *testing.T) {
	runner := &fakeRunner{result: commandResult{Stdout: sampleOutput}}
	w, err := NewForTests("whisper-json", "/models/base.bin", runner, okLookPath, okStat)
	if err != nil {
		t.Fatalf("NewForTests() error = %v", err)
	}

	if _, err := w.Transcribe(context.Background(), "/tmp/a.wav", nil); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	for _, arg := range runner.gotArgs {
		if arg == "-l" {
			t.Fatalf("auto-detect run passed -l: %v", runner.gotArgs)
		}
	}

	lang := "es"
	if _, err := w.Transcribe(context.Background(), "/tmp/a.wav", &lang); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	found := false
	for i, arg := range runner.gotArgs {
		if arg == "-l" && i+1 < len(runner.gotArgs) && runner.gotArgs[i+1] == "es" {
			found = true
		}
	}
	if !found {
		t.Fatalf("forced-language run missing -l es: %v", runner.gotArgs)
	}
}

// TestTranscribeClassifiesFailures checks exit-code-based failure tagging.
func TestTranscribeClassifiesFailures(t *testing.T) {
	tests := []struct {
		name     string
		result   commandResult
		runErr   error
		wantKind domain.FailureKind
	}{
		{
			name:     "decode failure",
			result:   commandResult{Stderr: "unsupported container", ExitCode: 2},
			runErr:   errors.New("exit status 2"),
			wantKind: domain.FailureDecode,
		},
		{
			name:     "internal fault",
			result:   commandResult{Stderr: "model crashed", ExitCode: 1},
			runErr:   errors.New("exit status 1"),
			wantKind: domain.FailureEngineInternal,
		},
		{
			name:     "process never started",
			result:   commandResult{ExitCode: -1},
			runErr:   errors.New("fork/exec: permission denied"),
			wantKind: domain.FailureEngineInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{result: tt.result, err: tt.runErr}
			w, err := NewForTests("whisper-json", "/models/base.bin", runner, okLookPath, okStat)
			if err != nil {
				t.Fatalf("NewForTests() error = %v", err)
			}

			_, err = w.Transcribe(context.Background(), "/tmp/a.wav", nil)
			if err == nil {
				t.Fatal("expected transcription error")
			}
			if got := domain.Classify(err); got != tt.wantKind {
				t.Fatalf("failure kind = %s, want %s", got, tt.wantKind)
			}
		})
	}
}

// TestTranscribeMalformedOutput checks garbage stdout is an internal fault.
func TestTranscribeMalformedOutput(t *testing.T) {
	runner := &fakeRunner{result: commandResult{Stdout: "{not-json"}}
	w, err := NewForTests("whisper-json", "/models/base.bin", runner, okLookPath, okStat)
	if err != nil {
		t.Fatalf("NewForTests() error = %v", err)
	}

	_, err = w.Transcribe(context.Background(), "/tmp/a.wav", nil)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if got := domain.Classify(err); got != domain.FailureEngineInternal {
		t.Fatalf("failure kind = %s, want engine_internal", got)
	}
}
