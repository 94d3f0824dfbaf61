package stagestore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Store stages uploaded audio under a base directory for the lifetime of one
// job. File names derive from the job ID, so concurrent submissions sharing
// an original filename never collide.
type Store struct {
	baseDir string
}

func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("baseDir is empty")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create base dir: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Stage writes the uploaded content to <baseDir>/<jobID><ext> and returns the
// path. The write goes through a temp file and a rename so a half-written
// upload is never handed to the engine.
func (s *Store) Stage(ctx context.Context, jobID, originalFilename string, r io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	fullPath := filepath.Join(s.baseDir, jobID+filepath.Ext(originalFilename))

	tempPath := fullPath + ".part"
	f, err := os.Create(tempPath)
	if err != nil {
		return "", fmt.Errorf("create staged file: %w", err)
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(tempPath)
	}()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close staged file: %w", err)
	}
	if err := os.Rename(tempPath, fullPath); err != nil {
		return "", fmt.Errorf("rename staged file: %w", err)
	}

	return fullPath, nil
}

// Release removes a staged file. Removal is best-effort and idempotent: a
// missing file is not an error, and any other failure is logged but never
// escalated into the job outcome.
func (s *Store) Release(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("release staged file",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}
}
