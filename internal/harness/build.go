// internal/harness/build.go
// Package: harness
package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Builder produces the measured program before a sweep.
type Builder interface {
	Build(ctx context.Context) error
}

const buildOutputTail = 4096

// MakeBuilder runs a clean step and a build step, then checks the artifact.
type MakeBuilder struct {
	Dir string

	// Clean is run first; its failure is logged and ignored.
	Clean []string

	// Command must succeed.
	Command []string

	// Artifact is resolved against Dir when relative.
	Artifact string

	// Skip bypasses both commands but still checks the artifact.
	Skip bool

	Logger *slog.Logger
}

// Build runs the configured steps. Every failure is a *BuildError.
func (b *MakeBuilder) Build(ctx context.Context) error {
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if b.Skip {
		logger.Info("Build skipped")
	} else {
		if len(b.Clean) > 0 {
			if out, err := b.run(ctx, b.Clean); err != nil {
				logger.Warn("Clean step failed, continuing",
					slog.Any("command", b.Clean),
					slog.String("error", err.Error()),
					slog.String("output", tail(out, 512)),
				)
			}
		}
		if len(b.Command) == 0 {
			return &BuildError{Err: errors.New("no build command configured")}
		}
		start := time.Now()
		out, err := b.run(ctx, b.Command)
		if err != nil {
			return &BuildError{Command: b.Command, Output: tail(out, buildOutputTail), Err: err}
		}
		logger.Info("Build finished",
			slog.Any("command", b.Command),
			slog.Duration("duration", time.Since(start)),
		)
	}

	path := b.artifactPath()
	info, err := os.Stat(path)
	if err != nil {
		return &BuildError{Err: fmt.Errorf("artifact %s: %w", path, err)}
	}
	if info.IsDir() {
		return &BuildError{Err: fmt.Errorf("artifact %s is a directory", path)}
	}
	return nil
}

func (b *MakeBuilder) artifactPath() string {
	if b.Artifact == "" || filepath.IsAbs(b.Artifact) {
		return b.Artifact
	}
	return filepath.Join(b.Dir, b.Artifact)
}

func (b *MakeBuilder) run(ctx context.Context, argv []string) (string, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = b.Dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
