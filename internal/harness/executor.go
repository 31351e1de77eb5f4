// internal/harness/executor.go
// Package: harness
package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"time"
)

// Executor runs the measured program once for a grid point and returns its
// captured standard output. A non-nil error means the repeat is unusable; it
// is never fatal to the sweep.
type Executor interface {
	Execute(ctx context.Context, point SweepPoint) (string, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, point SweepPoint) (string, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, point SweepPoint) (string, error) {
	return f(ctx, point)
}

const (
	defaultMaxOutput = 1 << 20
	stderrTailBytes  = 2048
	killGrace        = 5 * time.Second
)

// MPIExecutor launches the program under an MPI launcher:
//
//	<Launcher> <ProcessFlag> <P> [LauncherArgs...] <Artifact> <size> <sparsity> <iterations>
type MPIExecutor struct {
	Launcher     string   // e.g. "mpirun"
	ProcessFlag  string   // e.g. "-np"
	LauncherArgs []string // extra launcher flags, e.g. "--oversubscribe"
	Artifact     string   // e.g. "./mpi_spmv"
	WorkDir      string

	// Timeout bounds one run; zero waits forever.
	Timeout time.Duration

	// MaxOutputBytes caps captured stdout; anything beyond is dropped.
	MaxOutputBytes int

	Logger *slog.Logger
}

// Args returns the full argv (launcher first) used for point.
func (e *MPIExecutor) Args(point SweepPoint) []string {
	args := make([]string, 0, 6+len(e.LauncherArgs))
	args = append(args, e.Launcher, e.ProcessFlag, strconv.Itoa(point.ProcessCount))
	args = append(args, e.LauncherArgs...)
	args = append(args,
		e.Artifact,
		strconv.Itoa(point.Size),
		FormatSparsity(point.Sparsity),
		strconv.Itoa(point.Iterations),
	)
	return args
}

// Execute runs the program and waits for it to exit.
func (e *MPIExecutor) Execute(ctx context.Context, point SweepPoint) (string, error) {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	argv := e.Args(point)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = e.WorkDir
	cmd.WaitDelay = killGrace
	killProcessGroup(cmd)

	limit := e.MaxOutputBytes
	if limit <= 0 {
		limit = defaultMaxOutput
	}
	var stdout, stderr bytes.Buffer
	stdoutLimited := &limitedWriter{w: &stdout, limit: limit}
	cmd.Stdout = stdoutLimited
	cmd.Stderr = &tailWriter{buf: &stderr, keep: stderrTailBytes}

	logger.Debug("Executing program",
		slog.Any("argv", argv),
		slog.Duration("timeout", e.Timeout),
	)

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if stdoutLimited.truncated {
		logger.Warn("Program output truncated",
			slog.String("point", point.String()),
			slog.Int("limit_bytes", limit),
		)
	}

	if err == nil {
		logger.Debug("Program finished",
			slog.String("point", point.String()),
			slog.Duration("duration", duration),
			slog.Int("output_bytes", stdout.Len()),
		)
		return stdout.String(), nil
	}

	execErr := &ExecutionError{
		Point:    point,
		ExitCode: -1,
		Stderr:   stderr.String(),
		Err:      err,
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		execErr.TimedOut = true
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && !execErr.TimedOut {
		execErr.ExitCode = exitErr.ExitCode()
		execErr.Err = nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && !execErr.TimedOut {
		execErr.Err = fmt.Errorf("%w: %w", ctxErr, err)
	}
	return stdout.String(), execErr
}

// limitedWriter drops writes past limit but reports them as written so the
// child never sees a short write.
type limitedWriter struct {
	w         io.Writer
	limit     int
	written   int
	truncated bool
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	remaining := lw.limit - lw.written
	if remaining <= 0 {
		lw.truncated = true
		return len(p), nil
	}
	chunk := p
	if len(chunk) > remaining {
		chunk = chunk[:remaining]
		lw.truncated = true
	}
	n, err := lw.w.Write(chunk)
	lw.written += n
	if err != nil {
		return n, err
	}
	return len(p), nil
}

// tailWriter keeps only the last keep bytes written.
type tailWriter struct {
	buf  *bytes.Buffer
	keep int
}

func (tw *tailWriter) Write(p []byte) (int, error) {
	tw.buf.Write(p)
	if over := tw.buf.Len() - tw.keep; over > 0 {
		tail := append([]byte(nil), tw.buf.Bytes()[over:]...)
		tw.buf.Reset()
		tw.buf.Write(tail)
	}
	return len(p), nil
}
