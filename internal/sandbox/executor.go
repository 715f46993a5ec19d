// Package sandbox runs generated programs in a child process with a
// wall-clock timeout, a filtered environment and bounded output.
package sandbox

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

const (
	DefaultTimeout        = 90 * time.Second
	DefaultMaxOutputBytes = 1 << 20

	// grace period for pipes to drain after the process group is killed
	waitDelay = 2 * time.Second
)

// DefaultAllowedEnv lists the variables a generated program needs to reach
// the data providers. Text-generation credentials are never passed.
var DefaultAllowedEnv = []string{
	"PATH",
	"HOME",
	"TMPDIR",
	"LANG",
	"VELOCITY_CONFIG",
	"FMP_API_KEY",
	"NEWS_PROVIDER",
	"FINNHUB_API_KEY",
	"ALPHA_VANTAGE_API_KEY",
	"MASSIVE_API_KEY",
	"SEC_USER_AGENT",
	"CACHE_BACKEND",
	"CACHE_DIR",
	"DATABASE_URL",
	"REDIS_URL",
	"LOG_LEVEL",
}

// Executor writes source to a temporary file in Dir and runs Command from
// Dir with the file name appended as the last argument.
type Executor struct {
	Command        []string
	Suffix         string
	Dir            string
	Timeout        time.Duration
	AllowedEnv     []string
	MaxOutputBytes int64
}

// Execute returns the program's standard output and true when it exits with
// status zero inside the timeout. Every other outcome is logged and reported
// as ("", false).
func (e *Executor) Execute(ctx context.Context, source string) (string, bool) {
	if len(e.Command) == 0 {
		slog.Error("sandbox has no command configured")
		return "", false
	}

	path, err := e.writeSource(source)
	if err != nil {
		slog.Error("sandbox write source", "error", err)
		return "", false
	}
	defer os.Remove(path)

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, e.Command[1:]...), filepath.Base(path))
	cmd := exec.CommandContext(runCtx, e.Command[0], args...)
	cmd.Dir = filepath.Dir(path)
	cmd.Env = e.environment()

	limit := e.MaxOutputBytes
	if limit <= 0 {
		limit = DefaultMaxOutputBytes
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitedWriter{w: &stdout, max: limit}
	cmd.Stderr = &limitedWriter{w: &stderr, max: limit}

	setupProcessGroup(cmd)
	cmd.Cancel = func() error { return killProcessGroup(cmd) }
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err = cmd.Run()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		slog.Warn("sandbox timed out", "timeout", timeout, "file", path)
		return "", false
	}
	if err != nil {
		slog.Warn("sandbox program failed",
			"error", err,
			"elapsed", time.Since(start),
			"stderr", tail(stderr.String(), 2048),
		)
		return "", false
	}

	return stdout.String(), true
}

func (e *Executor) writeSource(source string) (string, error) {
	dir := e.Dir
	if dir == "" {
		dir = "."
	}

	f, err := os.CreateTemp(dir, "velocity-*"+e.Suffix)
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(source); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func (e *Executor) environment() []string {
	allowed := e.AllowedEnv
	if allowed == nil {
		allowed = DefaultAllowedEnv
	}

	env := make([]string, 0, len(allowed))
	for _, name := range allowed {
		if v, ok := os.LookupEnv(name); ok {
			env = append(env, name+"="+v)
		}
	}
	return env
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// limitedWriter keeps the first max bytes and silently discards the rest.
type limitedWriter struct {
	w       io.Writer
	max     int64
	written int64
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if lw.written >= lw.max {
		return n, nil
	}

	remaining := lw.max - lw.written
	if int64(n) > remaining {
		written, err := lw.w.Write(p[:remaining])
		lw.written += int64(written)
		return n, err
	}

	written, err := lw.w.Write(p)
	lw.written += int64(written)
	return written, err
}
