package sandbox

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newShellExecutor(t *testing.T) (*Executor, string) {
	t.Helper()
	dir := t.TempDir()
	return &Executor{
		Command: []string{"sh"},
		Suffix:  ".sh",
		Dir:     dir,
		Timeout: 5 * time.Second,
	}, dir
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	assert.Equal(t, 0, len(entries))
}

func TestExecute_Success(t *testing.T) {
	e, dir := newShellExecutor(t)

	out, ok := e.Execute(context.Background(), "echo hello\necho world\n")

	assert.Equal(t, true, ok)
	assert.Equal(t, "hello\nworld\n", out)
	assertDirEmpty(t, dir)
}

func TestExecute_RelativeDir(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)
	if err := os.Mkdir("work", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	e := &Executor{
		Command: []string{"sh"},
		Suffix:  ".sh",
		Dir:     "work",
		Timeout: 5 * time.Second,
	}

	out, ok := e.Execute(context.Background(), "basename \"$(pwd)\"\n")

	assert.Equal(t, true, ok)
	assert.Equal(t, "work\n", out)
	assertDirEmpty(t, filepath.Join(root, "work"))
}

func TestExecute_NonZeroExit(t *testing.T) {
	e, dir := newShellExecutor(t)

	out, ok := e.Execute(context.Background(), "echo partial\nexit 3\n")

	assert.Equal(t, false, ok)
	assert.Equal(t, "", out)
	assertDirEmpty(t, dir)
}

func TestExecute_Timeout(t *testing.T) {
	e, dir := newShellExecutor(t)
	e.Timeout = 200 * time.Millisecond

	start := time.Now()
	out, ok := e.Execute(context.Background(), "echo started\nsleep 30\necho done\n")
	elapsed := time.Since(start)

	assert.Equal(t, false, ok)
	assert.Equal(t, "", out)
	if elapsed > 5*time.Second {
		t.Fatalf("timeout not enforced, took %v", elapsed)
	}
	assertDirEmpty(t, dir)
}

func TestExecute_ParentCancelled(t *testing.T) {
	e, dir := newShellExecutor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, ok := e.Execute(ctx, "echo never\n")

	assert.Equal(t, false, ok)
	assert.Equal(t, "", out)
	assertDirEmpty(t, dir)
}

func TestExecute_LaunchFailure(t *testing.T) {
	e, dir := newShellExecutor(t)
	e.Command = []string{"velocity-no-such-interpreter"}

	out, ok := e.Execute(context.Background(), "echo hi\n")

	assert.Equal(t, false, ok)
	assert.Equal(t, "", out)
	assertDirEmpty(t, dir)
}

func TestExecute_NoCommand(t *testing.T) {
	e := &Executor{}

	_, ok := e.Execute(context.Background(), "echo hi\n")

	assert.Equal(t, false, ok)
}

func TestExecute_EnvironmentAllowlist(t *testing.T) {
	t.Setenv("VELOCITY_TEST_SECRET", "leaked")
	t.Setenv("VELOCITY_TEST_VISIBLE", "passed")

	e, _ := newShellExecutor(t)
	e.AllowedEnv = []string{"PATH", "VELOCITY_TEST_VISIBLE"}

	out, ok := e.Execute(context.Background(),
		"echo \"${VELOCITY_TEST_SECRET:-unset}\"\necho \"$VELOCITY_TEST_VISIBLE\"\n")

	assert.Equal(t, true, ok)
	assert.Equal(t, "unset\npassed\n", out)
}

func TestExecute_OutputBounded(t *testing.T) {
	e, _ := newShellExecutor(t)
	e.MaxOutputBytes = 10

	out, ok := e.Execute(context.Background(), "echo 0123456789abcdef\n")

	assert.Equal(t, true, ok)
	assert.Equal(t, "0123456789", out)
}

func TestLimitedWriter(t *testing.T) {
	var sb strings.Builder
	lw := &limitedWriter{w: &sb, max: 5}

	n, err := lw.Write([]byte("abc"))
	assert.Equal(t, nil, err)
	assert.Equal(t, 3, n)

	n, err = lw.Write([]byte("defg"))
	assert.Equal(t, nil, err)
	assert.Equal(t, 4, n)

	n, err = lw.Write([]byte("xyz"))
	assert.Equal(t, nil, err)
	assert.Equal(t, 3, n)

	assert.Equal(t, "abcde", sb.String())
}
