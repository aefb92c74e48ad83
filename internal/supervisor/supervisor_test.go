package supervisor

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oldphotos/launcher/internal/logbuf"
)

// writeEntry drops a shell script at <root>/<rel> so tests can spawn via
// Command "sh" instead of a real node install.
func writeEntry(t *testing.T, root, rel, script string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(script), 0644); err != nil {
		t.Fatal(err)
	}
}

func waitExit(t *testing.T, s *Supervisor) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for s.Running() {
		if time.Now().After(deadline) {
			t.Fatal("process did not exit in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSpawnFailure(t *testing.T) {
	t.Parallel()
	s := New(Config{
		Root:        t.TempDir(),
		Command:     "/definitely/not/a/binary",
		EntryScript: "packages/core/index.js",
		Port:        3001,
	})

	if err := s.Start(); err == nil {
		t.Fatal("expected spawn error")
	}
	if s.Running() {
		t.Error("no process should be running after a spawn failure")
	}
	// The slot stayed empty, so terminate is a no-op.
	s.Terminate()
}

func TestStartAndTerminate(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeEntry(t, root, "server.sh", "sleep 60\n")

	s := New(Config{
		Root:        root,
		Command:     "sh",
		EntryScript: "server.sh",
		Port:        3001,
		StopGrace:   2 * time.Second,
	})

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.Running() {
		t.Fatal("expected running after start")
	}

	s.Terminate()
	if s.Running() {
		t.Error("expected stopped after terminate")
	}

	// Idempotent: a second call finds the slot empty.
	s.Terminate()
}

func TestStartTwiceRejected(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeEntry(t, root, "server.sh", "sleep 60\n")

	s := New(Config{Root: root, Command: "sh", EntryScript: "server.sh", Port: 3001})
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Terminate()

	if err := s.Start(); err == nil {
		t.Error("expected error starting twice")
	}
}

func TestTerminateConcurrent(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeEntry(t, root, "server.sh", "sleep 60\n")

	s := New(Config{Root: root, Command: "sh", EntryScript: "server.sh", Port: 3001})
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Terminate()
		}()
	}
	wg.Wait()

	if s.Running() {
		t.Error("expected stopped after concurrent terminates")
	}
}

func TestTerminateAfterExit(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeEntry(t, root, "server.sh", "exit 0\n")

	s := New(Config{Root: root, Command: "sh", EntryScript: "server.sh", Port: 3001})
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	waitExit(t, s)
	s.Terminate() // already reaped, nothing to do
}

func TestChildEnvAndWorkingDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	// The child re-derives its paths from the exported root, and its cwd
	// is the root, so a relative write lands there.
	writeEntry(t, root, "server.sh", `echo "$PORT $OLDPHOTOS_ROOT" > env.txt
sleep 60
`)

	s := New(Config{Root: root, Command: "sh", EntryScript: "server.sh", Port: 4100})
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Terminate()

	outPath := filepath.Join(root, "env.txt")
	deadline := time.Now().Add(5 * time.Second)
	var data []byte
	for {
		var err error
		data, err = os.ReadFile(outPath)
		if err == nil && len(data) > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("child never wrote env.txt")
		}
		time.Sleep(20 * time.Millisecond)
	}

	got := strings.TrimSpace(string(data))
	want := strconv.Itoa(4100) + " " + root
	if got != want {
		t.Errorf("child env = %q, want %q", got, want)
	}
}

func TestOutputCaptured(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeEntry(t, root, "server.sh", "echo starting up\necho boom >&2\nexit 3\n")

	buf := logbuf.New(10)
	s := New(Config{Root: root, Command: "sh", EntryScript: "server.sh", Port: 3001, Output: buf})
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	waitExit(t, s)

	lines := buf.Lines()
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "starting up") || !strings.Contains(joined, "boom") {
		t.Errorf("captured output missing expected lines: %v", lines)
	}
}
