package workroot

import (
	"os"
	"path/filepath"
	"testing"
)

// mkdirs creates a nested path under t.TempDir and returns the deepest dir.
func mkdirs(t *testing.T, elem ...string) string {
	t.Helper()
	dir := filepath.Join(elem...)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestOverrideWinsVerbatim(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	mkdirs(t, tmp, "ai")

	// The override is returned as-is, even when it does not exist and a
	// marker is present at the start directory.
	got := Resolve("/does/not/exist", tmp, "ai")
	if got != "/does/not/exist" {
		t.Errorf("Resolve = %q, want the override verbatim", got)
	}
}

func TestMarkerAtStart(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	mkdirs(t, tmp, "ai")

	if got := Resolve("", tmp, "ai"); got != tmp {
		t.Errorf("Resolve = %q, want %q", got, tmp)
	}
}

func TestMarkerFourLevelsUp(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	mkdirs(t, tmp, "ai")
	start := mkdirs(t, tmp, "a", "b", "c", "d")

	// The walk checks the start directory plus four ancestors, so a
	// marker four levels up is the last one still in range.
	if got := Resolve("", start, "ai"); got != tmp {
		t.Errorf("Resolve = %q, want %q", got, tmp)
	}
}

func TestMarkerBeyondBoundFallsBack(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	mkdirs(t, tmp, "ai")
	start := mkdirs(t, tmp, "a", "b", "c", "d", "e")

	// The marker sits five levels up, one past the walk bound. The
	// fallback is the ancestor exactly three levels above the start.
	want := filepath.Join(tmp, "a", "b")
	if got := Resolve("", start, "ai"); got != want {
		t.Errorf("Resolve = %q, want fallback %q", got, want)
	}
}

func TestMarkerFileDoesNotCount(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	start := mkdirs(t, tmp, "a", "b", "c", "d", "e")
	if err := os.WriteFile(filepath.Join(start, "ai"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(tmp, "a", "b")
	if got := Resolve("", start, "ai"); got != want {
		t.Errorf("Resolve = %q, want fallback %q (a plain file is not a marker)", got, want)
	}
}

func TestFallbackChainUnavailable(t *testing.T) {
	t.Parallel()
	// Starting at the filesystem root there are no ancestors at all, so
	// resolution degrades to the start directory itself.
	if got := Resolve("", "/", "no-such-marker-dir"); got != "/" {
		t.Errorf("Resolve = %q, want %q", got, "/")
	}
}

func TestFallbackChainTooShort(t *testing.T) {
	t.Parallel()
	// Two levels of ancestry exist but not three; the start wins.
	if got := Resolve("", "/no-such-dir-for-launcher-test", "no-such-marker"); got != "/no-such-dir-for-launcher-test" {
		t.Errorf("Resolve = %q, want the start directory", got)
	}
}

func TestStartDirNeverEmpty(t *testing.T) {
	t.Parallel()
	if StartDir() == "" {
		t.Error("StartDir returned an empty path")
	}
}
