// Package workroot locates the project working root the service core runs
// from. Resolution is a best-effort heuristic and never fails; if the
// returned path is wrong the subsequent spawn fails instead.
package workroot

import (
	"os"
	"path/filepath"
)

const (
	// walkBound is how many directories the marker search inspects,
	// counting the start directory itself.
	walkBound = 5

	// fallbackDepth is how many levels above the start directory the
	// fallback root sits when no marker is found.
	fallbackDepth = 3
)

// Resolve returns the working root directory.
//
// If override is non-empty it is returned verbatim, with no filesystem
// access. Otherwise the walk starts at start and moves upward, returning
// the first directory that contains a subdirectory named marker. If no
// directory within the bound qualifies, the ancestor fallbackDepth levels
// above start is returned, or start itself when the parent chain runs out.
func Resolve(override, start, marker string) string {
	if override != "" {
		return override
	}

	dir := start
	for i := 0; i < walkBound; i++ {
		if hasDir(dir, marker) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	dir = start
	for i := 0; i < fallbackDepth; i++ {
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
	return dir
}

// StartDir returns the directory the launcher binary lives in, falling
// back to the current working directory when the executable path is
// unavailable.
func StartDir() string {
	exe, err := os.Executable()
	if err != nil {
		wd, werr := os.Getwd()
		if werr != nil {
			return "."
		}
		return wd
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func hasDir(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && info.IsDir()
}
