// Package logbuf buffers the tail of a child process's output so startup
// failures can be diagnosed after the fact.
package logbuf

import (
	"bytes"
	"sync"
)

// Ring is a thread-safe buffer keeping the last N complete lines written
// to it. It implements io.Writer so it can serve directly as a process's
// stdout/stderr.
type Ring struct {
	mu      sync.Mutex
	max     int
	lines   []string
	partial bytes.Buffer
}

// New creates a ring that retains the last n lines.
func New(n int) *Ring {
	if n <= 0 {
		n = 1
	}
	return &Ring{max: n}
}

// Write implements io.Writer. Input is split on newlines; an incomplete
// trailing line is held back until its newline arrives.
func (r *Ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.partial.Write(p)
	for {
		data := r.partial.Bytes()
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		line := string(data[:i])
		r.partial.Next(i + 1)
		r.lines = append(r.lines, line)
	}

	if excess := len(r.lines) - r.max; excess > 0 {
		r.lines = append(r.lines[:0], r.lines[excess:]...)
	}
	return len(p), nil
}

// Lines returns the buffered lines, oldest first.
func (r *Ring) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Last returns the most recent n lines, or everything if fewer exist.
func (r *Ring) Last(n int) []string {
	all := r.Lines()
	if n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}

// Len reports how many complete lines are buffered.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}
