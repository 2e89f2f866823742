// Package testutil holds test doubles shared across packages.
package testutil

import (
	"strings"
	"sync"
)

// Log is a hal.Logger that keeps every line.
type Log struct {
	mu    sync.Mutex
	lines []string
}

func (l *Log) WriteLineString(s string) {
	l.mu.Lock()
	l.lines = append(l.lines, s)
	l.mu.Unlock()
}

func (l *Log) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

// Lines returns a copy of the lines logged so far.
func (l *Log) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// Contains reports whether any line contains sub.
func (l *Log) Contains(sub string) bool {
	for _, line := range l.Lines() {
		if strings.Contains(line, sub) {
			return true
		}
	}
	return false
}
