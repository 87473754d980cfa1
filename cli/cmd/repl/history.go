package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"iter"
	"os"
	"slices"
	"strings"
	"sync"
)

// HistoryFile is the base name of the history file in the cache directory.
const HistoryFile = "history.utf8"

// Each persisted line is prefixed with the mode it was entered in.
const (
	evalTag = "E:"
	ctrlTag = "C:"
)

// HistoryEntry is a single line of input with the mode it was entered in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

func (e HistoryEntry) encode() string {
	if e.Mode == modeCtrl {
		return ctrlTag + e.Line + "\n"
	}

	return evalTag + e.Line + "\n"
}

func decodeHistoryEntry(s string) HistoryEntry {
	if line, ok := strings.CutPrefix(s, ctrlTag); ok {
		return HistoryEntry{Line: line, Mode: modeCtrl}
	}

	// Untagged lines are treated as statements.
	line, _ := strings.CutPrefix(s, evalTag)

	return HistoryEntry{Line: line, Mode: modeEval}
}

// History is the input history shared by the interactive front ends.
// An empty path keeps history in memory only.
type History struct {
	mu      sync.RWMutex
	path    string
	entries []HistoryEntry
}

// NewHistory returns an empty history persisted at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries of h with those stored in its file.
// A missing file is not an error.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	h.entries = h.entries[:0]

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		h.entries = append(h.entries, decodeHistoryEntry(line))
	}

	return scanner.Err()
}

// Add appends line entered in mode. An earlier identical entry is moved to
// the end rather than repeated.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	entry := HistoryEntry{Line: line, Mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	i := slices.Index(h.entries, entry)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}

	h.entries = append(h.entries, entry)

	if h.path == "" {
		return nil
	}

	if i >= 0 {
		return h.rewrite()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(entry.encode())

	return err
}

// Entry returns the entry at index i, where index 0 is the oldest.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries in h.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Lines returns an iterator over the lines entered in mode, oldest first.
func (h *History) Lines(mode inputMode) iter.Seq[string] {
	return func(yield func(string) bool) {
		h.mu.RLock()
		entries := slices.Clone(h.entries)
		h.mu.RUnlock()

		for _, e := range entries {
			if e.Mode == mode && !yield(e.Line) {
				return
			}
		}
	}
}

// rewrite replaces the history file with the current entries.
// Must be called with h.mu held.
func (h *History) rewrite() error {
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	for _, e := range h.entries {
		if _, err := w.WriteString(e.encode()); err != nil {
			return err
		}
	}

	return w.Flush()
}
