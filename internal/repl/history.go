package repl

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// History keeps the commands entered in a session. Empty lines and immediate
// repeats are skipped; the oldest entries are dropped past the size limit.
type History struct {
	entries []string
	max     int
}

// NewHistory creates a history with the given size limit.
func NewHistory(max int) *History {
	if max <= 0 {
		max = 1000
	}
	return &History{max: max}
}

// Add records a command.
func (h *History) Add(command string) {
	if command == "" {
		return
	}
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == command {
		return
	}
	h.entries = append(h.entries, command)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

// Entries returns the recorded commands, oldest first.
func (h *History) Entries() []string {
	return h.entries
}

// Len returns the number of recorded commands.
func (h *History) Len() int {
	return len(h.entries)
}

// LoadHistory reads persisted history from path. A missing file yields an
// empty history.
func LoadHistory(path string, max int) (*History, error) {
	h := NewHistory(max)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, err
	}

	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	for _, e := range entries {
		h.Add(e)
	}
	return h, nil
}

// Save writes the history to path as JSON.
func (h *History) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(h.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}

	return nil
}
