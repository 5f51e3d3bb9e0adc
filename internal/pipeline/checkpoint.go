package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Checkpoint appends per-vendor results to a JSON-lines file as each stage
// completes, so an aborted run does not discard the model calls that already
// finished. A nil *Checkpoint is valid and records nothing.
type Checkpoint struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

type checkpointLine struct {
	TS      time.Time `json:"ts"`
	Stage   string    `json:"stage"`
	Vendor  string    `json:"vendor,omitempty"`
	Payload any       `json:"payload,omitempty"`
}

// NewCheckpoint creates checkpoint_<runID>.jsonl in dir.
func NewCheckpoint(dir, runID string) (*Checkpoint, error) {
	path := filepath.Join(dir, fmt.Sprintf("checkpoint_%s.jsonl", runID))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("NewCheckpoint: create %s: %w", path, err)
	}
	return &Checkpoint{f: f, path: path}, nil
}

// Path returns the checkpoint file location.
func (c *Checkpoint) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Append writes one checkpoint line. Safe for concurrent use by the
// enrichment workers.
func (c *Checkpoint) Append(stage, vendor string, payload any) error {
	if c == nil {
		return nil
	}

	line, err := json.Marshal(checkpointLine{
		TS:      time.Now(),
		Stage:   stage,
		Vendor:  vendor,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("checkpoint append: marshal: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("checkpoint append: write: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (c *Checkpoint) Close() error {
	if c == nil {
		return nil
	}
	return c.f.Close()
}
