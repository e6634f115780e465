// Package evallog appends evaluation records to a JSONL file, one JSON object
// per line. The file is append-only and never rewritten.
package evallog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Writer serializes records to a JSONL file. Safe for concurrent use.
type Writer struct {
	path   string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewWriter creates a writer targeting the given path. The parent directory is
// created if missing.
func NewWriter(path string, logger zerolog.Logger) (*Writer, error) {
	if path == "" {
		return nil, fmt.Errorf("evaluation log path is required")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	return &Writer{
		path:   path,
		logger: logger.With().Str("component", "evallog").Logger(),
	}, nil
}

// Append marshals the record and writes it as a single line.
func (w *Writer) Append(record any) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal log record: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open evaluation log: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append evaluation log: %w", err)
	}

	w.logger.Debug().Str("path", w.path).Msg("evaluation record appended")
	return nil
}
