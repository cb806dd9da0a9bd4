// Package csvtelemetry appends the per-week resource ledger to a CSV file.
package csvtelemetry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"shelterverse/internal/app/ports"

	"github.com/gocarina/gocsv"
)

type Sink struct {
	mu            sync.Mutex
	file          *os.File
	headerWritten bool
}

// Open appends to path, creating it and its directory if needed. The header
// row is only written to an empty file.
func Open(path string) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return &Sink{file: f, headerWritten: info.Size() > 0}, nil
}

func (s *Sink) Record(_ context.Context, rows []ports.TelemetryRow) error {
	if s == nil || len(rows) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.headerWritten {
		if err := gocsv.Marshal(rows, s.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		s.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, s.file); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

func (s *Sink) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
