package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"tat/internal/discovery"
)

// CSVStorage stores report rows in a CSV file. Appends are serialized by a mutex
// within the process and by an advisory lock file across processes.
type CSVStorage struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// NewCSVStorage returns a Storage that reads/writes the report at path.
func NewCSVStorage(path string) *CSVStorage {
	return &CSVStorage{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the report location
func (s *CSVStorage) Path() string {
	return s.path
}

// Create (re)creates the report with a single header line.
func (s *CSVStorage) Create(header []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock report %s: %w", s.path, err)
	}
	defer s.lock.Unlock()

	if err := os.WriteFile(s.path, []byte(strings.Join(header, ",")+"\n"), 0644); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	return nil
}

// Append escapes every field and appends the row with one write.
func (s *CSVStorage) Append(row []string) error {
	line := FormatRow(row)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock report %s: %w", s.path, err)
	}
	defer s.lock.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("append report row: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}

// Load reads the data rows of the report, skipping the header line.
// Fields keep their surrounding whitespace.
func (s *CSVStorage) Load() ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("read report file: %w", err)
	}
	defer f.Close()

	rows, err := discovery.ParseRowsRaw(f)
	if err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

// FormatRow escapes every field and joins them into one newline-terminated line
func FormatRow(row []string) string {
	fields := make([]string, len(row))
	for i, field := range row {
		fields[i] = Escape(field)
	}
	return strings.Join(fields, ",") + "\n"
}

// Escape wraps s in quotes and doubles embedded quotes
func Escape(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Unescape reverses Escape. Unquoted input is returned unchanged.
func Unescape(s string) string {
	if len(s) < 2 || !strings.HasPrefix(s, `"`) || !strings.HasSuffix(s, `"`) {
		return s
	}
	return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
}
