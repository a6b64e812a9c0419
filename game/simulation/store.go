package simulation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrResultNotFound = errors.New("simulation result not found")
	ErrInvalidID      = errors.New("invalid simulation id")
)

// ResultStore defines the interface for persisting simulation reports
type ResultStore interface {
	// Save persists a report
	Save(report *Report) error

	// Load retrieves a report by ID
	Load(id string) (*Report, error)

	// Delete removes a report
	Delete(id string) error

	// ListAll returns all stored report IDs
	ListAll() ([]string, error)

	// Exists checks if a report is stored
	Exists(id string) bool
}

// FileStore implements ResultStore with one indented JSON file per report
type FileStore struct {
	dir string
}

// NewFileStore creates the results directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the results directory
func (fs *FileStore) Dir() string {
	return fs.dir
}

// Save writes the report to <dir>/<id>.json
func (fs *FileStore) Save(report *Report) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}
	filePath, err := fs.path(report.ID)
	if err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// Load reads a report file
func (fs *FileStore) Load(id string) (*Report, error) {
	filePath, err := fs.path(id)
	if err != nil {
		return nil, err
	}

	jsonData, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrResultNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var report Report
	if err := json.Unmarshal(jsonData, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// Delete removes a report file
func (fs *FileStore) Delete(id string) error {
	filePath, err := fs.path(id)
	if err != nil {
		return err
	}
	if !fs.Exists(id) {
		return fmt.Errorf("%w: %s", ErrResultNotFound, id)
	}
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to remove report file: %w", err)
	}
	return nil
}

// ListAll returns the IDs of every stored report, sorted
func (fs *FileStore) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Exists checks if a report file exists
func (fs *FileStore) Exists(id string) bool {
	filePath, err := fs.path(id)
	if err != nil {
		return false
	}
	_, err = os.Stat(filePath)
	return err == nil
}

// path maps an ID to its file. Only UUIDs are accepted so IDs cannot escape the directory.
func (fs *FileStore) path(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(fs.dir, parsed.String()+".json"), nil
}
