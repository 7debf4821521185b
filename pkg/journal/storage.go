package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const (
	DefaultStorageFileName = ".swap-supply-runs.json"
	// DefaultLimit bounds how many records are kept on disk
	DefaultLimit = 200
)

// Record is the audit entry of one finished run. Records are never used to resume a run.
type Record struct {
	RunID    string            `json:"run_id"`
	Started  time.Time         `json:"started"`
	Finished time.Time         `json:"finished"`
	State    string            `json:"state"`
	FailedIn string            `json:"failed_in,omitempty"`
	Input    string            `json:"input,omitempty"`
	Output   string            `json:"output,omitempty"`
	Txs      map[string]string `json:"txs,omitempty"` // state left -> tx hash
	Error    string            `json:"error,omitempty"`
}

// Storage keeps run records in a single JSON file
type Storage struct {
	filePath string
	limit    int
	mu       sync.RWMutex
	records  []*Record
}

// file is the JSON layout on disk
type file struct {
	Runs []*Record `json:"runs"`
}

// NewStorage opens the journal at filePath, defaulting to the home directory
func NewStorage(filePath string) (*Storage, error) {
	if filePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		filePath = filepath.Join(home, DefaultStorageFileName)
	}

	s := &Storage{
		filePath: filePath,
		limit:    DefaultLimit,
	}

	if err := s.load(); err != nil {
		// created on first save
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load runs: %w", err)
		}
	}

	return s, nil
}

func (s *Storage) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to unmarshal runs: %w", err)
	}

	s.records = f.Runs
	return nil
}

// save writes records to disk; the caller holds the lock
func (s *Storage) save() error {
	data, err := json.MarshalIndent(file{Runs: s.records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal runs: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// write then rename so a crash never leaves a truncated file
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}

	if err := os.Rename(tempFile, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Append adds a record, dropping the oldest ones beyond the limit
func (s *Storage) Append(record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.RunID == record.RunID {
			return fmt.Errorf("run '%s' already recorded", record.RunID)
		}
	}

	s.records = append(s.records, record)
	if len(s.records) > s.limit {
		s.records = s.records[len(s.records)-s.limit:]
	}

	return s.save()
}

// Get retrieves a record by run ID
func (s *Storage) Get(runID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.RunID == runID {
			return r, nil
		}
	}

	return nil, fmt.Errorf("run '%s' not found", runID)
}

// List returns records newest first
func (s *Storage) List() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*Record, len(s.records))
	copy(records, s.records)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Finished.After(records[j].Finished)
	})

	return records
}

// Count returns the number of stored records
func (s *Storage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// GetFilePath returns the storage file path
func (s *Storage) GetFilePath() string {
	return s.filePath
}
