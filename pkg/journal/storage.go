package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultStorageFileName = ".jup-swap-journal.json"
)

// ErrNotFound is returned when no entry carries the requested signature
var ErrNotFound = errors.New("not found in journal")

// Status is the outcome of a submitted transaction as last observed
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
)

// Entry records one submission made by a flow
type Entry struct {
	ID         string    `json:"id"`
	Flow       string    `json:"flow"`
	InputMint  string    `json:"input_mint,omitempty"`
	OutputMint string    `json:"output_mint,omitempty"`
	InAmount   string    `json:"in_amount,omitempty"`
	OutAmount  string    `json:"out_amount,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	Signature  string    `json:"signature,omitempty"`
	Status     Status    `json:"status"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type fileFormat struct {
	Entries []*Entry `json:"entries"`
}

// Storage persists journal entries to a JSON file
type Storage struct {
	filePath string
	mu       sync.RWMutex
	entries  []*Entry
}

// NewStorage opens the journal at filePath, or ~/.jup-swap-journal.json
// when empty. A missing file is created on first write.
func NewStorage(filePath string) (*Storage, error) {
	if filePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		filePath = filepath.Join(home, DefaultStorageFileName)
	}

	s := &Storage{filePath: filePath}
	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load journal: %w", err)
	}
	return s, nil
}

func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to unmarshal journal: %w", err)
	}
	s.entries = f.Entries
	return nil
}

// save must be called with mu held
func (s *Storage) save() error {
	data, err := json.MarshalIndent(fileFormat{Entries: s.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write to a temp file and rename so readers never see a partial file.
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Record appends e, filling in ID, Timestamp and Status when unset
func (s *Storage) Record(e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.Status == "" {
		e.Status = StatusSubmitted
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e)
	if err := s.save(); err != nil {
		s.entries = s.entries[:len(s.entries)-1]
		return err
	}
	return nil
}

// UpdateStatus sets the status of the entry carrying signature
func (s *Storage) UpdateStatus(signature string, status Status, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.Signature == signature {
			e.Status = status
			e.Error = errMsg
			return s.save()
		}
	}
	return fmt.Errorf("signature '%s': %w", signature, ErrNotFound)
}

// Get returns the entry carrying signature
func (s *Storage) Get(signature string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.Signature == signature {
			cp := *e
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("signature '%s': %w", signature, ErrNotFound)
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Storage) List(limit int) []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		cp := *e
		entries = append(entries, &cp)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Count returns the number of recorded entries
func (s *Storage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetFilePath returns the journal file path
func (s *Storage) GetFilePath() string {
	return s.filePath
}
