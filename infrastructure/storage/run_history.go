package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"lyra_automation/domain/entities"
	"lyra_automation/domain/interfaces"
)

const historyFile = "history.json"

type runHistory struct {
	mu          sync.Mutex
	historyPath string
}

// NewRunHistory - creates run history storage under stateDir
func NewRunHistory(stateDir string) (interfaces.Storage, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	return &runHistory{
		historyPath: filepath.Join(stateDir, historyFile),
	}, nil
}

// SaveHistory - saves run history to file
func (s *runHistory) SaveHistory(history []entities.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(history)
}

// LoadHistory - loads run history from file
func (s *runHistory) LoadHistory() ([]entities.RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// AppendRecord - appends one record to the stored history. A corrupt
// history is moved aside and the record starts a fresh one; the returned
// error still wraps interfaces.ErrCorruptHistory so callers can report it.
func (s *runHistory) AppendRecord(record entities.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, loadErr := s.load()
	if loadErr != nil && !errors.Is(loadErr, interfaces.ErrCorruptHistory) {
		return loadErr
	}
	if err := s.save(append(history, record)); err != nil {
		return err
	}
	return loadErr
}

func (s *runHistory) save(history []entities.RunRecord) error {
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.historyPath, data, 0644)
}

func (s *runHistory) load() ([]entities.RunRecord, error) {
	data, err := os.ReadFile(s.historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []entities.RunRecord{}, nil
		}
		return nil, err
	}

	var history []entities.RunRecord
	if err := json.Unmarshal(data, &history); err != nil {
		backup := s.historyPath + ".corrupt-" + time.Now().Format("20060102T150405")
		if renameErr := os.Rename(s.historyPath, backup); renameErr != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", s.historyPath, err)
		}
		return nil, fmt.Errorf("%w: %s moved to %s: %v", interfaces.ErrCorruptHistory, s.historyPath, backup, err)
	}

	return history, nil
}
