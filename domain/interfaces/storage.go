package interfaces

import (
	"errors"

	"lyra_automation/domain/entities"
)

// ErrCorruptHistory is returned when stored history could not be decoded.
// The unreadable file is moved aside and history starts over.
var ErrCorruptHistory = errors.New("run history is corrupt")

// Storage defines the interface for run history persistence
type Storage interface {
	// SaveHistory replaces the stored run history
	SaveHistory(history []entities.RunRecord) error

	// LoadHistory loads the stored run history
	LoadHistory() ([]entities.RunRecord, error)

	// AppendRecord adds one record to the stored history
	AppendRecord(record entities.RunRecord) error
}
