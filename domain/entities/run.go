package entities

import "time"

// RunRecord represents one scenario execution
type RunRecord struct {
	ID       string        `json:"id"`
	Scenario string        `json:"scenario"`
	Status   RunStatus     `json:"status"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
	Artifact string        `json:"artifact,omitempty"`
}

// RunStatus represents the outcome of a scenario
type RunStatus string

const (
	RunStatusPending RunStatus = "pending"
	RunStatusRunning RunStatus = "running"
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
)
