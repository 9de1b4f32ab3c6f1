package models

import "github.com/google/uuid"

// Checkpoint is an archived turn-start snapshot of a run.
type Checkpoint struct {
	RunID     uuid.UUID `json:"run_id"`
	Level     int       `json:"level"`
	Turn      int       `json:"turn"`
	Timestamp int64     `json:"timestamp"`
	// Data is the encoded snapshot
	Data []byte `json:"-"`
}
