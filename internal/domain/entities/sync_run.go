package entities

import (
	"time"
)

// Sync run states.
const (
	SyncStatusRunning   = "running"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

// SyncRun is the durable status record for one ingestion job. The trigger
// endpoint responds before the job finishes; this record is what callers poll
// afterwards.
type SyncRun struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	Locations  []string   `json:"locations"`
	Counts     SyncCounts `json:"counts"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// SyncCounts accumulates per-run ingestion outcomes. Per-item failures land
// in Errors and never abort the run.
type SyncCounts struct {
	Processed         int `json:"processed"`
	FacilitiesCreated int `json:"facilities_created"`
	FacilitiesUpdated int `json:"facilities_updated"`
	ResourcesCreated  int `json:"resources_created"`
	ResourcesUpdated  int `json:"resources_updated"`
	Skipped           int `json:"skipped"`
	Errors            int `json:"errors"`
}
