package model

import "time"

// TransferRun is the persisted record of one transfer job. It exists for
// auditing only: runs are not resumed across restarts.
type TransferRun struct {
	ID           string
	JobID        string
	RequesterID  int64
	Source       string
	Target       string
	State        JobState
	TotalScraped int
	Succeeded    int
	Skipped      int
	Failed       int
	StartedAt    time.Time
	FinishedAt   *time.Time
}
