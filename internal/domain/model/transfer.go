package model

import "time"

type JobState string

const (
	JobStatePending      JobState = "pending"
	JobStateScraping     JobState = "scraping"
	JobStateTransferring JobState = "transferring"
	JobStateCompleted    JobState = "completed"
	JobStateCancelled    JobState = "cancelled"
	JobStateFatal        JobState = "fatal"
)

// Terminal reports whether the state ends a job's lifecycle.
func (s JobState) Terminal() bool {
	switch s {
	case JobStateCompleted, JobStateCancelled, JobStateFatal:
		return true
	}
	return false
}

type OutcomeClass string

const (
	OutcomeSucceeded OutcomeClass = "succeeded"
	OutcomeSkipped   OutcomeClass = "skipped"
	OutcomeFailed    OutcomeClass = "failed"
)

type OutcomeReason string

const (
	ReasonNone              OutcomeReason = ""
	ReasonAlreadyMember     OutcomeReason = "already-member"
	ReasonPrivacyRestricted OutcomeReason = "privacy-restricted"
	ReasonFloodWait         OutcomeReason = "flood-wait"
	ReasonUnknown           OutcomeReason = "unknown-error"
)

// Outcome is the terminal per-member result of one invite attempt.
// Every scraped member gets exactly one.
type Outcome struct {
	Member Member
	Class  OutcomeClass
	Reason OutcomeReason
	Detail string
}

// TransferRequest is the validated input the setup flow produces and
// StartTransfer consumes.
type TransferRequest struct {
	RequesterID int64
	ReplyChatID int64
	Source      GroupRef
	Target      GroupRef
}

// Snapshot is a read-only view of a running job, safe to hand to the
// progress reporter and the admin API while the job keeps mutating.
type Snapshot struct {
	JobID        string    `json:"job_id"`
	RequesterID  int64     `json:"requester_id"`
	State        JobState  `json:"state"`
	TotalScraped int       `json:"total_scraped"`
	Processed    int       `json:"processed"`
	Succeeded    int       `json:"succeeded"`
	Skipped      int       `json:"skipped"`
	Failed       int       `json:"failed"`
	StartedAt    time.Time `json:"started_at"`
}

// Summary is the final statistics delivered to the requester when a job
// reaches Completed, Cancelled or Fatal.
type Summary struct {
	JobID        string
	State        JobState
	TotalScraped int
	Succeeded    int
	Skipped      int
	Failed       int
	Duration     time.Duration
	FatalError   string
}

// Started reports whether any member was attempted before the job ended,
// distinguishing "never started" from "partially completed".
func (s Summary) Started() bool {
	return s.Succeeded+s.Skipped+s.Failed > 0
}
