package usecase

import (
	"sync"
	"time"

	"telegram-group-transfer/internal/domain/model"
)

// Job is one in-flight member transfer. Its fields are mutated only by the
// single goroutine driving it; everything else reads point-in-time snapshots.
type Job struct {
	ID  string
	Req model.TransferRequest

	mu           sync.Mutex
	state        model.JobState
	outcomes     []model.Outcome
	totalScraped int
	succeeded    int
	skipped      int
	failed       int
	fatalErr     error
	startedAt    time.Time
	finishedAt   time.Time

	cancelOnce sync.Once
	cancelCh   chan struct{}
	done       chan struct{}
}

func NewJob(id string, req model.TransferRequest) *Job {
	return &Job{
		ID:       id,
		Req:      req,
		state:    model.JobStatePending,
		cancelCh: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Cancel requests cooperative cancellation. Safe to call from any goroutine
// and more than once; the driving loop observes it between invite attempts,
// never mid-call.
func (j *Job) Cancel() {
	j.cancelOnce.Do(func() { close(j.cancelCh) })
}

func (j *Job) cancelRequested() bool {
	select {
	case <-j.cancelCh:
		return true
	default:
		return false
	}
}

// Done is closed once the final summary has been delivered and the job has
// been deregistered.
func (j *Job) Done() <-chan struct{} { return j.done }

func (j *Job) beginScraping() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state = model.JobStateScraping
	j.startedAt = time.Now()
}

func (j *Job) beginTransferring(total int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.totalScraped = total
	j.state = model.JobStateTransferring
}

func (j *Job) record(out model.Outcome) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.outcomes = append(j.outcomes, out)
	switch out.Class {
	case model.OutcomeSucceeded:
		j.succeeded++
	case model.OutcomeSkipped:
		j.skipped++
	case model.OutcomeFailed:
		j.failed++
	}
}

// complete marks the job Completed if it is still transferring; terminal
// states reached earlier (Cancelled, Fatal) are left untouched.
func (j *Job) complete() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != model.JobStateTransferring {
		return
	}
	j.state = model.JobStateCompleted
	j.finishedAt = time.Now()
}

func (j *Job) cancelTerminal() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() {
		return
	}
	j.state = model.JobStateCancelled
	j.finishedAt = time.Now()
}

func (j *Job) fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() {
		return
	}
	j.state = model.JobStateFatal
	j.fatalErr = err
	j.finishedAt = time.Now()
}

func (j *Job) State() model.JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

func (j *Job) Snapshot() model.Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return model.Snapshot{
		JobID:        j.ID,
		RequesterID:  j.Req.RequesterID,
		State:        j.state,
		TotalScraped: j.totalScraped,
		Processed:    len(j.outcomes),
		Succeeded:    j.succeeded,
		Skipped:      j.skipped,
		Failed:       j.failed,
		StartedAt:    j.startedAt,
	}
}

func (j *Job) Summary() model.Summary {
	j.mu.Lock()
	defer j.mu.Unlock()
	end := j.finishedAt
	if end.IsZero() {
		end = time.Now()
	}
	sum := model.Summary{
		JobID:        j.ID,
		State:        j.state,
		TotalScraped: j.totalScraped,
		Succeeded:    j.succeeded,
		Skipped:      j.skipped,
		Failed:       j.failed,
		Duration:     end.Sub(j.startedAt),
	}
	if j.fatalErr != nil {
		sum.FatalError = j.fatalErr.Error()
	}
	return sum
}

// Outcomes returns a copy of the per-member results recorded so far.
func (j *Job) Outcomes() []model.Outcome {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]model.Outcome, len(j.outcomes))
	copy(out, j.outcomes)
	return out
}
