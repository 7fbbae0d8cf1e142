package usecase

import "sync"

// JobRegistry is the process-wide table of in-flight transfer jobs, keyed by
// requester. It enforces at most one active job per requester and is the only
// structure shared between concurrently running jobs.
type JobRegistry struct {
	mu   sync.Mutex
	jobs map[int64]*Job
}

func NewJobRegistry() *JobRegistry {
	return &JobRegistry{jobs: make(map[int64]*Job)}
}

// TryRegister registers job for its requester. It returns false, registering
// nothing, if the requester already has an active job.
func (r *JobRegistry) TryRegister(requesterID int64, job *Job) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[requesterID]; exists {
		return false
	}
	r.jobs[requesterID] = job
	return true
}

func (r *JobRegistry) Get(requesterID int64) (*Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[requesterID]
	return job, ok
}

// Lookup finds a job by its id. Used by the admin API, which identifies jobs
// by id rather than requester.
func (r *JobRegistry) Lookup(jobID string) (*Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, job := range r.jobs {
		if job.ID == jobID {
			return job, true
		}
	}
	return nil, false
}

func (r *JobRegistry) Deregister(requesterID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, requesterID)
}

// Cancel signals the requester's active job, if any. It reports whether a job
// was signalled.
func (r *JobRegistry) Cancel(requesterID int64) bool {
	r.mu.Lock()
	job, ok := r.jobs[requesterID]
	r.mu.Unlock()
	if !ok {
		return false
	}
	job.Cancel()
	return true
}

func (r *JobRegistry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}
