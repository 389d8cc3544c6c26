package daemon

import (
	"context"
	"stampmove/internal/model"
	"sync"
	"time"
)

type JobState struct {
	mu           sync.RWMutex
	JobID        uint
	SessionID    string
	Root         string
	Status       model.JobStatus
	StartedAt    time.Time
	Relocated    int
	Failed       int
	Deleted      int
	LastActivity *time.Time

	cancel context.CancelFunc
	doneCh chan struct{}
}

func NewJobState(id uint, sessionID, root string) *JobState {
	return &JobState{
		JobID:     id,
		SessionID: sessionID,
		Root:      root,
		Status:    model.JobStatusWatching,
		StartedAt: time.Now(),
		doneCh:    make(chan struct{}),
	}
}

func (s *JobState) Record(result model.RelocateResult) {
	if result.Skipped {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastActivity = new(time.Now())
	switch {
	case result.Err != nil:
		s.Failed++
	case result.Event.Type == model.EventDeleted:
		s.Deleted++
	default:
		s.Relocated++
	}
}

func (s *JobState) SetStatus(status model.JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = status
}

func (s *JobState) Snapshot() model.JobSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return model.JobSnapshot{
		JobID:        s.JobID,
		SessionID:    s.SessionID,
		Root:         s.Root,
		Status:       s.Status,
		StartedAt:    s.StartedAt,
		Relocated:    s.Relocated,
		Failed:       s.Failed,
		Deleted:      s.Deleted,
		LastActivity: s.LastActivity,
	}
}

// Done is closed once the job has fully stopped.
func (s *JobState) Done() <-chan struct{} {
	return s.doneCh
}
