package daemon

import (
	"context"
	"fmt"
	"path/filepath"
	"stampmove/internal/config"
	"stampmove/internal/logger"
	"stampmove/internal/model"
	"stampmove/internal/pipeline"
	"stampmove/internal/relocator"
	"stampmove/internal/watcher"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder persists handled events. A nil Recorder disables history.
type Recorder interface {
	Save(sessionID string, result model.RelocateResult) error
}

type JobManager struct {
	mu       sync.RWMutex
	jobs     map[uint]*JobState
	nextID   uint
	cfg      *config.Config
	recorder Recorder
	now      func() time.Time
}

func NewJobManager(cfg *config.Config, recorder Recorder) *JobManager {
	return &JobManager{
		jobs:     make(map[uint]*JobState),
		cfg:      cfg,
		recorder: recorder,
		now:      time.Now,
	}
}

// StartJob subscribes to root and starts relocating files created below it.
// Errors are returned before any event is handled.
func (m *JobManager) StartJob(root string) (*JobState, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid watch path: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, state := range m.jobs {
		if state.Root == absRoot {
			return nil, fmt.Errorf("%s is already being watched by job %d", absRoot, state.JobID)
		}
	}

	opts := m.cfg.RelocatorOptions()
	opts.Now = m.now
	r, err := relocator.New(opts)
	if err != nil {
		return nil, fmt.Errorf("invalid relocation settings: %w", err)
	}

	w, err := watcher.New(m.cfg.BufferSize)
	if err != nil {
		return nil, err
	}

	if err := w.Watch(absRoot); err != nil {
		w.Stop()
		return nil, err
	}

	m.nextID++
	state := NewJobState(m.nextID, uuid.NewString(), absRoot)

	ctx, cancel := context.WithCancel(context.Background())
	state.cancel = cancel

	m.jobs[state.JobID] = state
	go m.runPipeline(ctx, state, w, r)

	logger.Log.Info("job started",
		zap.Uint("id", state.JobID),
		zap.String("session", state.SessionID),
		zap.String("root", absRoot),
		zap.String("subfolder", r.Subfolder()))

	return state, nil
}

func (m *JobManager) runPipeline(ctx context.Context, state *JobState, w *watcher.Watcher, r *relocator.Relocator) {
	filteredCh := pipeline.Filter(w.Events(), m.cfg.IgnoreList, r.Subfolder())
	resultCh := r.Run(ctx, filteredCh)

	for result := range resultCh {
		state.Record(result)

		if m.recorder == nil || result.Skipped {
			continue
		}
		if err := m.recorder.Save(state.SessionID, result); err != nil {
			logger.Log.Warn("failed to save history",
				zap.String("path", result.SrcPath),
				zap.Error(err))
		}
	}

	// Run has returned, so no handler is in flight. Release the
	// subscription and drain what the filter still holds.
	w.Stop()
	for range filteredCh {
	}

	state.SetStatus(model.JobStatusStopped)

	m.mu.Lock()
	delete(m.jobs, state.JobID)
	m.mu.Unlock()

	snap := state.Snapshot()
	logger.Log.Info("job stopped",
		zap.Uint("id", snap.JobID),
		zap.String("root", snap.Root),
		zap.Int("relocated", snap.Relocated),
		zap.Int("failed", snap.Failed),
		zap.Int("deleted", snap.Deleted))

	close(state.doneCh)
}

// StopJob stops accepting events for the job, lets the event being handled
// finish and returns once the job's goroutines have exited.
func (m *JobManager) StopJob(id uint) error {
	m.mu.RLock()
	state, exists := m.jobs[id]
	m.mu.RUnlock()

	if !exists {
		return fmt.Errorf("job %d not found", id)
	}

	state.cancel()
	<-state.doneCh
	return nil
}

func (m *JobManager) StopAll() {
	m.mu.RLock()
	ids := make([]uint, 0, len(m.jobs))
	for id := range m.jobs {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		_ = m.StopJob(id)
	}
}

func (m *JobManager) Snapshots() []model.JobSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snaps := make([]model.JobSnapshot, 0, len(m.jobs))
	for _, state := range m.jobs {
		snaps = append(snaps, state.Snapshot())
	}

	return snaps
}
