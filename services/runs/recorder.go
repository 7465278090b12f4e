package runs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wanderplan/models"
)

// Recorder folds the events of one run into a snapshot and persists it after every
// transition. Persistence failures are logged and never interrupt the run.
type Recorder struct {
	store    Store
	snapshot *models.RunSnapshot
	logger   *zap.Logger
}

func NewRecorder(store Store, runID string, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		store:    store,
		snapshot: models.NewRunSnapshot(runID),
		logger:   logger,
	}
}

// Start persists the initial snapshot so the run is visible before its first event.
func (r *Recorder) Start(ctx context.Context) error {
	return r.store.Save(ctx, r.snapshot)
}

// Observe has the shape of a pipeline observer.
func (r *Recorder) Observe(ev models.StageEvent) {
	r.snapshot.Apply(ev)

	// The run's own context may be gone by the time the terminal event is written.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.store.Save(ctx, r.snapshot); err != nil {
		r.logger.Warn("Failed to persist run snapshot",
			zap.String("run_id", r.snapshot.RunID),
			zap.String("stage", string(ev.Stage)),
			zap.String("state", string(ev.State)),
			zap.Error(err),
		)
	}
}

func (r *Recorder) Snapshot() *models.RunSnapshot {
	return r.snapshot
}
