package scheduler

import (
	"context"
	"time"

	"booking_portal_backend/internal/booking/domain"
	"booking_portal_backend/internal/booking/syncer"
	"booking_portal_backend/platform/config"
	"booking_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

const defaultConcurrency = 10

// DraftSyncer reconciles open drafts against the booking backend.
type DraftSyncer interface {
	Sync(ctx context.Context) (syncer.Result, error)
}

// DraftStore is the subset of draft storage the worker needs for cleanup.
type DraftStore interface {
	List(ctx context.Context) []domain.BookingDraft
	Delete(ctx context.Context, id string) bool
}

// Worker processes booking maintenance tasks.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	syncer    DraftSyncer
	store     DraftStore
	retention time.Duration
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, drafts DraftSyncer, store DraftStore, log *logger.Logger) (*Worker, error) {
	opt, queue, err := connection(cfg)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: defaultConcurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		syncer:    drafts,
		store:     store,
		retention: cfg.GetDraftRetention(),
		log:       log,
	}

	mux.HandleFunc(TaskDraftSync, w.handleDraftSync)
	mux.HandleFunc(TaskDraftCleanup, w.handleDraftCleanup)

	return w, nil
}

func (w *Worker) handleDraftSync(ctx context.Context, _ *asynq.Task) error {
	result, err := w.syncer.Sync(ctx)
	if err != nil {
		return err
	}
	w.log.Info("draft sync completed",
		"scanned", result.Scanned,
		"completed", result.Completed,
	)
	return nil
}

func (w *Worker) handleDraftCleanup(ctx context.Context, _ *asynq.Task) error {
	if w.retention <= 0 {
		return nil
	}

	cutoff := time.Now().Add(-w.retention)
	removed := 0
	for _, draft := range w.store.List(ctx) {
		// Open drafts persist until the user deletes or completes them;
		// only completed ones age out.
		if draft.Status != domain.DraftStatusCompleted {
			continue
		}
		if !draft.UpdatedAt.Before(cutoff) {
			continue
		}
		if w.store.Delete(ctx, draft.ID) {
			removed++
		}
	}
	if removed > 0 {
		w.log.Info("stale drafts removed", "count", removed, "cutoff", cutoff.Format(time.RFC3339))
	}
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
