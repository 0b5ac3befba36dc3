package scheduler

import (
	"context"
	"testing"
	"time"

	"booking_portal_backend/internal/booking/domain"
	"booking_portal_backend/internal/booking/syncer"
	"booking_portal_backend/platform/logger"
)

type fakeSyncer struct {
	result syncer.Result
	err    error
	calls  int
}

func (f *fakeSyncer) Sync(context.Context) (syncer.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakeStore struct {
	drafts  []domain.BookingDraft
	deleted []string
}

func (f *fakeStore) List(context.Context) []domain.BookingDraft { return f.drafts }

func (f *fakeStore) Delete(_ context.Context, id string) bool {
	f.deleted = append(f.deleted, id)
	return true
}

func TestDraftCleanupRemovesOnlyStaleCompletedDrafts(t *testing.T) {
	now := time.Now()
	store := &fakeStore{drafts: []domain.BookingDraft{
		{ID: "draft_done_old", Status: domain.DraftStatusCompleted, UpdatedAt: now.Add(-48 * time.Hour)},
		{ID: "draft_done_fresh", Status: domain.DraftStatusCompleted, UpdatedAt: now.Add(-time.Hour)},
		{ID: "draft_open_old", Status: domain.DraftStatusDraft, UpdatedAt: now.Add(-48 * time.Hour)},
	}}
	w := &Worker{
		store:     store,
		retention: 24 * time.Hour,
		log:       logger.New("development"),
	}

	if err := w.handleDraftCleanup(context.Background(), nil); err != nil {
		t.Fatalf("cleanup returned error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "draft_done_old" {
		t.Fatalf("expected only draft_done_old removed, got %v", store.deleted)
	}
}

func TestDraftCleanupDisabledWithoutRetention(t *testing.T) {
	store := &fakeStore{drafts: []domain.BookingDraft{
		{ID: "draft_old", Status: domain.DraftStatusCompleted, UpdatedAt: time.Now().Add(-1000 * time.Hour)},
	}}
	w := &Worker{store: store, log: logger.New("development")}

	if err := w.handleDraftCleanup(context.Background(), nil); err != nil {
		t.Fatalf("cleanup returned error: %v", err)
	}
	if len(store.deleted) != 0 {
		t.Fatalf("expected no deletions with zero retention, got %v", store.deleted)
	}
}

func TestDraftSyncPropagatesResult(t *testing.T) {
	fs := &fakeSyncer{result: syncer.Result{Scanned: 3, Completed: 1}}
	w := &Worker{syncer: fs, log: logger.New("development")}

	if err := w.handleDraftSync(context.Background(), nil); err != nil {
		t.Fatalf("sync returned error: %v", err)
	}
	if fs.calls != 1 {
		t.Fatalf("expected one sync call, got %d", fs.calls)
	}
}
