package syncer

import (
	"context"
	"encoding/json"
	"testing"

	"booking_portal_backend/internal/booking/domain"
	"booking_portal_backend/internal/booking/draftstore"
	"booking_portal_backend/internal/booking/gateway"
	"booking_portal_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeListing struct {
	quotations []map[string]any
	fail       bool
}

func (f *fakeListing) ListAllQuotations(_ context.Context, page, limit int) *gateway.Envelope {
	if f.fail {
		return &gateway.Envelope{Success: false, Message: "backend down"}
	}
	start := (page - 1) * limit
	if start >= len(f.quotations) {
		raw, _ := json.Marshal([]map[string]any{})
		return &gateway.Envelope{Success: true, Data: raw}
	}
	end := start + limit
	if end > len(f.quotations) {
		end = len(f.quotations)
	}
	raw, _ := json.Marshal(f.quotations[start:end])
	return &gateway.Envelope{Success: true, Data: raw}
}

type keepConfig struct{ deleteAfter bool }

func (c keepConfig) GetDeleteDraftsOnCompletion() bool { return c.deleteAfter }

func newTestStore(t *testing.T) *draftstore.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return draftstore.New(rdb, logger.New("test"))
}

func saveDraft(t *testing.T, store *draftstore.Store, customer, destination string, category domain.Category) *domain.BookingDraft {
	t.Helper()
	draft, err := store.Save(context.Background(), draftstore.SaveParams{
		Service:     &domain.Service{ID: "svc_" + string(category), Title: string(category), Category: category},
		GeneralInfo: domain.GeneralInfo{Customer: customer},
		ServiceInfo: domain.ServiceInfo{Destination: destination},
	}, "")
	if err != nil {
		t.Fatalf("save draft: %v", err)
	}
	return draft
}

func TestSyncCompletesMatchedDrafts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	matched := saveDraft(t, store, "Amit Shah", "Goa", domain.CategoryTravel)
	unmatched := saveDraft(t, store, "Priya Nair", "Munnar", domain.CategoryAccommodation)

	gw := &fakeListing{quotations: []map[string]any{
		{
			"id":            "q_remote",
			"quotationType": "travel",
			"formFields":    map[string]any{"customer": "amit shah", "destination": "GOA"},
		},
		{
			"id":            "q_other",
			"quotationType": "transport",
			"formFields":    map[string]any{"customer": "Priya Nair", "destination": "Munnar"},
		},
	}}

	s := New(store, gw, nil, keepConfig{}, logger.New("test"))
	result, err := s.Sync(ctx)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Scanned != 2 {
		t.Errorf("scanned = %d, want 2", result.Scanned)
	}
	if result.Completed != 1 {
		t.Errorf("completed = %d, want 1", result.Completed)
	}

	got := store.Get(ctx, matched.ID)
	if got.Status != domain.DraftStatusCompleted {
		t.Errorf("matched draft status = %q", got.Status)
	}
	if got.QuotationID != "q_remote" {
		t.Errorf("quotationId = %q", got.QuotationID)
	}

	// Category mismatch protects the accommodation draft even though the
	// customer and destination line up.
	if store.Get(ctx, unmatched.ID).Status != domain.DraftStatusDraft {
		t.Error("unmatched draft should stay open")
	}
}

func TestSyncDeletesWhenConfigured(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	draft := saveDraft(t, store, "Amit Shah", "Goa", domain.CategoryTravel)

	gw := &fakeListing{quotations: []map[string]any{{
		"_id":           "q_mongo",
		"quotationType": "travel",
		"partyId":       "Amit Shah",
		"formFields":    map[string]any{"destination": "Goa"},
	}}}

	s := New(store, gw, nil, keepConfig{deleteAfter: true}, logger.New("test"))
	result, err := s.Sync(ctx)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Completed != 1 {
		t.Fatalf("completed = %d, want 1", result.Completed)
	}
	if store.Get(ctx, draft.ID) != nil {
		t.Error("draft should be deleted when deleteAfterCompletion is set")
	}
}

func TestSyncSkipsCompletedDraftsAndSurvivesFailure(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	draft := saveDraft(t, store, "Amit Shah", "Goa", domain.CategoryTravel)
	store.Complete(ctx, draft.ID, "q_done", false)

	s := New(store, &fakeListing{}, nil, keepConfig{}, logger.New("test"))
	result, err := s.Sync(ctx)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Scanned != 0 {
		t.Errorf("scanned = %d, want 0 (no open drafts)", result.Scanned)
	}

	// A gateway failure propagates but leaves drafts untouched.
	saveDraft(t, store, "Priya Nair", "Munnar", domain.CategoryTravel)
	s = New(store, &fakeListing{fail: true}, nil, keepConfig{}, logger.New("test"))
	if _, err := s.Sync(ctx); err == nil {
		t.Fatal("expected error from failed listing")
	}
}

func TestSyncPagination(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	saveDraft(t, store, "Amit Shah", "Goa", domain.CategoryTravel)

	// The match sits on the second page.
	quotations := make([]map[string]any, 0, pageSize+1)
	for i := 0; i < pageSize; i++ {
		quotations = append(quotations, map[string]any{
			"id":            "q_filler",
			"quotationType": "activity",
			"formFields":    map[string]any{},
		})
	}
	quotations = append(quotations, map[string]any{
		"id":            "q_page2",
		"quotationType": "travel",
		"formFields":    map[string]any{"customer": "Amit Shah", "destination": "Goa"},
	})

	s := New(store, &fakeListing{quotations: quotations}, nil, keepConfig{}, logger.New("test"))
	result, err := s.Sync(ctx)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Completed != 1 {
		t.Errorf("completed = %d, want 1", result.Completed)
	}
}
