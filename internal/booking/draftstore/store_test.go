package draftstore

import (
	"context"
	"testing"
	"time"

	"booking_portal_backend/internal/booking/domain"
	"booking_portal_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, logger.New("test"))
}

func flightsService() *domain.Service {
	return &domain.Service{
		ID:       "svc_flights",
		Title:    "Flights",
		Category: domain.CategoryTravel,
	}
}

func TestSaveCreatesAndUpdatesByIdentity(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return base })

	params := SaveParams{
		Service:     flightsService(),
		GeneralInfo: domain.GeneralInfo{Customer: "Amit Shah", Adults: 2},
		ServiceInfo: domain.ServiceInfo{Destination: "Goa"},
	}

	first, err := store.Save(ctx, params, "")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected generated draft id")
	}
	if first.Name != "Draft - Flights" {
		t.Errorf("name = %q, want %q", first.Name, "Draft - Flights")
	}
	if first.Status != domain.DraftStatusDraft {
		t.Errorf("status = %q, want draft", first.Status)
	}

	// Same service and customer: the existing draft is updated in place.
	store.SetClock(func() time.Time { return base.Add(time.Minute) })
	params.GeneralInfo.Adults = 3
	second, err := store.Save(ctx, params, "")
	if err != nil {
		t.Fatalf("save again: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected matching draft to keep id %s, got %s", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("createdAt changed: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("updatedAt not refreshed: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}
	if second.GeneralInfo.Adults != 3 {
		t.Errorf("adults = %d, want 3", second.GeneralInfo.Adults)
	}
	if n := store.Count(ctx); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}

	// A different customer on the same service makes a new draft.
	params.GeneralInfo.Customer = "Priya Nair"
	third, err := store.Save(ctx, params, "")
	if err != nil {
		t.Fatalf("save third: %v", err)
	}
	if third.ID == first.ID {
		t.Error("different customer should create a distinct draft")
	}
	if n := store.Count(ctx); n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestSaveNeverMatchesCompletedDrafts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	params := SaveParams{
		Service:     flightsService(),
		GeneralInfo: domain.GeneralInfo{Customer: "Amit Shah"},
	}
	draft, err := store.Save(ctx, params, "")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if ok := store.Complete(ctx, draft.ID, "q_1", false); !ok {
		t.Fatal("complete failed")
	}

	again, err := store.Save(ctx, params, "")
	if err != nil {
		t.Fatalf("save after complete: %v", err)
	}
	if again.ID == draft.ID {
		t.Error("completed draft must not be updated by a new save")
	}
	if n := store.Count(ctx); n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestGetDeleteComplete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	draft, err := store.Save(ctx, SaveParams{
		Service:     flightsService(),
		GeneralInfo: domain.GeneralInfo{Customer: "Amit Shah"},
	}, "Honeymoon trip")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got := store.Get(ctx, draft.ID)
	if got == nil {
		t.Fatal("get returned nil for existing draft")
	}
	if got.Name != "Honeymoon trip" {
		t.Errorf("name = %q", got.Name)
	}
	if store.Get(ctx, "draft_missing") != nil {
		t.Error("get for unknown id should return nil")
	}

	if ok := store.Complete(ctx, "draft_missing", "q_1", false); ok {
		t.Error("complete for unknown id should report false")
	}
	if ok := store.Complete(ctx, draft.ID, "q_42", false); !ok {
		t.Fatal("complete failed")
	}
	completed := store.Get(ctx, draft.ID)
	if completed.Status != domain.DraftStatusCompleted {
		t.Errorf("status = %q, want completed", completed.Status)
	}
	if completed.QuotationID != "q_42" {
		t.Errorf("quotationId = %q, want q_42", completed.QuotationID)
	}

	if ok := store.Delete(ctx, draft.ID); !ok {
		t.Error("delete reported false for existing draft")
	}
	if ok := store.Delete(ctx, draft.ID); ok {
		t.Error("second delete should report false")
	}
}

func TestCompleteWithDeleteAfterCompletion(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	draft, err := store.Save(ctx, SaveParams{
		Service:     flightsService(),
		GeneralInfo: domain.GeneralInfo{Customer: "Amit Shah"},
	}, "")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if ok := store.Complete(ctx, draft.ID, "q_7", true); !ok {
		t.Fatal("complete failed")
	}
	if store.Get(ctx, draft.ID) != nil {
		t.Error("draft should be removed when deleteAfterCompletion is set")
	}
	if n := store.Count(ctx); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestSearchMatchesAcrossFields(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	saves := []SaveParams{
		{
			Service:     flightsService(),
			GeneralInfo: domain.GeneralInfo{Customer: "Amit Shah"},
			ServiceInfo: domain.ServiceInfo{Destination: "Goa"},
		},
		{
			Service:     &domain.Service{ID: "svc_hotels", Title: "Hotels", Category: domain.CategoryAccommodation},
			GeneralInfo: domain.GeneralInfo{Customer: "Priya Nair"},
			ServiceInfo: domain.ServiceInfo{Destination: "Munnar"},
		},
	}
	for _, p := range saves {
		if _, err := store.Save(ctx, p, ""); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{"amit", 1},
		{"AMIT", 1},
		{"hotels", 1},
		{"goa", 1},
		{"munnar", 1},
		{"draft", 2},
		{"", 2},
		{"nothing-matches", 0},
	}
	for _, tt := range tests {
		got := store.Search(ctx, tt.query)
		if len(got) != tt.want {
			t.Errorf("search(%q) returned %d drafts, want %d", tt.query, len(got), tt.want)
		}
	}

	results := store.Search(ctx, "amit")
	if len(results) == 1 && results[0].GeneralInfo.Customer != "Amit Shah" {
		t.Errorf("search(amit) returned draft for %q", results[0].GeneralInfo.Customer)
	}
}

func TestListOrdersByMostRecentlyUpdated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	for i, customer := range []string{"First", "Second", "Third"} {
		offset := time.Duration(i) * time.Minute
		store.SetClock(func() time.Time { return base.Add(offset) })
		if _, err := store.Save(ctx, SaveParams{
			Service:     flightsService(),
			GeneralInfo: domain.GeneralInfo{Customer: customer},
		}, ""); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	drafts := store.List(ctx)
	if len(drafts) != 3 {
		t.Fatalf("list returned %d drafts, want 3", len(drafts))
	}
	want := []string{"Third", "Second", "First"}
	for i, customer := range want {
		if drafts[i].GeneralInfo.Customer != customer {
			t.Errorf("list[%d].customer = %q, want %q", i, drafts[i].GeneralInfo.Customer, customer)
		}
	}
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, customer := range []string{"Amit Shah", "Priya Nair"} {
		if _, err := store.Save(ctx, SaveParams{
			Service:     flightsService(),
			GeneralInfo: domain.GeneralInfo{Customer: customer},
		}, ""); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	store.ClearAll(ctx)
	if n := store.Count(ctx); n != 0 {
		t.Errorf("count after clear = %d, want 0", n)
	}
	if drafts := store.List(ctx); len(drafts) != 0 {
		t.Errorf("list after clear returned %d drafts", len(drafts))
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if store.LoadSnapshot(ctx) != nil {
		t.Fatal("expected no snapshot on a fresh store")
	}

	snap := Snapshot{
		Service:        flightsService(),
		GeneralInfo:    domain.GeneralInfo{Customer: "Amit Shah", Adults: 2},
		ServiceInfo:    domain.ServiceInfo{Destination: "Goa"},
		CurrentStep:    "service-info",
		CompletedSteps: []string{"service-selection", "general-info"},
		DraftID:        "draft_1",
	}
	store.SaveSnapshot(ctx, snap)

	got := store.LoadSnapshot(ctx)
	if got == nil {
		t.Fatal("snapshot not found after save")
	}
	if got.CurrentStep != "service-info" {
		t.Errorf("currentStep = %q", got.CurrentStep)
	}
	if len(got.CompletedSteps) != 2 {
		t.Errorf("completedSteps = %v", got.CompletedSteps)
	}
	if got.Service == nil || got.Service.ID != "svc_flights" {
		t.Errorf("service not restored: %+v", got.Service)
	}

	// Overwrite wins.
	snap.CurrentStep = "review"
	store.SaveSnapshot(ctx, snap)
	if got := store.LoadSnapshot(ctx); got.CurrentStep != "review" {
		t.Errorf("currentStep after overwrite = %q", got.CurrentStep)
	}

	store.ClearSnapshot(ctx)
	if store.LoadSnapshot(ctx) != nil {
		t.Error("snapshot should be gone after clear")
	}
}

func TestStoreDegradesOnBackendFailure(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := New(rdb, logger.New("test"))

	if _, err := store.Save(ctx, SaveParams{
		Service:     flightsService(),
		GeneralInfo: domain.GeneralInfo{Customer: "Amit Shah"},
	}, ""); err != nil {
		t.Fatalf("save: %v", err)
	}

	mr.Close()

	if drafts := store.List(ctx); len(drafts) != 0 {
		t.Errorf("list on dead backend returned %d drafts, want 0", len(drafts))
	}
	if n := store.Count(ctx); n != 0 {
		t.Errorf("count on dead backend = %d, want 0", n)
	}
	if store.Get(ctx, "draft_x") != nil {
		t.Error("get on dead backend should return nil")
	}
	if store.Delete(ctx, "draft_x") {
		t.Error("delete on dead backend should report false")
	}
	if store.LoadSnapshot(ctx) != nil {
		t.Error("snapshot load on dead backend should return nil")
	}
}
