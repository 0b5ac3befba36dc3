// Package syncer reconciles local drafts against quotations already created
// on the booking backend. A draft that was submitted elsewhere (another
// device, a direct backend entry) has no stored server id, so matching is a
// best-effort heuristic over customer, destination, and service category.
// Duplicate customer/destination pairs can mis-match; the heuristic is kept
// deliberately loose rather than hardened.
package syncer

import (
	"context"
	"fmt"
	"strings"

	"booking_portal_backend/internal/booking/domain"
	"booking_portal_backend/internal/booking/gateway"
	domainevents "booking_portal_backend/internal/events"
	"booking_portal_backend/platform/events"
	"booking_portal_backend/platform/logger"
)

const pageSize = 100

// Gateway is the slice of the booking backend the syncer needs.
type Gateway interface {
	ListAllQuotations(ctx context.Context, page, limit int) *gateway.Envelope
}

// DraftStore is the slice of the draft store the syncer needs.
type DraftStore interface {
	List(ctx context.Context) []domain.BookingDraft
	Complete(ctx context.Context, id, quotationID string, deleteAfterCompletion bool) bool
}

// Config controls what happens to a matched draft.
type Config interface {
	GetDeleteDraftsOnCompletion() bool
}

// Syncer runs reconciliation passes.
type Syncer struct {
	store DraftStore
	gw    Gateway
	bus   events.Bus
	cfg   Config
	log   *logger.Logger
}

// New creates a draft syncer.
func New(store DraftStore, gw Gateway, bus events.Bus, cfg Config, log *logger.Logger) *Syncer {
	return &Syncer{store: store, gw: gw, bus: bus, cfg: cfg, log: log}
}

// Result summarizes a reconciliation pass.
type Result struct {
	Scanned   int
	Completed int
}

// Sync matches open drafts against backend quotations and completes every
// draft that appears to have been submitted already.
func (s *Syncer) Sync(ctx context.Context) (Result, error) {
	drafts := openDrafts(s.store.List(ctx))
	result := Result{Scanned: len(drafts)}
	if len(drafts) == 0 {
		return result, nil
	}

	quotations, err := s.fetchAllQuotations(ctx)
	if err != nil {
		return result, err
	}

	for _, draft := range drafts {
		q := matchQuotation(&draft, quotations)
		if q == nil {
			continue
		}
		if s.store.Complete(ctx, draft.ID, q.identifier(), s.cfg.GetDeleteDraftsOnCompletion()) {
			result.Completed++
			s.log.Info("draft reconciled with backend quotation",
				"draft_id", draft.ID, "quotation_id", q.identifier())
		}
	}

	if s.bus != nil && result.Completed > 0 {
		s.bus.Publish(ctx, domainevents.DraftsSynced{
			BaseEvent: events.NewBaseEvent(),
			Scanned:   result.Scanned,
			Completed: result.Completed,
		})
	}
	return result, nil
}

// ── internals ─────────────────────────────────────────────────────────────────

type remoteQuotation struct {
	ID            string         `json:"id"`
	MongoID       string         `json:"_id"`
	PartyID       string         `json:"partyId"`
	QuotationType string         `json:"quotationType"`
	Status        string         `json:"status"`
	FormFields    map[string]any `json:"formFields"`
}

func (q *remoteQuotation) identifier() string {
	if q.ID != "" {
		return q.ID
	}
	return q.MongoID
}

func (q *remoteQuotation) field(name string) string {
	if v, ok := q.FormFields[name].(string); ok {
		return v
	}
	return ""
}

func (s *Syncer) fetchAllQuotations(ctx context.Context) ([]remoteQuotation, error) {
	var all []remoteQuotation
	for page := 1; ; page++ {
		env := s.gw.ListAllQuotations(ctx, page, pageSize)
		if !env.Success {
			err := fmt.Errorf("list quotations page %d: %s", page, env.Message)
			s.log.GatewayError("list_all_quotations", err)
			return nil, err
		}

		var batch []remoteQuotation
		if err := env.DecodeData(&batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < pageSize {
			return all, nil
		}
	}
}

func matchQuotation(draft *domain.BookingDraft, quotations []remoteQuotation) *remoteQuotation {
	if draft.Service == nil {
		return nil
	}
	for i := range quotations {
		q := &quotations[i]
		if !strings.EqualFold(q.QuotationType, string(draft.Service.Category)) {
			continue
		}
		customer := q.field("customer")
		if customer == "" {
			customer = q.PartyID
		}
		if !strings.EqualFold(customer, draft.GeneralInfo.Customer) {
			continue
		}
		if !strings.EqualFold(q.field("destination"), draft.ServiceInfo.Destination) {
			continue
		}
		return q
	}
	return nil
}

func openDrafts(drafts []domain.BookingDraft) []domain.BookingDraft {
	open := drafts[:0:0]
	for _, d := range drafts {
		if d.Status == domain.DraftStatusDraft {
			open = append(open, d)
		}
	}
	return open
}
