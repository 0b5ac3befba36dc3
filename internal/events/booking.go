// Package events defines the domain events exchanged between modules.
package events

import "booking_portal_backend/platform/events"

// Event names.
const (
	BookingSubmittedName = "booking.submitted"
	DraftSavedName       = "booking.draft.saved"
	DraftDeletedName     = "booking.draft.deleted"
	DraftsSyncedName     = "booking.drafts.synced"
)

// BookingSubmitted fires when a booking submission produced a quotation.
type BookingSubmitted struct {
	events.BaseEvent
	QuotationID     string
	Customer        string
	ServiceCategory string
	Destination     string
	TotalAmount     float64
}

func (BookingSubmitted) EventName() string { return BookingSubmittedName }

// DraftSaved fires when a wizard payload is persisted as a draft.
type DraftSaved struct {
	events.BaseEvent
	DraftID  string
	Name     string
	Customer string
}

func (DraftSaved) EventName() string { return DraftSavedName }

// DraftDeleted fires when a draft is removed.
type DraftDeleted struct {
	events.BaseEvent
	DraftID string
}

func (DraftDeleted) EventName() string { return DraftDeletedName }

// DraftsSynced fires after a reconciliation pass against the backend.
type DraftsSynced struct {
	events.BaseEvent
	Scanned   int
	Completed int
}

func (DraftsSynced) EventName() string { return DraftsSyncedName }
