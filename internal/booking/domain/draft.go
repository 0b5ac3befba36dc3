package domain

import "time"

// DraftStatus is the lifecycle state of a locally persisted draft.
type DraftStatus string

const (
	DraftStatusDraft     DraftStatus = "draft"
	DraftStatusCompleted DraftStatus = "completed"
)

// BookingDraft is the aggregate a user builds up in the wizard: the selected
// service plus the accumulated step data, wrapped in draft metadata.
//
// Identity invariant: a save targeting the same (service id, general-info
// customer) pair updates the matching draft in place; any other save creates
// a new draft with a fresh id. Once a submission succeeds the draft either
// transitions to completed (recording the quotation id) or is deleted,
// depending on configuration. A completed draft is never loaded back into
// the active wizard.
type BookingDraft struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Service      *Service    `json:"service,omitempty"`
	GeneralInfo  GeneralInfo `json:"generalInfo"`
	ServiceInfo  ServiceInfo `json:"serviceInfo"`
	CustomerForm FormData    `json:"customerForm,omitempty"`
	VendorForm   FormData    `json:"vendorForm,omitempty"`
	ServiceForm  FormData    `json:"serviceForm,omitempty"`
	Status       DraftStatus `json:"status"`
	QuotationID  string      `json:"quotationId,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Matches reports whether a save with the given service id and customer
// should re-use this draft instead of creating a new one. Completed drafts
// never match; they are historical records.
func (d *BookingDraft) Matches(serviceID, customer string) bool {
	if d.Status == DraftStatusCompleted {
		return false
	}
	if d.Service == nil || d.Service.ID == "" || serviceID == "" {
		return false
	}
	return d.Service.ID == serviceID && d.GeneralInfo.Customer == customer
}
