// Package transport defines the HTTP request and response shapes for the
// booking module.
package transport

import (
	"sort"

	"booking_portal_backend/internal/booking/domain"
	"booking_portal_backend/internal/booking/workflow"
)

// SelectServiceRequest is the payload for choosing a service.
type SelectServiceRequest struct {
	ID          string `json:"id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Image       string `json:"image"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description"`
}

// ToService converts the request into the domain service.
func (r SelectServiceRequest) ToService() *domain.Service {
	return &domain.Service{
		ID:          r.ID,
		Title:       r.Title,
		Image:       r.Image,
		Category:    domain.Category(r.Category),
		Description: r.Description,
	}
}

// StepRequest names a wizard step.
type StepRequest struct {
	Step string `json:"step" binding:"required"`
}

// PanelRequest toggles an overlay.
type PanelRequest struct {
	Open bool `json:"open"`
}

// SaveDraftRequest carries the optional draft name.
type SaveDraftRequest struct {
	Name string `json:"name"`
}

// FormPatchRequest is a partial update to one of the opaque sub-forms.
type FormPatchRequest struct {
	Fields domain.FormData `json:"fields" binding:"required"`
}

// ErrorsRequest replaces the wizard's field error map.
type ErrorsRequest struct {
	Errors map[string]string `json:"errors" binding:"required"`
}

// SubmitResponse reports the outcome of a submission attempt.
type SubmitResponse struct {
	Success     bool              `json:"success"`
	QuotationID string            `json:"quotationId,omitempty"`
	Message     string            `json:"message,omitempty"`
	Errors      map[string]string `json:"errors,omitempty"`
}

// ReferenceCheckResponse reports reference validation results.
type ReferenceCheckResponse struct {
	CustomerValid bool `json:"customerValid"`
	VendorValid   bool `json:"vendorValid"`
}

// StateResponse is the full wizard state plus its derived properties.
type StateResponse struct {
	ServicePickerOpen bool                  `json:"servicePickerOpen"`
	DetailsPanelOpen  bool                  `json:"detailsPanelOpen"`
	Service           *domain.Service       `json:"service,omitempty"`
	GeneralInfo       domain.GeneralInfo    `json:"generalInfo"`
	ServiceInfo       domain.ServiceInfo    `json:"serviceInfo"`
	CustomerForm      domain.FormData       `json:"customerForm,omitempty"`
	VendorForm        domain.FormData       `json:"vendorForm,omitempty"`
	ServiceForm       domain.FormData       `json:"serviceForm,omitempty"`
	CurrentStep       string                `json:"currentStep"`
	CurrentStepIndex  int                   `json:"currentStepIndex"`
	TotalSteps        int                   `json:"totalSteps"`
	CompletedSteps    []string              `json:"completedSteps"`
	Errors            map[string]string     `json:"errors"`
	IsFormValid       bool                  `json:"isFormValid"`
	CanProceedToNext  bool                  `json:"canProceedToNext"`
	IsSubmitting      bool                  `json:"isSubmitting"`
	SubmitError       string                `json:"submitError,omitempty"`
	SubmitSuccess     bool                  `json:"submitSuccess"`
	CurrentDraftID    string                `json:"currentDraftId,omitempty"`
	Drafts            []domain.BookingDraft `json:"drafts"`
	DraftsLoading     bool                  `json:"draftsLoading"`
	DraftError        string                `json:"draftError,omitempty"`
}

// StateFromWorkflow maps engine state to the response shape.
func StateFromWorkflow(s workflow.State) StateResponse {
	completed := make([]string, 0, len(s.CompletedSteps))
	for step := range s.CompletedSteps {
		completed = append(completed, string(step))
	}
	sort.Strings(completed)

	drafts := s.Drafts
	if drafts == nil {
		drafts = []domain.BookingDraft{}
	}

	return StateResponse{
		ServicePickerOpen: s.ServicePickerOpen,
		DetailsPanelOpen:  s.DetailsPanelOpen,
		Service:           s.Service,
		GeneralInfo:       s.GeneralInfo,
		ServiceInfo:       s.ServiceInfo,
		CustomerForm:      s.CustomerForm,
		VendorForm:        s.VendorForm,
		ServiceForm:       s.ServiceForm,
		CurrentStep:       string(s.CurrentStep),
		CurrentStepIndex:  s.CurrentStepIndex(),
		TotalSteps:        s.TotalSteps(),
		CompletedSteps:    completed,
		Errors:            s.Errors,
		IsFormValid:       s.IsFormValid(),
		CanProceedToNext:  s.CanProceedToNext(),
		IsSubmitting:      s.IsSubmitting,
		SubmitError:       s.SubmitError,
		SubmitSuccess:     s.SubmitSuccess,
		CurrentDraftID:    s.CurrentDraftID,
		Drafts:            drafts,
		DraftsLoading:     s.DraftsLoading,
		DraftError:        s.DraftError,
	}
}
