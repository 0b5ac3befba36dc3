package workflow

import "booking_portal_backend/internal/booking/domain"

// Action is the closed set of workflow intents. The marker method keeps the
// set closed: only types in this package can be dispatched.
type Action interface {
	isAction()
}

// OpenServicePicker shows the service picker overlay.
type OpenServicePicker struct{}

// CloseServicePicker hides the service picker overlay.
type CloseServicePicker struct{}

// OpenDetailsPanel shows the booking details panel.
type OpenDetailsPanel struct{}

// CloseDetailsPanel hides the booking details panel.
type CloseDetailsPanel struct{}

// SelectService records the chosen service and advances the wizard to the
// general-info step.
type SelectService struct {
	Service *domain.Service
}

// UpdateGeneralInfo shallow-merges a partial update into the general info
// accumulator.
type UpdateGeneralInfo struct {
	Patch domain.GeneralInfoPatch
}

// UpdateServiceInfo shallow-merges a partial update into the service info
// accumulator.
type UpdateServiceInfo struct {
	Patch domain.ServiceInfoPatch
}

// UpdateCustomerForm merges fields into the customer sub-form.
type UpdateCustomerForm struct {
	Fields domain.FormData
}

// UpdateVendorForm merges fields into the vendor sub-form.
type UpdateVendorForm struct {
	Fields domain.FormData
}

// UpdateServiceForm merges fields into the service-specific sub-form.
type UpdateServiceForm struct {
	Fields domain.FormData
}

// SetCurrentStep repositions the wizard. Unknown steps are ignored.
type SetCurrentStep struct {
	Step Step
}

// CompleteStep marks a step as completed. Idempotent.
type CompleteStep struct {
	Step Step
}

// SetErrors replaces the field error map.
type SetErrors struct {
	Errors domain.Errors
}

// ClearErrors empties the field error map.
type ClearErrors struct{}

// Internal actions dispatched by the engine itself when async collaborators
// report back.

type setSubmitting struct{ submitting bool }

type submitFailed struct {
	message     string
	fieldErrors domain.Errors
}

type submitSucceeded struct{}

type setDraftsLoading struct{ loading bool }

type setDrafts struct{ drafts []domain.BookingDraft }

type setDraftError struct{ message string }

type setCurrentDraftID struct{ id string }

type setFieldError struct{ field, message string }

type clearFieldError struct{ field string }

type loadFromDraft struct{ draft domain.BookingDraft }

type restoreSnapshot struct {
	service        *domain.Service
	generalInfo    domain.GeneralInfo
	serviceInfo    domain.ServiceInfo
	customerForm   domain.FormData
	vendorForm     domain.FormData
	serviceForm    domain.FormData
	currentStep    Step
	completedSteps []Step
	draftID        string
}

type resetState struct{}

func (OpenServicePicker) isAction()  {}
func (CloseServicePicker) isAction() {}
func (OpenDetailsPanel) isAction()   {}
func (CloseDetailsPanel) isAction()  {}
func (SelectService) isAction()      {}
func (UpdateGeneralInfo) isAction()  {}
func (UpdateServiceInfo) isAction()  {}
func (UpdateCustomerForm) isAction() {}
func (UpdateVendorForm) isAction()   {}
func (UpdateServiceForm) isAction()  {}
func (SetCurrentStep) isAction()     {}
func (CompleteStep) isAction()       {}
func (SetErrors) isAction()          {}
func (ClearErrors) isAction()        {}
func (setSubmitting) isAction()      {}
func (submitFailed) isAction()       {}
func (submitSucceeded) isAction()    {}
func (setDraftsLoading) isAction()   {}
func (setDrafts) isAction()          {}
func (setDraftError) isAction()      {}
func (setCurrentDraftID) isAction()  {}
func (setFieldError) isAction()      {}
func (clearFieldError) isAction()    {}
func (loadFromDraft) isAction()      {}
func (restoreSnapshot) isAction()    {}
func (resetState) isAction()         {}
