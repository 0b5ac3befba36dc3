package workflow

import "booking_portal_backend/internal/booking/domain"

// reduce applies a single action to the state. Pure: the input state is
// cloned before mutation and the result is a fresh value.
func reduce(prev State, action Action) State {
	s := prev.clone()

	switch a := action.(type) {
	case OpenServicePicker:
		s.ServicePickerOpen = true
	case CloseServicePicker:
		s.ServicePickerOpen = false
	case OpenDetailsPanel:
		s.DetailsPanelOpen = true
	case CloseDetailsPanel:
		s.DetailsPanelOpen = false

	case SelectService:
		s.Service = a.Service
		s.CurrentStep = StepGeneralInfo
		s.ServicePickerOpen = false
		s.DetailsPanelOpen = true

	case UpdateGeneralInfo:
		s.GeneralInfo = s.GeneralInfo.Merge(a.Patch)
	case UpdateServiceInfo:
		s.ServiceInfo = s.ServiceInfo.Merge(a.Patch)
	case UpdateCustomerForm:
		s.CustomerForm = mergeForm(s.CustomerForm, a.Fields)
	case UpdateVendorForm:
		s.VendorForm = mergeForm(s.VendorForm, a.Fields)
	case UpdateServiceForm:
		s.ServiceForm = mergeForm(s.ServiceForm, a.Fields)

	case SetCurrentStep:
		if ValidStep(a.Step) {
			s.CurrentStep = a.Step
		}
	case CompleteStep:
		if ValidStep(a.Step) {
			s.CompletedSteps[a.Step] = true
		}

	case SetErrors:
		s.Errors = make(domain.Errors, len(a.Errors))
		for k, v := range a.Errors {
			s.Errors[k] = v
		}
	case ClearErrors:
		s.Errors = domain.Errors{}

	case setSubmitting:
		s.IsSubmitting = a.submitting
		if a.submitting {
			s.SubmitError = ""
			s.SubmitSuccess = false
		}
	case submitFailed:
		s.IsSubmitting = false
		s.SubmitError = a.message
		for k, v := range a.fieldErrors {
			s.Errors[k] = v
		}
	case submitSucceeded:
		s.IsSubmitting = false
		s.SubmitSuccess = true
		s.SubmitError = ""
		s.CurrentDraftID = ""
		s.Errors = domain.Errors{}

	case setDraftsLoading:
		s.DraftsLoading = a.loading
		if a.loading {
			s.DraftError = ""
		}
	case setDrafts:
		s.Drafts = append([]domain.BookingDraft(nil), a.drafts...)
		s.DraftsLoading = false
	case setDraftError:
		s.DraftError = a.message
		s.DraftsLoading = false
	case setCurrentDraftID:
		s.CurrentDraftID = a.id

	case setFieldError:
		s.Errors[a.field] = a.message
	case clearFieldError:
		delete(s.Errors, a.field)

	case loadFromDraft:
		s.Service = a.draft.Service
		s.GeneralInfo = a.draft.GeneralInfo
		s.ServiceInfo = a.draft.ServiceInfo
		s.CustomerForm = a.draft.CustomerForm.Clone()
		s.VendorForm = a.draft.VendorForm.Clone()
		s.ServiceForm = a.draft.ServiceForm.Clone()
		s.CurrentDraftID = a.draft.ID
		s.Errors = domain.Errors{}
		if a.draft.Service != nil {
			s.CurrentStep = StepGeneralInfo
		} else {
			s.CurrentStep = StepServiceSelection
		}

	case restoreSnapshot:
		s.Service = a.service
		s.GeneralInfo = a.generalInfo
		s.ServiceInfo = a.serviceInfo
		s.CustomerForm = a.customerForm.Clone()
		s.VendorForm = a.vendorForm.Clone()
		s.ServiceForm = a.serviceForm.Clone()
		s.CurrentDraftID = a.draftID
		if ValidStep(a.currentStep) {
			s.CurrentStep = a.currentStep
		}
		s.CompletedSteps = map[Step]bool{}
		for _, step := range a.completedSteps {
			if ValidStep(step) {
				s.CompletedSteps[step] = true
			}
		}

	case resetState:
		s = initialState()
	}

	return s
}

func mergeForm(base, fields domain.FormData) domain.FormData {
	if base == nil {
		base = domain.FormData{}
	}
	for k, v := range fields {
		base[k] = v
	}
	return base
}
