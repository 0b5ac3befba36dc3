// Package workflow implements the multi-step booking wizard as a reducer
// driven state machine. All mutation flows through dispatched actions; the
// engine layers the async collaborators (draft store, booking gateway) on
// top and folds their results back in as actions.
package workflow

import (
	"booking_portal_backend/internal/booking/domain"
)

// Step is one stage of the booking wizard.
type Step string

const (
	StepServiceSelection Step = "service-selection"
	StepGeneralInfo      Step = "general-info"
	StepServiceInfo      Step = "service-info"
	StepReview           Step = "review"
)

var stepOrder = []Step{StepServiceSelection, StepGeneralInfo, StepServiceInfo, StepReview}

// ValidStep reports whether s names a wizard step.
func ValidStep(s Step) bool {
	for _, step := range stepOrder {
		if s == step {
			return true
		}
	}
	return false
}

// State is the workflow's full state. It is a value: the reducer returns a
// new State per action and callers receive copies, never shared references.
type State struct {
	ServicePickerOpen bool
	DetailsPanelOpen  bool

	Service      *domain.Service
	GeneralInfo  domain.GeneralInfo
	ServiceInfo  domain.ServiceInfo
	CustomerForm domain.FormData
	VendorForm   domain.FormData
	ServiceForm  domain.FormData

	CurrentStep    Step
	CompletedSteps map[Step]bool

	Errors domain.Errors

	IsSubmitting  bool
	SubmitError   string
	SubmitSuccess bool

	CurrentDraftID string
	Drafts         []domain.BookingDraft
	DraftsLoading  bool
	DraftError     string
}

func initialState() State {
	return State{
		CurrentStep:    StepServiceSelection,
		CompletedSteps: map[Step]bool{},
		Errors:         domain.Errors{},
	}
}

func (s State) clone() State {
	out := s
	out.CompletedSteps = make(map[Step]bool, len(s.CompletedSteps))
	for step := range s.CompletedSteps {
		out.CompletedSteps[step] = true
	}
	out.Errors = make(domain.Errors, len(s.Errors))
	for k, v := range s.Errors {
		out.Errors[k] = v
	}
	out.CustomerForm = s.CustomerForm.Clone()
	out.VendorForm = s.VendorForm.Clone()
	out.ServiceForm = s.ServiceForm.Clone()
	out.Drafts = append([]domain.BookingDraft(nil), s.Drafts...)
	return out
}

// ── derived properties ────────────────────────────────────────────────────────

// TotalSteps is the number of wizard steps.
func (s State) TotalSteps() int { return len(stepOrder) }

// CurrentStepIndex is the zero-based position of the current step.
func (s State) CurrentStepIndex() int {
	for i, step := range stepOrder {
		if step == s.CurrentStep {
			return i
		}
	}
	return 0
}

// IsFormValid reports whether every required field across the wizard is
// filled. It checks presence only; full pattern validation runs at submit.
func (s State) IsFormValid() bool {
	return s.Service != nil && s.generalInfoFilled() && s.serviceInfoFilled()
}

// CanProceedToNext is the step-dependent gate advising whether the wizard
// may advance from the current step.
func (s State) CanProceedToNext() bool {
	switch s.CurrentStep {
	case StepServiceSelection:
		return s.Service != nil
	case StepGeneralInfo:
		return s.generalInfoFilled()
	case StepServiceInfo:
		return s.serviceInfoFilled()
	case StepReview:
		return s.IsFormValid()
	default:
		return false
	}
}

func (s State) generalInfoFilled() bool {
	g := s.GeneralInfo
	return g.Customer != "" && g.Vendor != "" && g.Traveller1 != "" && g.BookingOwner != "" && g.Adults >= 1
}

func (s State) serviceInfoFilled() bool {
	i := s.ServiceInfo
	return i.Destination != "" && i.DepartureDate != "" && i.Budget > 0
}
