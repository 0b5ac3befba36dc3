package workflow

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"booking_portal_backend/internal/booking/domain"
	"booking_portal_backend/internal/booking/draftstore"
	"booking_portal_backend/internal/booking/gateway"
	domainevents "booking_portal_backend/internal/events"
	"booking_portal_backend/platform/config"
	"booking_portal_backend/platform/events"
	"booking_portal_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// Gateway is the slice of the booking backend the engine needs.
type Gateway interface {
	ValidateCustomer(ctx context.Context, reference string) *gateway.Envelope
	ValidateVendor(ctx context.Context, reference string) *gateway.Envelope
	CreateQuotation(ctx context.Context, payload map[string]any) *gateway.Envelope
}

// DraftStore is the slice of the draft store the engine needs.
type DraftStore interface {
	List(ctx context.Context) []domain.BookingDraft
	Save(ctx context.Context, params draftstore.SaveParams, name string) (*domain.BookingDraft, error)
	Get(ctx context.Context, id string) *domain.BookingDraft
	Delete(ctx context.Context, id string) bool
	Complete(ctx context.Context, id, quotationID string, deleteAfterCompletion bool) bool
	Search(ctx context.Context, query string) []domain.BookingDraft
	ClearAll(ctx context.Context)
	Count(ctx context.Context) int
	SaveSnapshot(ctx context.Context, snap draftstore.Snapshot)
	LoadSnapshot(ctx context.Context) *draftstore.Snapshot
	ClearSnapshot(ctx context.Context)
}

// Config is the configuration slice the engine needs.
type Config interface {
	config.WorkflowConfig
	GetGatewayChannel() string
}

// Engine owns the workflow state. All mutation goes through dispatched
// actions under the engine's lock; reads get value copies.
type Engine struct {
	mu    sync.Mutex
	state State

	store DraftStore
	gw    Gateway
	bus   events.Bus
	cfg   Config
	log   *logger.Logger

	// Generation counters fencing stale reference-validation responses:
	// only the latest in-flight check per field may touch the error map.
	customerGen atomic.Uint64
	vendorGen   atomic.Uint64

	resetTimer *time.Timer
}

// New creates a workflow engine in its initial state.
func New(store DraftStore, gw Gateway, bus events.Bus, cfg Config, log *logger.Logger) *Engine {
	return &Engine{
		state: initialState(),
		store: store,
		gw:    gw,
		bus:   bus,
		cfg:   cfg,
		log:   log,
	}
}

// State returns a copy of the current workflow state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Dispatch applies a synchronous intent and persists the wizard snapshot.
func (e *Engine) Dispatch(ctx context.Context, action Action) {
	e.mu.Lock()
	e.state = reduce(e.state, action)
	snap := snapshotFromState(e.state)
	e.mu.Unlock()

	e.store.SaveSnapshot(ctx, snap)
}

// dispatch applies an action without persisting the snapshot. Used for
// transient flags and async results the snapshot does not carry.
func (e *Engine) dispatch(action Action) {
	e.mu.Lock()
	e.state = reduce(e.state, action)
	e.mu.Unlock()
}

// Restore rehydrates the wizard from the persisted snapshot, if any.
func (e *Engine) Restore(ctx context.Context) bool {
	snap := e.store.LoadSnapshot(ctx)
	if snap == nil {
		return false
	}

	completed := make([]Step, 0, len(snap.CompletedSteps))
	for _, name := range snap.CompletedSteps {
		completed = append(completed, Step(name))
	}
	e.dispatch(restoreSnapshot{
		service:        snap.Service,
		generalInfo:    snap.GeneralInfo,
		serviceInfo:    snap.ServiceInfo,
		customerForm:   snap.CustomerForm,
		vendorForm:     snap.VendorForm,
		serviceForm:    snap.ServiceForm,
		currentStep:    Step(snap.CurrentStep),
		completedSteps: completed,
		draftID:        snap.DraftID,
	})
	return true
}

// ── submission ────────────────────────────────────────────────────────────────

// SubmitBooking validates the wizard, submits it as a quotation, and on
// success completes the linked draft and schedules a reset. Returns the
// quotation id and whether submission succeeded; failure details land in
// the state's error fields.
func (e *Engine) SubmitBooking(ctx context.Context) (string, bool) {
	e.mu.Lock()
	if e.state.IsSubmitting {
		e.mu.Unlock()
		return "", false
	}
	e.state = reduce(e.state, setSubmitting{submitting: true})
	s := e.state.clone()
	e.mu.Unlock()

	errs := domain.ValidateGeneralInfo(s.GeneralInfo)
	for field, msg := range domain.ValidateServiceInfo(s.ServiceInfo, s.Service) {
		errs[field] = msg
	}
	if len(errs) > 0 {
		e.dispatch(submitFailed{message: "Please fix the highlighted fields.", fieldErrors: errs})
		return "", false
	}
	if s.Service == nil {
		e.dispatch(submitFailed{message: "Select a service before submitting."})
		return "", false
	}

	env := e.gw.CreateQuotation(ctx, buildPayload(s, e.cfg.GetGatewayChannel(), time.Now()))
	if !env.Success {
		message := env.Message
		if message == "" {
			message = "Booking submission failed. Please try again."
		}
		e.dispatch(submitFailed{message: message, fieldErrors: env.Errors})
		return "", false
	}

	quotationID := quotationIDFromEnvelope(env)
	if quotationID == "" {
		e.dispatch(submitFailed{message: "Booking service did not return a quotation id."})
		return "", false
	}

	if s.CurrentDraftID != "" {
		if !e.store.Complete(ctx, s.CurrentDraftID, quotationID, e.cfg.GetDeleteDraftsOnCompletion()) {
			e.log.Warn("draft completion failed after submit", "draft_id", s.CurrentDraftID, "quotation_id", quotationID)
		}
	}

	// submitSucceeded clears the draft linkage, which the snapshot carries.
	e.Dispatch(ctx, submitSucceeded{})
	if e.bus != nil {
		e.bus.Publish(ctx, domainevents.BookingSubmitted{
			BaseEvent:       events.NewBaseEvent(),
			QuotationID:     quotationID,
			Customer:        s.GeneralInfo.Customer,
			ServiceCategory: string(s.Service.Category),
			Destination:     s.ServiceInfo.Destination,
			TotalAmount:     s.ServiceInfo.Budget,
		})
	}
	e.scheduleReset()
	return quotationID, true
}

func (e *Engine) scheduleReset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.resetTimer != nil {
		e.resetTimer.Stop()
	}
	e.resetTimer = time.AfterFunc(e.cfg.GetSubmitResetDelay(), func() {
		e.ResetBooking(context.Background())
	})
}

// ── drafts ────────────────────────────────────────────────────────────────────

// SaveDraft persists the current wizard payload as a draft. Validation is
// not required; incomplete wizards may be parked.
func (e *Engine) SaveDraft(ctx context.Context, name string) *domain.BookingDraft {
	s := e.State()

	draft, err := e.store.Save(ctx, draftstore.SaveParams{
		Service:      s.Service,
		GeneralInfo:  s.GeneralInfo,
		ServiceInfo:  s.ServiceInfo,
		CustomerForm: s.CustomerForm,
		VendorForm:   s.VendorForm,
		ServiceForm:  s.ServiceForm,
	}, name)
	if err != nil {
		e.dispatch(setDraftError{message: "Could not save draft. Please try again."})
		return nil
	}

	// Draft linkage is part of the snapshot: a restart between save and the
	// next user intent must still resume against this draft.
	e.Dispatch(ctx, setCurrentDraftID{id: draft.ID})
	if e.bus != nil {
		e.bus.Publish(ctx, domainevents.DraftSaved{
			BaseEvent: events.NewBaseEvent(),
			DraftID:   draft.ID,
			Name:      draft.Name,
			Customer:  draft.GeneralInfo.Customer,
		})
	}
	return draft
}

// LoadDrafts refreshes the draft list from the store.
func (e *Engine) LoadDrafts(ctx context.Context) []domain.BookingDraft {
	e.dispatch(setDraftsLoading{loading: true})
	drafts := e.store.List(ctx)
	e.dispatch(setDrafts{drafts: drafts})
	return drafts
}

// LoadDraft replaces the wizard contents with a stored draft and repositions
// the current step. Completed drafts are never loaded back into the wizard.
func (e *Engine) LoadDraft(ctx context.Context, id string) bool {
	e.dispatch(setDraftsLoading{loading: true})
	draft := e.store.Get(ctx, id)
	if draft == nil {
		e.dispatch(setDraftError{message: "Draft not found."})
		return false
	}
	if draft.Status == domain.DraftStatusCompleted {
		e.dispatch(setDraftError{message: "This draft was already submitted."})
		return false
	}

	e.dispatch(setDraftsLoading{loading: false})
	e.Dispatch(ctx, loadFromDraft{draft: *draft})
	return true
}

// DeleteDraft removes a draft and refreshes the list.
func (e *Engine) DeleteDraft(ctx context.Context, id string) bool {
	if !e.store.Delete(ctx, id) {
		e.dispatch(setDraftError{message: "Draft not found."})
		return false
	}

	e.mu.Lock()
	linked := e.state.CurrentDraftID == id
	if linked {
		e.state = reduce(e.state, setCurrentDraftID{id: ""})
	}
	snap := snapshotFromState(e.state)
	e.mu.Unlock()
	if linked {
		e.store.SaveSnapshot(ctx, snap)
	}

	e.dispatch(setDrafts{drafts: e.store.List(ctx)})
	if e.bus != nil {
		e.bus.Publish(ctx, domainevents.DraftDeleted{BaseEvent: events.NewBaseEvent(), DraftID: id})
	}
	return true
}

// ClearDrafts removes every stored draft and detaches the wizard from its
// current draft.
func (e *Engine) ClearDrafts(ctx context.Context) {
	e.store.ClearAll(ctx)
	e.Dispatch(ctx, setCurrentDraftID{id: ""})
	e.dispatch(setDrafts{drafts: nil})
}

// CountDrafts returns the number of stored drafts.
func (e *Engine) CountDrafts(ctx context.Context) int {
	return e.store.Count(ctx)
}

// SearchDrafts filters the draft list by a case-insensitive query.
func (e *Engine) SearchDrafts(ctx context.Context, query string) []domain.BookingDraft {
	e.dispatch(setDraftsLoading{loading: true})
	drafts := e.store.Search(ctx, query)
	e.dispatch(setDrafts{drafts: drafts})
	return drafts
}

// ResetBooking restores the initial state and purges the wizard snapshot.
func (e *Engine) ResetBooking(ctx context.Context) {
	e.mu.Lock()
	if e.resetTimer != nil {
		e.resetTimer.Stop()
		e.resetTimer = nil
	}
	e.state = reduce(e.state, resetState{})
	e.mu.Unlock()

	e.store.ClearSnapshot(ctx)
}

// ValidateForms runs every validation rule applicable to the current wizard
// contents, replaces the error map with the result, and returns it.
func (e *Engine) ValidateForms(ctx context.Context) domain.Errors {
	s := e.State()

	errs := domain.ValidateGeneralInfo(s.GeneralInfo)
	for field, msg := range domain.ValidateServiceInfo(s.ServiceInfo, s.Service) {
		errs[field] = msg
	}
	// Sub-form fields are namespaced: the customer and vendor forms share
	// field names, so their errors cannot live flat in one map.
	if len(s.CustomerForm) > 0 {
		mergePrefixed(errs, "customerForm", domain.ValidateCustomerForm(s.CustomerForm))
	}
	if len(s.VendorForm) > 0 {
		mergePrefixed(errs, "vendorForm", domain.ValidateVendorForm(s.VendorForm))
	}
	if s.Service != nil && len(s.ServiceForm) > 0 {
		switch s.Service.Category {
		case domain.CategoryTravel, domain.CategoryTransport:
			mergePrefixed(errs, "serviceForm", domain.ValidateFlightInfoForm(s.ServiceForm))
		case domain.CategoryAccommodation:
			mergePrefixed(errs, "serviceForm", domain.ValidateAccommodationInfoForm(s.ServiceForm))
		}
	}

	e.Dispatch(ctx, SetErrors{Errors: errs})
	return errs
}

func mergePrefixed(dst domain.Errors, prefix string, src domain.Errors) {
	for field, msg := range src {
		dst[prefix+"."+field] = msg
	}
}

// ── reference validation ──────────────────────────────────────────────────────

// ValidateCustomerReference checks the customer reference against the
// backend. Only the latest in-flight check may update the error map, so a
// stale response can never overwrite a newer edit.
func (e *Engine) ValidateCustomerReference(ctx context.Context, reference string) bool {
	gen := e.customerGen.Add(1)
	env := e.gw.ValidateCustomer(ctx, reference)
	if e.customerGen.Load() != gen {
		return false
	}
	return e.applyReferenceResult("customer", "Customer not found", env)
}

// ValidateVendorReference checks the vendor reference against the backend.
func (e *Engine) ValidateVendorReference(ctx context.Context, reference string) bool {
	gen := e.vendorGen.Add(1)
	env := e.gw.ValidateVendor(ctx, reference)
	if e.vendorGen.Load() != gen {
		return false
	}
	return e.applyReferenceResult("vendor", "Vendor not found", env)
}

// ValidateReferences checks customer and vendor in parallel.
func (e *Engine) ValidateReferences(ctx context.Context) (customerOK, vendorOK bool) {
	s := e.State()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		customerOK = e.ValidateCustomerReference(ctx, s.GeneralInfo.Customer)
		return nil
	})
	g.Go(func() error {
		vendorOK = e.ValidateVendorReference(ctx, s.GeneralInfo.Vendor)
		return nil
	})
	_ = g.Wait()
	return customerOK, vendorOK
}

func (e *Engine) applyReferenceResult(field, fallback string, env *gateway.Envelope) bool {
	if env.Success {
		e.dispatch(clearFieldError{field: field})
		return true
	}
	message := env.Message
	if message == "" {
		message = fallback
	}
	e.dispatch(setFieldError{field: field, message: message})
	return false
}

// ── payload assembly ──────────────────────────────────────────────────────────

func buildPayload(s State, channel string, now time.Time) map[string]any {
	g := s.GeneralInfo
	i := s.ServiceInfo

	formFields := map[string]any{
		"customer":        g.Customer,
		"vendor":          g.Vendor,
		"adults":          g.Adults,
		"children":        g.Children,
		"infants":         g.Infants,
		"traveller1":      g.Traveller1,
		"traveller2":      g.Traveller2,
		"traveller3":      g.Traveller3,
		"bookingOwner":    g.BookingOwner,
		"remarks":         g.Remarks,
		"destination":     i.Destination,
		"departureDate":   i.DepartureDate,
		"returnDate":      i.ReturnDate,
		"budget":          i.Budget,
		"preferences":     i.Preferences,
		"specialRequests": i.SpecialRequests,
		"priority":        string(i.Priority),
		"flexible":        i.Flexible,
		"submittedAt":     now.UTC().Format(time.RFC3339),
	}
	// Service-specific fields merge flat; customer and vendor sub-forms stay
	// nested so their fields cannot collide with each other.
	for k, v := range s.ServiceForm {
		formFields[k] = v
	}
	if len(s.CustomerForm) > 0 {
		formFields["customerDetails"] = s.CustomerForm.Clone()
	}
	if len(s.VendorForm) > 0 {
		formFields["vendorDetails"] = s.VendorForm.Clone()
	}

	payload := map[string]any{
		"quotationType": string(s.Service.Category),
		"channel":       channel,
		"partyId":       g.Customer,
		"formFields":    formFields,
		"totalAmount":   i.Budget,
		"status":        "pending",
	}
	if s.CurrentDraftID != "" {
		payload["draftId"] = s.CurrentDraftID
	}
	return payload
}

func snapshotFromState(s State) draftstore.Snapshot {
	completed := make([]string, 0, len(s.CompletedSteps))
	for step := range s.CompletedSteps {
		completed = append(completed, string(step))
	}
	sort.Strings(completed)

	return draftstore.Snapshot{
		Service:        s.Service,
		GeneralInfo:    s.GeneralInfo,
		ServiceInfo:    s.ServiceInfo,
		CustomerForm:   s.CustomerForm.Clone(),
		VendorForm:     s.VendorForm.Clone(),
		ServiceForm:    s.ServiceForm.Clone(),
		CurrentStep:    string(s.CurrentStep),
		CompletedSteps: completed,
		DraftID:        s.CurrentDraftID,
	}
}

func quotationIDFromEnvelope(env *gateway.Envelope) string {
	var data struct {
		ID      string `json:"id"`
		MongoID string `json:"_id"`
	}
	if err := env.DecodeData(&data); err != nil {
		return ""
	}
	if data.ID != "" {
		return data.ID
	}
	return data.MongoID
}
