// Package handler exposes the booking wizard over HTTP. The routes map
// one-to-one onto workflow intents; the presentation layer dispatches and
// re-reads the state response.
package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"booking_portal_backend/internal/booking/domain"
	"booking_portal_backend/internal/booking/gateway"
	"booking_portal_backend/internal/booking/transport"
	"booking_portal_backend/internal/booking/workflow"
	"booking_portal_backend/platform/httpkit"
	"booking_portal_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

const msgInvalidRequest = "invalid request"

// QuotationGateway is the slice of the booking backend the handler proxies.
type QuotationGateway interface {
	GetQuotation(ctx context.Context, id string) *gateway.Envelope
	UpdateQuotation(ctx context.Context, id string, payload map[string]any) *gateway.Envelope
	DeleteQuotation(ctx context.Context, id string) *gateway.Envelope
	ListQuotationsForParty(ctx context.Context, partyReference string) *gateway.Envelope
	ListAllQuotations(ctx context.Context, page, limit int) *gateway.Envelope
	UploadFile(ctx context.Context, filename string, content io.Reader, kind gateway.FileKind) *gateway.Envelope
}

// DraftSyncTrigger enqueues an immediate draft reconciliation pass.
type DraftSyncTrigger interface {
	TriggerDraftSync(ctx context.Context) error
}

// Handler handles HTTP requests for the booking wizard.
type Handler struct {
	engine *workflow.Engine
	gw     QuotationGateway
	sync   DraftSyncTrigger
	log    *logger.Logger
}

// New creates a booking handler. sync may be nil when no task queue is
// configured; the sync endpoint then reports the feature as unavailable.
func New(engine *workflow.Engine, gw QuotationGateway, sync DraftSyncTrigger, log *logger.Logger) *Handler {
	return &Handler{engine: engine, gw: gw, sync: sync, log: log}
}

// RegisterRoutes registers the booking wizard routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/state", h.State)
	rg.POST("/service", h.SelectService)
	rg.POST("/picker", h.TogglePicker)
	rg.POST("/details", h.ToggleDetails)
	rg.PATCH("/general-info", h.UpdateGeneralInfo)
	rg.PATCH("/service-info", h.UpdateServiceInfo)
	rg.PATCH("/forms/:kind", h.UpdateForm)
	rg.POST("/step", h.SetStep)
	rg.POST("/steps/complete", h.CompleteStep)
	rg.PUT("/errors", h.SetErrors)
	rg.DELETE("/errors", h.ClearErrors)
	rg.POST("/validate", h.ValidateForms)
	rg.POST("/submit", h.Submit)
	rg.POST("/reset", h.Reset)
	rg.POST("/validate-references", h.ValidateReferences)

	rg.GET("/drafts", h.ListDrafts)
	rg.POST("/drafts", h.SaveDraft)
	rg.DELETE("/drafts", h.ClearDrafts)
	rg.GET("/drafts/count", h.CountDrafts)
	rg.GET("/drafts/search", h.SearchDrafts)
	rg.POST("/drafts/sync", httpkit.RequireRole("admin"), h.SyncDrafts)
	rg.POST("/drafts/:id/load", h.LoadDraft)
	rg.DELETE("/drafts/:id", h.DeleteDraft)

	rg.POST("/files", h.UploadFile)
}

// RegisterQuotationRoutes registers the quotation pass-through routes.
func (h *Handler) RegisterQuotationRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListQuotations)
	rg.GET("/:id", h.GetQuotation)
	rg.PUT("/:id", h.UpdateQuotation)
	rg.DELETE("/:id", h.DeleteQuotation)
}

// ── wizard state ──────────────────────────────────────────────────────────────

// State returns the current wizard state with derived properties.
func (h *Handler) State(c *gin.Context) {
	httpkit.OK(c, transport.StateFromWorkflow(h.engine.State()))
}

// SelectService records the chosen service and advances the wizard.
func (h *Handler) SelectService(c *gin.Context) {
	var req transport.SelectServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	svc := req.ToService()
	if !svc.Category.Valid() {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "unknown service category")
		return
	}

	h.engine.Dispatch(c.Request.Context(), workflow.SelectService{Service: svc})
	h.State(c)
}

// TogglePicker opens or closes the service picker.
func (h *Handler) TogglePicker(c *gin.Context) {
	var req transport.PanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if req.Open {
		h.engine.Dispatch(c.Request.Context(), workflow.OpenServicePicker{})
	} else {
		h.engine.Dispatch(c.Request.Context(), workflow.CloseServicePicker{})
	}
	h.State(c)
}

// ToggleDetails opens or closes the details panel.
func (h *Handler) ToggleDetails(c *gin.Context) {
	var req transport.PanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if req.Open {
		h.engine.Dispatch(c.Request.Context(), workflow.OpenDetailsPanel{})
	} else {
		h.engine.Dispatch(c.Request.Context(), workflow.CloseDetailsPanel{})
	}
	h.State(c)
}

// UpdateGeneralInfo merges a partial general-info update.
func (h *Handler) UpdateGeneralInfo(c *gin.Context) {
	var patch domain.GeneralInfoPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	h.engine.Dispatch(c.Request.Context(), workflow.UpdateGeneralInfo{Patch: patch})
	h.State(c)
}

// UpdateServiceInfo merges a partial service-info update.
func (h *Handler) UpdateServiceInfo(c *gin.Context) {
	var patch domain.ServiceInfoPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	h.engine.Dispatch(c.Request.Context(), workflow.UpdateServiceInfo{Patch: patch})
	h.State(c)
}

// UpdateForm merges fields into one of the opaque sub-forms.
func (h *Handler) UpdateForm(c *gin.Context) {
	var req transport.FormPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	switch c.Param("kind") {
	case "customer":
		h.engine.Dispatch(ctx, workflow.UpdateCustomerForm{Fields: req.Fields})
	case "vendor":
		h.engine.Dispatch(ctx, workflow.UpdateVendorForm{Fields: req.Fields})
	case "service":
		h.engine.Dispatch(ctx, workflow.UpdateServiceForm{Fields: req.Fields})
	default:
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "unknown form kind")
		return
	}
	h.State(c)
}

// SetStep repositions the wizard.
func (h *Handler) SetStep(c *gin.Context) {
	var req transport.StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	step := workflow.Step(req.Step)
	if !workflow.ValidStep(step) {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "unknown step")
		return
	}
	h.engine.Dispatch(c.Request.Context(), workflow.SetCurrentStep{Step: step})
	h.State(c)
}

// CompleteStep marks a step as completed.
func (h *Handler) CompleteStep(c *gin.Context) {
	var req transport.StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	step := workflow.Step(req.Step)
	if !workflow.ValidStep(step) {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "unknown step")
		return
	}
	h.engine.Dispatch(c.Request.Context(), workflow.CompleteStep{Step: step})
	h.State(c)
}

// SetErrors replaces the wizard error map.
func (h *Handler) SetErrors(c *gin.Context) {
	var req transport.ErrorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	h.engine.Dispatch(c.Request.Context(), workflow.SetErrors{Errors: req.Errors})
	h.State(c)
}

// ClearErrors empties the wizard error map.
func (h *Handler) ClearErrors(c *gin.Context) {
	h.engine.Dispatch(c.Request.Context(), workflow.ClearErrors{})
	h.State(c)
}

// ValidateForms runs every applicable validation rule and returns the
// refreshed state.
func (h *Handler) ValidateForms(c *gin.Context) {
	h.engine.ValidateForms(c.Request.Context())
	h.State(c)
}

// Submit attempts to create a quotation from the wizard contents.
func (h *Handler) Submit(c *gin.Context) {
	quotationID, ok := h.engine.SubmitBooking(c.Request.Context())
	state := h.engine.State()

	resp := transport.SubmitResponse{
		Success:     ok,
		QuotationID: quotationID,
		Message:     state.SubmitError,
		Errors:      state.Errors,
	}
	if ok {
		httpkit.OK(c, resp)
		return
	}
	// The wizard stays interactive after a failed submit.
	httpkit.JSON(c, http.StatusUnprocessableEntity, resp)
}

// Reset restores the wizard to its initial state.
func (h *Handler) Reset(c *gin.Context) {
	h.engine.ResetBooking(c.Request.Context())
	h.State(c)
}

// ValidateReferences checks the customer and vendor references.
func (h *Handler) ValidateReferences(c *gin.Context) {
	customerOK, vendorOK := h.engine.ValidateReferences(c.Request.Context())
	httpkit.OK(c, transport.ReferenceCheckResponse{
		CustomerValid: customerOK,
		VendorValid:   vendorOK,
	})
}

// ── drafts ────────────────────────────────────────────────────────────────────

// ListDrafts refreshes and returns the draft list.
func (h *Handler) ListDrafts(c *gin.Context) {
	httpkit.OK(c, h.engine.LoadDrafts(c.Request.Context()))
}

// SaveDraft persists the wizard contents as a draft.
func (h *Handler) SaveDraft(c *gin.Context) {
	var req transport.SaveDraftRequest
	// An empty body is fine: the name defaults from the service title.
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	draft := h.engine.SaveDraft(c.Request.Context(), req.Name)
	if draft == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, h.engine.State().DraftError, nil)
		return
	}
	httpkit.Created(c, draft)
}

// ClearDrafts removes every stored draft.
func (h *Handler) ClearDrafts(c *gin.Context) {
	h.engine.ClearDrafts(c.Request.Context())
	h.State(c)
}

// CountDrafts returns the number of stored drafts.
func (h *Handler) CountDrafts(c *gin.Context) {
	httpkit.OK(c, gin.H{"count": h.engine.CountDrafts(c.Request.Context())})
}

// SearchDrafts filters drafts by a case-insensitive query.
func (h *Handler) SearchDrafts(c *gin.Context) {
	httpkit.OK(c, h.engine.SearchDrafts(c.Request.Context(), c.Query("q")))
}

// SyncDrafts enqueues a reconciliation pass ahead of the next scheduled run.
func (h *Handler) SyncDrafts(c *gin.Context) {
	if h.sync == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "draft sync is not available", nil)
		return
	}
	if err := h.sync.TriggerDraftSync(c.Request.Context()); err != nil {
		h.log.Error("failed to enqueue draft sync", "error", err)
		httpkit.Error(c, http.StatusServiceUnavailable, "could not enqueue draft sync", nil)
		return
	}
	httpkit.OK(c, gin.H{"enqueued": true})
}

// LoadDraft loads a stored draft into the wizard.
func (h *Handler) LoadDraft(c *gin.Context) {
	if !h.engine.LoadDraft(c.Request.Context(), c.Param("id")) {
		httpkit.Error(c, http.StatusNotFound, h.engine.State().DraftError, nil)
		return
	}
	h.State(c)
}

// DeleteDraft removes a draft.
func (h *Handler) DeleteDraft(c *gin.Context) {
	if !h.engine.DeleteDraft(c.Request.Context(), c.Param("id")) {
		httpkit.Error(c, http.StatusNotFound, "Draft not found.", nil)
		return
	}
	h.State(c)
}

// ── gateway pass-throughs ─────────────────────────────────────────────────────

// ListQuotations proxies quotation listing, paginated or by party.
func (h *Handler) ListQuotations(c *gin.Context) {
	ctx := c.Request.Context()
	if party := c.Query("party"); party != "" {
		h.relayEnvelope(c, h.gw.ListQuotationsForParty(ctx, party))
		return
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	h.relayEnvelope(c, h.gw.ListAllQuotations(ctx, page, limit))
}

// GetQuotation proxies a single quotation fetch.
func (h *Handler) GetQuotation(c *gin.Context) {
	h.relayEnvelope(c, h.gw.GetQuotation(c.Request.Context(), c.Param("id")))
}

// UpdateQuotation proxies a quotation update.
func (h *Handler) UpdateQuotation(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	h.relayEnvelope(c, h.gw.UpdateQuotation(c.Request.Context(), c.Param("id"), payload))
}

// DeleteQuotation proxies a quotation delete.
func (h *Handler) DeleteQuotation(c *gin.Context) {
	h.relayEnvelope(c, h.gw.DeleteQuotation(c.Request.Context(), c.Param("id")))
}

// UploadFile relays a multipart upload to the backend.
func (h *Handler) UploadFile(c *gin.Context) {
	kind := gateway.FileKind(c.DefaultPostForm("kind", string(gateway.FileKindDocument)))
	if kind != gateway.FileKindDocument && kind != gateway.FileKindImage {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "kind must be document or image")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	defer file.Close()

	h.relayEnvelope(c, h.gw.UploadFile(c.Request.Context(), fileHeader.Filename, file, kind))
}

func (h *Handler) relayEnvelope(c *gin.Context, env *gateway.Envelope) {
	if env.Success {
		httpkit.OK(c, env)
		return
	}
	httpkit.JSON(c, http.StatusBadGateway, env)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value := c.Query(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
