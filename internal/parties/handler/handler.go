// Package handler exposes party CRUD and reference validation over HTTP.
package handler

import (
	"net/http"

	"booking_portal_backend/internal/parties/repository"
	"booking_portal_backend/internal/parties/service"
	"booking_portal_backend/internal/parties/transport"
	"booking_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for parties.
type Handler struct {
	svc *service.Service
}

// New creates a new parties handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the party routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:kind", h.List)
	rg.POST("/:kind", h.Create)
	rg.GET("/:kind/by-reference/:reference", h.GetByReference)
	rg.POST("/:kind/validate", h.ValidateReference)
	rg.GET("/:kind/:id", h.GetByID)
	rg.PUT("/:kind/:id", h.Update)
	rg.DELETE("/:kind/:id", httpkit.RequireRole("admin"), h.Delete)
}

// List returns parties of one kind, optionally filtered by ?q=.
func (h *Handler) List(c *gin.Context) {
	parties, err := h.svc.List(c.Request.Context(), repository.Kind(c.Param("kind")), c.Query("q"))
	if httpkit.HandleError(c, err) {
		return
	}
	if parties == nil {
		parties = []repository.Party{}
	}
	httpkit.OK(c, parties)
}

// Create registers a new party.
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if req.Kind != c.Param("kind") {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "kind does not match route")
		return
	}

	party, err := h.svc.Create(c.Request.Context(), service.CreateParams{
		Kind:        repository.Kind(req.Kind),
		Reference:   req.Reference,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		GSTIN:       req.GSTIN,
		Address:     req.Address,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, party)
}

// GetByID returns a single party.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "invalid party id")
		return
	}

	party, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, party)
}

// GetByReference returns a party by its external reference.
func (h *Handler) GetByReference(c *gin.Context) {
	party, err := h.svc.GetByReference(c.Request.Context(),
		repository.Kind(c.Param("kind")), c.Param("reference"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, party)
}

// ValidateReference reports whether an active party with the reference
// exists. Mirrors the envelope shape the booking gateway expects.
func (h *Handler) ValidateReference(c *gin.Context) {
	var req transport.ValidateReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	ok := h.svc.ValidateReference(c.Request.Context(), repository.Kind(c.Param("kind")), req.Reference)
	httpkit.OK(c, transport.ValidateReferenceResponse{Success: ok})
}

// Update replaces a party's mutable fields.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "invalid party id")
		return
	}

	var req transport.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	party, err := h.svc.Update(c.Request.Context(), id, service.UpdateParams{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		GSTIN:       req.GSTIN,
		Address:     req.Address,
		IsActive:    req.IsActive,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, party)
}

// Delete removes a party.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "invalid party id")
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}
