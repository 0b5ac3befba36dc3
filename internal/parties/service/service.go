// Package service implements party business logic: normalization before
// writes and the reference validation consumed by the booking wizard.
package service

import (
	"context"
	"strings"

	"booking_portal_backend/internal/parties/repository"
	"booking_portal_backend/platform/apperr"
	"booking_portal_backend/platform/logger"
	"booking_portal_backend/platform/phone"
	"booking_portal_backend/platform/validator"

	"github.com/google/uuid"
)

// Service handles party operations.
type Service struct {
	repo *repository.Repo
	val  *validator.Validator
	log  *logger.Logger
}

// New creates a new parties service.
func New(repo *repository.Repo, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{repo: repo, val: val, log: log}
}

// CreateParams are the inputs for creating a party.
type CreateParams struct {
	Kind        repository.Kind
	Reference   string
	Name        string
	Email       string
	Phone       string
	CompanyName string
	GSTIN       string
	Address     string
}

// Create validates and stores a new party. Phone numbers are normalized to
// E.164 so lookups and display stay consistent.
func (s *Service) Create(ctx context.Context, params CreateParams) (repository.Party, error) {
	if !params.Kind.Valid() {
		return repository.Party{}, apperr.BadRequest("kind must be customer or vendor")
	}
	reference := strings.TrimSpace(params.Reference)
	if reference == "" {
		return repository.Party{}, apperr.BadRequest("reference is required")
	}
	name := strings.TrimSpace(params.Name)
	if len(name) < 2 {
		return repository.Party{}, apperr.BadRequest("name must be at least 2 characters")
	}
	if params.Kind == repository.KindVendor && strings.TrimSpace(params.CompanyName) == "" {
		return repository.Party{}, apperr.BadRequest("company name is required for vendors")
	}
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email != "" {
		if err := s.val.Var(email, "email"); err != nil {
			return repository.Party{}, apperr.BadRequest("email is invalid")
		}
	}
	if params.Phone != "" && !phone.Valid(params.Phone) {
		s.log.Warn("storing phone number as entered", "party", reference, "phone", params.Phone)
	}

	return s.repo.Create(ctx, repository.Party{
		Kind:        params.Kind,
		Reference:   reference,
		Name:        name,
		Email:       email,
		Phone:       phone.NormalizeE164(params.Phone),
		CompanyName: strings.TrimSpace(params.CompanyName),
		GSTIN:       strings.ToUpper(strings.TrimSpace(params.GSTIN)),
		Address:     strings.TrimSpace(params.Address),
		IsActive:    true,
	})
}

// Get retrieves a party by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Party, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByReference retrieves a party by kind and reference.
func (s *Service) GetByReference(ctx context.Context, kind repository.Kind, reference string) (repository.Party, error) {
	if !kind.Valid() {
		return repository.Party{}, apperr.BadRequest("kind must be customer or vendor")
	}
	return s.repo.GetByReference(ctx, kind, reference)
}

// List retrieves parties of one kind with an optional search filter.
func (s *Service) List(ctx context.Context, kind repository.Kind, search string) ([]repository.Party, error) {
	if !kind.Valid() {
		return nil, apperr.BadRequest("kind must be customer or vendor")
	}
	return s.repo.List(ctx, kind, strings.TrimSpace(search))
}

// UpdateParams are the mutable inputs for updating a party.
type UpdateParams struct {
	Name        string
	Email       string
	Phone       string
	CompanyName string
	GSTIN       string
	Address     string
	IsActive    *bool
}

// Update replaces a party's mutable fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (repository.Party, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Party{}, err
	}

	if name := strings.TrimSpace(params.Name); name != "" {
		if len(name) < 2 {
			return repository.Party{}, apperr.BadRequest("name must be at least 2 characters")
		}
		existing.Name = name
	}
	if params.Email != "" {
		email := strings.ToLower(strings.TrimSpace(params.Email))
		if err := s.val.Var(email, "email"); err != nil {
			return repository.Party{}, apperr.BadRequest("email is invalid")
		}
		existing.Email = email
	}
	if params.Phone != "" {
		if !phone.Valid(params.Phone) {
			s.log.Warn("storing phone number as entered", "party", existing.Reference, "phone", params.Phone)
		}
		existing.Phone = phone.NormalizeE164(params.Phone)
	}
	if params.CompanyName != "" {
		existing.CompanyName = strings.TrimSpace(params.CompanyName)
	}
	if params.GSTIN != "" {
		existing.GSTIN = strings.ToUpper(strings.TrimSpace(params.GSTIN))
	}
	if params.Address != "" {
		existing.Address = strings.TrimSpace(params.Address)
	}
	if params.IsActive != nil {
		existing.IsActive = *params.IsActive
	}

	return s.repo.Update(ctx, existing)
}

// Delete removes a party.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ValidateReference reports whether an active party with the given kind and
// reference exists. Repository failures log and report invalid rather than
// erroring: callers treat this as advisory.
func (s *Service) ValidateReference(ctx context.Context, kind repository.Kind, reference string) bool {
	if !kind.Valid() || strings.TrimSpace(reference) == "" {
		return false
	}
	exists, err := s.repo.ExistsActive(ctx, kind, strings.TrimSpace(reference))
	if err != nil {
		s.log.DatabaseError("validate_party_reference", err)
		return false
	}
	return exists
}

// Ping checks database connectivity for readiness probes.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
