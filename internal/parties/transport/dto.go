// Package transport defines HTTP request shapes for the parties module.
package transport

// CreatePartyRequest is the payload for registering a party.
type CreatePartyRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=customer vendor"`
	Reference   string `json:"reference" binding:"required"`
	Name        string `json:"name" binding:"required,min=2"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName"`
	GSTIN       string `json:"gstin"`
	Address     string `json:"address"`
}

// UpdatePartyRequest is the payload for updating a party. Empty fields keep
// their stored values.
type UpdatePartyRequest struct {
	Name        string `json:"name" binding:"omitempty,min=2"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName"`
	GSTIN       string `json:"gstin"`
	Address     string `json:"address"`
	IsActive    *bool  `json:"isActive"`
}

// ValidateReferenceRequest names the party to check.
type ValidateReferenceRequest struct {
	Reference string `json:"reference" binding:"required"`
}

// ValidateReferenceResponse reports whether the reference resolves.
type ValidateReferenceResponse struct {
	Success bool `json:"success"`
}
