// Package domain holds the core types and business rules for the booking
// bounded context: services, wizard form data, drafts, and the pure
// validation rules the workflow engine runs before submission.
package domain

// Category classifies a bookable service offering.
type Category string

const (
	CategoryTravel        Category = "travel"
	CategoryAccommodation Category = "accommodation"
	CategoryTransport     Category = "transport"
	CategoryActivity      Category = "activity"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryTravel, CategoryAccommodation, CategoryTransport, CategoryActivity:
		return true
	}
	return false
}

// Service is a selectable offering. Reference data: chosen once per booking,
// read-only thereafter.
type Service struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Image       string   `json:"image,omitempty"`
	Category    Category `json:"category"`
	Description string   `json:"description,omitempty"`
}

// Priority ranks how urgently a booking should be handled.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)
