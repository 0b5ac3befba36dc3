package domain

// GeneralInfo holds traveller/party data for a booking. It has no identity of
// its own; it lives embedded in a draft or submission payload and is mutated
// incrementally as the user fills the general-info step.
type GeneralInfo struct {
	Customer     string `json:"customer,omitempty"`
	Vendor       string `json:"vendor,omitempty"`
	Adults       int    `json:"adults"`
	Children     int    `json:"children"`
	Infants      int    `json:"infants"`
	Traveller1   string `json:"traveller1,omitempty"`
	Traveller2   string `json:"traveller2,omitempty"`
	Traveller3   string `json:"traveller3,omitempty"`
	BookingOwner string `json:"bookingOwner,omitempty"`
	Remarks      string `json:"remarks,omitempty"`
}

// Merge overlays the non-zero fields of patch onto g and returns the result.
// Counts are pointers on the patch side so zero is distinguishable from unset.
func (g GeneralInfo) Merge(patch GeneralInfoPatch) GeneralInfo {
	if patch.Customer != nil {
		g.Customer = *patch.Customer
	}
	if patch.Vendor != nil {
		g.Vendor = *patch.Vendor
	}
	if patch.Adults != nil {
		g.Adults = *patch.Adults
	}
	if patch.Children != nil {
		g.Children = *patch.Children
	}
	if patch.Infants != nil {
		g.Infants = *patch.Infants
	}
	if patch.Traveller1 != nil {
		g.Traveller1 = *patch.Traveller1
	}
	if patch.Traveller2 != nil {
		g.Traveller2 = *patch.Traveller2
	}
	if patch.Traveller3 != nil {
		g.Traveller3 = *patch.Traveller3
	}
	if patch.BookingOwner != nil {
		g.BookingOwner = *patch.BookingOwner
	}
	if patch.Remarks != nil {
		g.Remarks = *patch.Remarks
	}
	return g
}

// GeneralInfoPatch is a partial GeneralInfo used for incremental updates.
type GeneralInfoPatch struct {
	Customer     *string `json:"customer,omitempty"`
	Vendor       *string `json:"vendor,omitempty"`
	Adults       *int    `json:"adults,omitempty"`
	Children     *int    `json:"children,omitempty"`
	Infants      *int    `json:"infants,omitempty"`
	Traveller1   *string `json:"traveller1,omitempty"`
	Traveller2   *string `json:"traveller2,omitempty"`
	Traveller3   *string `json:"traveller3,omitempty"`
	BookingOwner *string `json:"bookingOwner,omitempty"`
	Remarks      *string `json:"remarks,omitempty"`
}

// ServiceInfo holds service-specific trip parameters. Dates are wire-format
// strings ("2006-01-02"); validity of ReturnDate depends on the selected
// service's category.
type ServiceInfo struct {
	Destination     string   `json:"destination,omitempty"`
	DepartureDate   string   `json:"departureDate,omitempty"`
	ReturnDate      string   `json:"returnDate,omitempty"`
	Budget          float64  `json:"budget"`
	Preferences     string   `json:"preferences,omitempty"`
	SpecialRequests string   `json:"specialRequests,omitempty"`
	Priority        Priority `json:"priority,omitempty"`
	Flexible        bool     `json:"flexible"`
}

// Merge overlays the non-nil fields of patch onto s and returns the result.
func (s ServiceInfo) Merge(patch ServiceInfoPatch) ServiceInfo {
	if patch.Destination != nil {
		s.Destination = *patch.Destination
	}
	if patch.DepartureDate != nil {
		s.DepartureDate = *patch.DepartureDate
	}
	if patch.ReturnDate != nil {
		s.ReturnDate = *patch.ReturnDate
	}
	if patch.Budget != nil {
		s.Budget = *patch.Budget
	}
	if patch.Preferences != nil {
		s.Preferences = *patch.Preferences
	}
	if patch.SpecialRequests != nil {
		s.SpecialRequests = *patch.SpecialRequests
	}
	if patch.Priority != nil {
		s.Priority = *patch.Priority
	}
	if patch.Flexible != nil {
		s.Flexible = *patch.Flexible
	}
	return s
}

// ServiceInfoPatch is a partial ServiceInfo used for incremental updates.
type ServiceInfoPatch struct {
	Destination     *string   `json:"destination,omitempty"`
	DepartureDate   *string   `json:"departureDate,omitempty"`
	ReturnDate      *string   `json:"returnDate,omitempty"`
	Budget          *float64  `json:"budget,omitempty"`
	Preferences     *string   `json:"preferences,omitempty"`
	SpecialRequests *string   `json:"specialRequests,omitempty"`
	Priority        *Priority `json:"priority,omitempty"`
	Flexible        *bool     `json:"flexible,omitempty"`
}

// FormData is an opaque, arbitrarily-shaped payload for the service-specific
// sub-forms (customer, vendor, flight info, accommodation info). The workflow
// engine merges these into the submission payload without interpreting them;
// only the validation rules look inside.
type FormData map[string]any

// Clone returns a shallow copy of the form data.
func (f FormData) Clone() FormData {
	if f == nil {
		return nil
	}
	out := make(FormData, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
