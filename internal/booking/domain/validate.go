package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Errors maps a field name to a single human-readable message. Absence of a
// key means the field is valid. Rule functions check every field
// independently so the caller can surface all problems at once; they never
// short-circuit and never return an error through any other channel.
type Errors map[string]string

const dateLayout = "2006-01-02"

var (
	phoneRegex   = regexp.MustCompile(`^\d{10}$`)
	emailRegex   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	gstinRegex   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	aadhaarRegex = regexp.MustCompile(`^\d{12}$`)
	panRegex     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	pnrRegex     = regexp.MustCompile(`(?i)^[A-Z0-9]{5,10}$`)
	flightNumRe  = regexp.MustCompile(`^\d{2,6}$`)
)

// googleMapsPrefixes are the accepted prefixes for a shared maps link.
var googleMapsPrefixes = []string{
	"https://www.google.com/maps",
	"https://maps.google.com",
	"https://goo.gl/maps",
	"https://maps.app.goo.gl",
}

// parseDate parses a wire-format date, tolerating a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// truncateToDay drops the time-of-day component for date-only comparisons.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ValidateGeneralInfo checks the general-info step.
func ValidateGeneralInfo(info GeneralInfo) Errors {
	errs := Errors{}

	customer := strings.TrimSpace(info.Customer)
	switch {
	case customer == "":
		errs["customer"] = "Customer is required"
	case len(customer) < 2:
		errs["customer"] = "Customer must be at least 2 characters"
	}

	vendor := strings.TrimSpace(info.Vendor)
	switch {
	case vendor == "":
		errs["vendor"] = "Vendor is required"
	case len(vendor) < 2:
		errs["vendor"] = "Vendor must be at least 2 characters"
	}

	switch {
	case info.Adults < 1:
		errs["adults"] = "At least 1 adult is required"
	case info.Adults > 20:
		errs["adults"] = "Adults cannot exceed 20"
	}

	if strings.TrimSpace(info.Traveller1) == "" {
		errs["traveller1"] = "Lead passenger name is required"
	}
	if strings.TrimSpace(info.BookingOwner) == "" {
		errs["bookingOwner"] = "Booking owner is required"
	}

	return errs
}

// ValidateServiceInfo checks the service-info step. The selected service may
// be nil while the wizard is still on an earlier step; the return-date
// requirement only applies when the service category is travel.
func ValidateServiceInfo(info ServiceInfo, service *Service) Errors {
	errs := Errors{}

	if strings.TrimSpace(info.Destination) == "" {
		errs["destination"] = "Destination is required"
	}

	departure, departureOK := parseDate(info.DepartureDate)
	if !departureOK {
		errs["departureDate"] = "Departure date is required"
	} else if truncateToDay(departure).Before(truncateToDay(time.Now())) {
		errs["departureDate"] = "Departure date cannot be in the past"
	}

	ret, retOK := parseDate(info.ReturnDate)
	if service != nil && service.Category == CategoryTravel && !retOK {
		errs["returnDate"] = "Return date is required for travel bookings"
	}
	if departureOK && retOK && !ret.After(departure) {
		errs["returnDate"] = "Return date must be after departure date"
	}

	switch {
	case info.Budget <= 0:
		errs["budget"] = "Budget must be greater than 0"
	case info.Budget > 10_000_000:
		errs["budget"] = "Budget cannot exceed 10,000,000"
	}

	return errs
}

// ValidateCustomerForm checks the customer sub-form payload.
func ValidateCustomerForm(form FormData) Errors {
	errs := Errors{}

	if formString(form, "firstname") == "" {
		errs["firstname"] = "First name is required"
	}
	if formString(form, "lastname") == "" {
		errs["lastname"] = "Last name is required"
	}
	if !phoneRegex.MatchString(formString(form, "contactnumber")) {
		errs["contactnumber"] = "Contact number must be 10 digits"
	}
	if !emailRegex.MatchString(formString(form, "emailId")) {
		errs["emailId"] = "Enter a valid email address"
	}
	if gstin := formString(form, "gstin"); gstin != "" && !gstinRegex.MatchString(gstin) {
		errs["gstin"] = "Enter a valid GSTIN"
	}
	if aadhaar := formString(form, "adhaarnumber"); aadhaar != "" && !aadhaarRegex.MatchString(aadhaar) {
		errs["adhaarnumber"] = "Aadhaar number must be 12 digits"
	}
	if pan := formString(form, "pan"); pan != "" && !panRegex.MatchString(strings.ToUpper(pan)) {
		errs["pan"] = "Enter a valid PAN"
	}
	if formString(form, "billingaddress") == "" {
		errs["billingaddress"] = "Billing address is required"
	}
	if dob := formString(form, "dateofbirth"); dob != "" {
		if parsed, ok := parseDate(dob); ok && truncateToDay(parsed).After(truncateToDay(time.Now())) {
			errs["dateofbirth"] = "Date of birth cannot be in the future"
		}
	}

	return errs
}

// ValidateVendorForm checks the vendor sub-form payload. It mirrors the
// customer form plus company details and a mandatory document reference.
func ValidateVendorForm(form FormData) Errors {
	errs := ValidateCustomerForm(form)

	if formString(form, "companyname") == "" {
		errs["companyname"] = "Company name is required"
	}
	companyEmail := formString(form, "companyemail")
	switch {
	case companyEmail == "":
		errs["companyemail"] = "Company email is required"
	case !emailRegex.MatchString(companyEmail):
		errs["companyemail"] = "Enter a valid company email address"
	}
	if !hasFileRef(form, "document") {
		errs["document"] = "Document is required"
	}

	return errs
}

// ValidateFlightInfoForm checks the flight-info sub-form payload.
func ValidateFlightInfoForm(form FormData) Errors {
	errs := Errors{}

	bookingDate, bookingOK := parseDate(formString(form, "bookingdate"))
	if !bookingOK {
		errs["bookingdate"] = "Booking date is required"
	}

	travelDate, travelOK := parseDate(formString(form, "traveldate"))
	if !travelOK {
		errs["traveldate"] = "Travel date is required"
	} else if bookingOK && travelDate.Before(bookingDate) {
		errs["traveldate"] = "Travel date cannot be before booking date"
	}

	if formString(form, "bookingstatus") == "" {
		errs["bookingstatus"] = "Booking status is required"
	}

	if _, ok := formNumber(form, "costprice"); !ok {
		errs["costprice"] = "Cost price must be a number"
	}
	if _, ok := formNumber(form, "sellingprice"); !ok {
		errs["sellingprice"] = "Selling price must be a number"
	}

	pnr := formString(form, "PNR")
	switch {
	case pnr == "":
		errs["PNR"] = "PNR is required"
	case !pnrRegex.MatchString(pnr):
		errs["PNR"] = "PNR must be 5-10 alphanumeric characters"
	}

	segments := formSlice(form, "segments")
	if len(segments) == 0 {
		errs["segments"] = "At least one flight segment is required"
	}
	for i, raw := range segments {
		segment, ok := raw.(map[string]any)
		if !ok {
			segment = FormData{}
		}
		if !flightNumRe.MatchString(formString(segment, "flightnumber")) {
			errs[fmt.Sprintf("segments.%d.flightnumber", i)] = "Flight number must be 2-6 digits"
		}
		segTravel, segOK := parseDate(formString(segment, "traveldate"))
		if !segOK {
			errs[fmt.Sprintf("segments.%d.traveldate", i)] = "Segment travel date is required"
		} else if bookingOK && segTravel.Before(bookingDate) {
			errs[fmt.Sprintf("segments.%d.traveldate", i)] = "Segment travel date cannot be before booking date"
		}
		if formString(segment, "cabinclass") == "" {
			errs[fmt.Sprintf("segments.%d.cabinclass", i)] = "Cabin class is required"
		}
	}

	if !hasFileRef(form, "voucher") {
		errs["voucher"] = "Voucher is required"
	}
	if !hasFileRef(form, "taxinvoice") {
		errs["taxinvoice"] = "Tax invoice is required"
	}

	if len(formString(form, "remarks")) > 500 {
		errs["remarks"] = "Remarks cannot exceed 500 characters"
	}

	return errs
}

// ValidateAccommodationInfoForm checks the accommodation-info sub-form payload.
func ValidateAccommodationInfoForm(form FormData) Errors {
	errs := Errors{}

	required := []struct {
		field string
		label string
	}{
		{"bookingdate", "Booking date"},
		{"traveldate", "Travel date"},
		{"bookingstatus", "Booking status"},
		{"checkindate", "Check-in date"},
		{"checkintime", "Check-in time"},
		{"checkoutdate", "Check-out date"},
		{"checkouttime", "Check-out time"},
		{"mealPlan", "Meal plan"},
		{"confirmationNumber", "Confirmation number"},
		{"accommodationType", "Accommodation type"},
		{"propertyName", "Property name"},
		{"propertyAddress", "Property address"},
	}
	for _, r := range required {
		if formString(form, r.field) == "" {
			errs[r.field] = r.label + " is required"
		}
	}

	if pax, ok := formNumber(form, "pax"); !ok {
		errs["pax"] = "Pax must be a number"
	} else if pax < 0 {
		errs["pax"] = "Pax cannot be negative"
	}

	if cost, ok := formNumber(form, "costprice"); !ok {
		errs["costprice"] = "Cost price must be a number"
	} else if cost < 0 {
		errs["costprice"] = "Cost price cannot be negative"
	}

	if selling, ok := formNumber(form, "sellingprice"); !ok {
		errs["sellingprice"] = "Selling price must be a number"
	} else if selling <= 0 {
		errs["sellingprice"] = "Selling price must be greater than 0"
	}

	checkIn, inOK := parseDate(formString(form, "checkindate"))
	checkOut, outOK := parseDate(formString(form, "checkoutdate"))
	if inOK && outOK && checkOut.Before(checkIn) {
		errs["checkoutdate"] = "Check-out date cannot be before check-in date"
	}

	if link := formString(form, "googleMapsLink"); link != "" && !isGoogleMapsLink(link) {
		errs["googleMapsLink"] = "Enter a valid Google Maps link"
	}

	return errs
}

func isGoogleMapsLink(link string) bool {
	for _, prefix := range googleMapsPrefixes {
		if strings.HasPrefix(link, prefix) {
			return true
		}
	}
	return false
}

// ── Form payload accessors ────────────────────────────────────────────────────

// formString extracts a trimmed string field from an opaque form payload.
func formString(form FormData, key string) string {
	if form == nil {
		return ""
	}
	if s, ok := form[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// formNumber extracts a numeric field, tolerating JSON numbers, ints, and
// numeric strings.
func formNumber(form FormData, key string) (float64, bool) {
	if form == nil {
		return 0, false
	}
	switch v := form[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// formSlice extracts a slice field from an opaque form payload.
func formSlice(form FormData, key string) []any {
	if form == nil {
		return nil
	}
	if s, ok := form[key].([]any); ok {
		return s
	}
	return nil
}

// hasFileRef reports whether a file-reference field is present. Files are
// opaque handles here: a non-empty string key or staged-object map counts,
// the actual bytes go through the attachments upload path separately.
func hasFileRef(form FormData, key string) bool {
	if form == nil {
		return false
	}
	switch v := form[key].(type) {
	case string:
		return strings.TrimSpace(v) != ""
	case map[string]any:
		return len(v) > 0
	case nil:
		return false
	default:
		return true
	}
}
