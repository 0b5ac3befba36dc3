package domain

import (
	"testing"
	"time"
)

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(dateLayout)
}

func TestValidateGeneralInfoReportsEveryMissingField(t *testing.T) {
	errs := ValidateGeneralInfo(GeneralInfo{})

	for _, field := range []string{"customer", "vendor", "adults", "traveller1", "bookingOwner"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for %q, got none (errors: %v)", field, errs)
		}
	}
}

func TestValidateGeneralInfoBounds(t *testing.T) {
	tests := []struct {
		name      string
		info      GeneralInfo
		wantField string
		wantMsg   string
	}{
		{
			name:      "single char customer",
			info:      GeneralInfo{Customer: "A"},
			wantField: "customer",
			wantMsg:   "Customer must be at least 2 characters",
		},
		{
			name:      "too many adults",
			info:      GeneralInfo{Adults: 21},
			wantField: "adults",
			wantMsg:   "Adults cannot exceed 20",
		},
		{
			name:      "zero adults",
			info:      GeneralInfo{},
			wantField: "adults",
			wantMsg:   "At least 1 adult is required",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateGeneralInfo(tc.info)
			if got := errs[tc.wantField]; got != tc.wantMsg {
				t.Fatalf("expected %q error %q, got %q", tc.wantField, tc.wantMsg, got)
			}
		})
	}
}

func TestValidateGeneralInfoValid(t *testing.T) {
	errs := ValidateGeneralInfo(GeneralInfo{
		Customer:     "Amit Shah",
		Vendor:       "Skyways Travel",
		Adults:       2,
		Traveller1:   "Amit Shah",
		BookingOwner: "ops-desk-1",
	})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateServiceInfoReturnDateOrdering(t *testing.T) {
	travel := &Service{ID: "svc-1", Title: "Flights", Category: CategoryTravel}

	// Return date on or before departure must be rejected; strictly after is fine.
	info := ServiceInfo{
		Destination:   "Goa",
		DepartureDate: futureDate(10),
		ReturnDate:    futureDate(5),
		Budget:        5000,
	}
	errs := ValidateServiceInfo(info, travel)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if errs["returnDate"] != "Return date must be after departure date" {
		t.Fatalf("unexpected returnDate error: %q", errs["returnDate"])
	}

	info.ReturnDate = info.DepartureDate
	errs = ValidateServiceInfo(info, travel)
	if errs["returnDate"] != "Return date must be after departure date" {
		t.Fatalf("equal dates should be rejected, got %v", errs)
	}

	info.ReturnDate = futureDate(12)
	if errs := ValidateServiceInfo(info, travel); len(errs) != 0 {
		t.Fatalf("expected no errors for a later return date, got %v", errs)
	}
}

func TestValidateServiceInfoReturnDateRequiredForTravel(t *testing.T) {
	info := ServiceInfo{
		Destination:   "Goa",
		DepartureDate: futureDate(10),
		Budget:        5000,
	}

	travel := &Service{Category: CategoryTravel}
	if errs := ValidateServiceInfo(info, travel); errs["returnDate"] == "" {
		t.Fatal("expected returnDate error for travel category")
	}

	activity := &Service{Category: CategoryActivity}
	if errs := ValidateServiceInfo(info, activity); errs["returnDate"] != "" {
		t.Fatalf("returnDate should not be required for activity, got %q", errs["returnDate"])
	}
}

func TestValidateServiceInfoDateAndBudgetBounds(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1).Format(dateLayout)

	errs := ValidateServiceInfo(ServiceInfo{Destination: "Goa", DepartureDate: yesterday, Budget: 1}, nil)
	if errs["departureDate"] != "Departure date cannot be in the past" {
		t.Fatalf("expected past-date error, got %v", errs)
	}

	// Today counts as valid: comparison is date-only.
	today := time.Now().Format(dateLayout)
	errs = ValidateServiceInfo(ServiceInfo{Destination: "Goa", DepartureDate: today, Budget: 1}, nil)
	if errs["departureDate"] != "" {
		t.Fatalf("today should be accepted, got %q", errs["departureDate"])
	}

	errs = ValidateServiceInfo(ServiceInfo{Destination: "Goa", DepartureDate: futureDate(1)}, nil)
	if errs["budget"] != "Budget must be greater than 0" {
		t.Fatalf("expected budget error, got %v", errs)
	}

	errs = ValidateServiceInfo(ServiceInfo{Destination: "Goa", DepartureDate: futureDate(1), Budget: 10_000_001}, nil)
	if errs["budget"] != "Budget cannot exceed 10,000,000" {
		t.Fatalf("expected budget upper-bound error, got %v", errs)
	}
}

func validCustomerForm() FormData {
	return FormData{
		"firstname":      "Amit",
		"lastname":       "Shah",
		"contactnumber":  "9876543210",
		"emailId":        "amit@example.com",
		"billingaddress": "12 MG Road, Pune",
	}
}

func TestValidateCustomerForm(t *testing.T) {
	if errs := ValidateCustomerForm(validCustomerForm()); len(errs) != 0 {
		t.Fatalf("expected valid form, got %v", errs)
	}

	tests := []struct {
		name    string
		mutate  func(FormData)
		field   string
		wantMsg string
	}{
		{"short phone", func(f FormData) { f["contactnumber"] = "12345" }, "contactnumber", "Contact number must be 10 digits"},
		{"phone with letters", func(f FormData) { f["contactnumber"] = "98765x3210" }, "contactnumber", "Contact number must be 10 digits"},
		{"bad email", func(f FormData) { f["emailId"] = "not-an-email" }, "emailId", "Enter a valid email address"},
		{"bad gstin", func(f FormData) { f["gstin"] = "INVALID" }, "gstin", "Enter a valid GSTIN"},
		{"bad aadhaar", func(f FormData) { f["adhaarnumber"] = "123" }, "adhaarnumber", "Aadhaar number must be 12 digits"},
		{"bad pan", func(f FormData) { f["pan"] = "12345ABCDE" }, "pan", "Enter a valid PAN"},
		{"future dob", func(f FormData) { f["dateofbirth"] = futureDate(3) }, "dateofbirth", "Date of birth cannot be in the future"},
		{"missing billing address", func(f FormData) { delete(f, "billingaddress") }, "billingaddress", "Billing address is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			form := validCustomerForm()
			tc.mutate(form)
			errs := ValidateCustomerForm(form)
			if got := errs[tc.field]; got != tc.wantMsg {
				t.Fatalf("expected %q error %q, got %q", tc.field, tc.wantMsg, got)
			}
		})
	}
}

func TestValidateCustomerFormOptionalPatterns(t *testing.T) {
	form := validCustomerForm()
	form["gstin"] = "27AAPFU0939F1ZV"
	form["adhaarnumber"] = "123412341234"
	form["pan"] = "AAPFU0939F"

	if errs := ValidateCustomerForm(form); len(errs) != 0 {
		t.Fatalf("expected valid optional identifiers, got %v", errs)
	}
}

func TestValidateVendorFormRequiresCompanyDetails(t *testing.T) {
	form := validCustomerForm()
	errs := ValidateVendorForm(form)

	for _, field := range []string{"companyname", "companyemail", "document"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for %q, got none", field)
		}
	}

	form["companyname"] = "Skyways Travel Pvt Ltd"
	form["companyemail"] = "ops@skyways.example"
	form["document"] = "uploads/skyways-kyc.pdf"
	if errs := ValidateVendorForm(form); len(errs) != 0 {
		t.Fatalf("expected valid vendor form, got %v", errs)
	}
}

func validFlightForm() FormData {
	return FormData{
		"bookingdate":   futureDate(1),
		"traveldate":    futureDate(10),
		"bookingstatus": "confirmed",
		"costprice":     42000,
		"sellingprice":  "45500",
		"PNR":           "AB1234",
		"segments": []any{
			map[string]any{"flightnumber": "6341", "traveldate": futureDate(10), "cabinclass": "economy"},
		},
		"voucher":    "uploads/voucher.pdf",
		"taxinvoice": "uploads/invoice.pdf",
	}
}

func TestValidateFlightInfoFormPNRPattern(t *testing.T) {
	form := validFlightForm()
	form["PNR"] = "ab12c"
	if errs := ValidateFlightInfoForm(form); errs["PNR"] != "" {
		t.Fatalf("5 alphanumeric chars should pass case-insensitively, got %q", errs["PNR"])
	}

	form["PNR"] = "a"
	if errs := ValidateFlightInfoForm(form); errs["PNR"] == "" {
		t.Fatal("single-char PNR should fail")
	}

	form["PNR"] = "TOOLONGPNR12345"
	if errs := ValidateFlightInfoForm(form); errs["PNR"] == "" {
		t.Fatal("over-long PNR should fail")
	}
}

func TestValidateFlightInfoFormSegments(t *testing.T) {
	form := validFlightForm()
	form["segments"] = []any{}
	if errs := ValidateFlightInfoForm(form); errs["segments"] != "At least one flight segment is required" {
		t.Fatalf("expected empty-segments error, got %v", errs["segments"])
	}

	form = validFlightForm()
	form["segments"] = []any{
		map[string]any{"flightnumber": "1", "traveldate": futureDate(-5), "cabinclass": ""},
	}
	errs := ValidateFlightInfoForm(form)
	if errs["segments.0.flightnumber"] == "" {
		t.Error("expected flightnumber error for 1-digit number")
	}
	if errs["segments.0.traveldate"] == "" {
		t.Error("expected traveldate error for segment before booking date")
	}
	if errs["segments.0.cabinclass"] == "" {
		t.Error("expected cabinclass error")
	}
}

func TestValidateFlightInfoFormDatesAndFiles(t *testing.T) {
	form := validFlightForm()
	form["traveldate"] = futureDate(-2)
	form["bookingdate"] = futureDate(1)
	if errs := ValidateFlightInfoForm(form); errs["traveldate"] != "Travel date cannot be before booking date" {
		t.Fatalf("expected travel-before-booking error, got %q", errs["traveldate"])
	}

	form = validFlightForm()
	delete(form, "voucher")
	delete(form, "taxinvoice")
	errs := ValidateFlightInfoForm(form)
	if errs["voucher"] != "Voucher is required" || errs["taxinvoice"] != "Tax invoice is required" {
		t.Fatalf("expected file-reference errors, got %v", errs)
	}

	form = validFlightForm()
	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}
	form["remarks"] = string(long)
	if errs := ValidateFlightInfoForm(form); errs["remarks"] != "Remarks cannot exceed 500 characters" {
		t.Fatalf("expected remarks length error, got %v", errs)
	}
}

func validAccommodationForm() FormData {
	return FormData{
		"bookingdate":        futureDate(1),
		"traveldate":         futureDate(10),
		"bookingstatus":      "confirmed",
		"checkindate":        futureDate(10),
		"checkintime":        "14:00",
		"checkoutdate":       futureDate(14),
		"checkouttime":       "11:00",
		"pax":                2,
		"mealPlan":           "CP",
		"confirmationNumber": "HTL-88123",
		"accommodationType":  "hotel",
		"propertyName":       "Seaside Resort",
		"propertyAddress":    "Calangute Beach Road, Goa",
		"costprice":          18000,
		"sellingprice":       21000,
	}
}

func TestValidateAccommodationInfoForm(t *testing.T) {
	if errs := ValidateAccommodationInfoForm(validAccommodationForm()); len(errs) != 0 {
		t.Fatalf("expected valid form, got %v", errs)
	}

	errs := ValidateAccommodationInfoForm(FormData{})
	for _, field := range []string{
		"bookingdate", "traveldate", "bookingstatus", "checkindate", "checkintime",
		"checkoutdate", "checkouttime", "pax", "mealPlan", "confirmationNumber",
		"accommodationType", "propertyName", "propertyAddress", "costprice", "sellingprice",
	} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for %q, got none", field)
		}
	}
}

func TestValidateAccommodationInfoFormCheckoutOrdering(t *testing.T) {
	form := validAccommodationForm()
	form["checkoutdate"] = futureDate(8)
	form["checkindate"] = futureDate(10)
	if errs := ValidateAccommodationInfoForm(form); errs["checkoutdate"] != "Check-out date cannot be before check-in date" {
		t.Fatalf("expected checkout ordering error, got %v", errs)
	}
}

func TestValidateAccommodationInfoFormMapsLink(t *testing.T) {
	form := validAccommodationForm()
	form["googleMapsLink"] = "https://example.com/somewhere"
	if errs := ValidateAccommodationInfoForm(form); errs["googleMapsLink"] == "" {
		t.Fatal("expected googleMapsLink error for non-maps URL")
	}

	form["googleMapsLink"] = "https://maps.google.com/?q=Seaside+Resort"
	if errs := ValidateAccommodationInfoForm(form); errs["googleMapsLink"] != "" {
		t.Fatalf("expected maps link to pass, got %q", errs["googleMapsLink"])
	}
}
