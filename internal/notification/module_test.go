package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	domainevents "booking_portal_backend/internal/events"
	"booking_portal_backend/platform/events"
	"booking_portal_backend/platform/logger"
)

type testNotificationConfig struct {
	emailEnabled bool
}

func (c testNotificationConfig) GetEmailEnabled() bool        { return c.emailEnabled }
func (testNotificationConfig) GetSMTPHost() string            { return "localhost" }
func (testNotificationConfig) GetSMTPPort() int               { return 2525 }
func (testNotificationConfig) GetSMTPUsername() string        { return "" }
func (testNotificationConfig) GetSMTPPassword() string        { return "" }
func (testNotificationConfig) GetEmailFromName() string       { return "Booking Portal" }
func (testNotificationConfig) GetEmailFromAddress() string    { return "ops@example.com" }
func (testNotificationConfig) GetAppBaseURL() string          { return "https://app.example.com/" }

type recordingSink struct {
	calls []Submission
}

func (s *recordingSink) NotifySubmission(_ context.Context, sub Submission) error {
	s.calls = append(s.calls, sub)
	return nil
}

func TestBookingSubmittedReachesSink(t *testing.T) {
	log := logger.New("development")
	sink := &recordingSink{}
	m := NewModule(testNotificationConfig{}, log)
	m.sink = sink

	bus := events.NewInMemoryBus(log)
	m.Subscribe(bus)

	err := bus.PublishSync(context.Background(), domainevents.BookingSubmitted{
		BaseEvent:       events.BaseEvent{Timestamp: time.Now()},
		QuotationID:     "q_123",
		Customer:        "CUST-001",
		ServiceCategory: "flight",
		Destination:     "Goa",
		TotalAmount:     45000,
	})
	if err != nil {
		t.Fatalf("publish returned error: %v", err)
	}

	if len(sink.calls) != 1 {
		t.Fatalf("expected 1 sink call, got %d", len(sink.calls))
	}
	sub := sink.calls[0]
	if sub.QuotationID != "q_123" {
		t.Errorf("unexpected quotation id %q", sub.QuotationID)
	}
	if sub.QuotationURL != "https://app.example.com/quotations/q_123" {
		t.Errorf("unexpected quotation url %q", sub.QuotationURL)
	}
}

func TestQuotationURLEmptyWithoutID(t *testing.T) {
	m := NewModule(testNotificationConfig{}, logger.New("development"))
	if got := m.quotationURL(""); got != "" {
		t.Fatalf("expected empty url for empty quotation id, got %q", got)
	}
}

func TestDisabledEmailFallsBackToLogSink(t *testing.T) {
	m := NewModule(testNotificationConfig{emailEnabled: false}, logger.New("development"))
	if _, ok := m.sink.(*LogSink); !ok {
		t.Fatalf("expected log sink when email is disabled, got %T", m.sink)
	}

	enabled := NewModule(testNotificationConfig{emailEnabled: true}, logger.New("development"))
	if _, ok := enabled.sink.(*SMTPSink); !ok {
		t.Fatalf("expected smtp sink when email is enabled, got %T", enabled.sink)
	}
}

func TestConfirmationBodyEscapesUserContent(t *testing.T) {
	body := confirmationBody(Submission{
		QuotationID:     "q_1",
		Customer:        "<script>alert(1)</script>",
		ServiceCategory: "holiday",
		Destination:     "Goa",
		TotalAmount:     100,
		QuotationURL:    "https://app.example.com/quotations/q_1",
	})
	if strings.Contains(body, "<script>") {
		t.Fatal("expected customer content to be escaped in email body")
	}
	if !strings.Contains(body, "q_1") {
		t.Fatal("expected quotation id to appear in email body")
	}
}
