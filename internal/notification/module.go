package notification

import (
	"context"
	"fmt"
	"strings"

	domainevents "booking_portal_backend/internal/events"
	"booking_portal_backend/platform/config"
	"booking_portal_backend/platform/events"
	"booking_portal_backend/platform/logger"
)

// ModuleConfig is the configuration surface the notification module needs.
type ModuleConfig interface {
	config.SMTPConfig
	config.NotificationConfig
}

// Module wires booking events to a notification sink.
type Module struct {
	sink    Sink
	baseURL string
	log     *logger.Logger
}

// NewModule creates the notification module. When email delivery is disabled
// the module falls back to a log-only sink.
func NewModule(cfg ModuleConfig, log *logger.Logger) *Module {
	var sink Sink
	if cfg.GetEmailEnabled() {
		sink = NewSMTPSink(cfg, log)
	} else {
		sink = NewLogSink(log)
	}
	return &Module{
		sink:    sink,
		baseURL: strings.TrimRight(cfg.GetAppBaseURL(), "/"),
		log:     log,
	}
}

// Subscribe registers the module's event handlers on the bus.
func (m *Module) Subscribe(bus events.Bus) {
	bus.Subscribe(domainevents.BookingSubmittedName, events.HandlerFunc(m.onBookingSubmitted))
}

func (m *Module) onBookingSubmitted(ctx context.Context, event events.Event) error {
	ev, ok := event.(domainevents.BookingSubmitted)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.EventName())
	}
	return m.sink.NotifySubmission(ctx, Submission{
		QuotationID:     ev.QuotationID,
		Customer:        ev.Customer,
		ServiceCategory: ev.ServiceCategory,
		Destination:     ev.Destination,
		TotalAmount:     ev.TotalAmount,
		QuotationURL:    m.quotationURL(ev.QuotationID),
	})
}

func (m *Module) quotationURL(quotationID string) string {
	if quotationID == "" {
		return ""
	}
	return m.baseURL + "/quotations/" + quotationID
}
