// Package notification delivers booking outcome notices. The workflow engine
// never talks to this package directly: it publishes domain events, and the
// module forwards them to whichever sink is configured.
package notification

import (
	"context"

	"booking_portal_backend/platform/logger"
)

// Submission is the notice sent when a booking submission produced a
// quotation.
type Submission struct {
	QuotationID     string
	Customer        string
	ServiceCategory string
	Destination     string
	TotalAmount     float64
	QuotationURL    string
}

// Sink delivers submission notices.
type Sink interface {
	NotifySubmission(ctx context.Context, sub Submission) error
}

// LogSink writes notices to the structured log. Used when email delivery is
// disabled.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a log-only sink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

// NotifySubmission logs the submission notice.
func (s *LogSink) NotifySubmission(_ context.Context, sub Submission) error {
	s.log.Info("booking submitted",
		"quotation_id", sub.QuotationID,
		"customer", sub.Customer,
		"category", sub.ServiceCategory,
		"destination", sub.Destination,
		"total_amount", sub.TotalAmount,
	)
	return nil
}
