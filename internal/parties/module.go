// Package parties provides the customer/vendor directory module.
package parties

import (
	"context"

	apphttp "booking_portal_backend/internal/http"
	"booking_portal_backend/internal/parties/handler"
	"booking_portal_backend/internal/parties/repository"
	"booking_portal_backend/internal/parties/service"
	"booking_portal_backend/platform/logger"
	"booking_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the parties domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new parties module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, val, log)

	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "parties"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Ping checks database connectivity for readiness probes.
func (m *Module) Ping(ctx context.Context) error {
	return m.service.Ping(ctx)
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/parties"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
