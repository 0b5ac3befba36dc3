// Package booking provides the booking wizard domain module.
package booking

import (
	"context"

	"booking_portal_backend/internal/booking/draftstore"
	"booking_portal_backend/internal/booking/gateway"
	"booking_portal_backend/internal/booking/handler"
	"booking_portal_backend/internal/booking/syncer"
	"booking_portal_backend/internal/booking/workflow"
	apphttp "booking_portal_backend/internal/http"
	"booking_portal_backend/platform/config"
	"booking_portal_backend/platform/events"
	"booking_portal_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// ModuleConfig combines the config interfaces the booking module needs.
type ModuleConfig interface {
	config.GatewayConfig
	config.WorkflowConfig
}

// Module represents the booking domain module.
type Module struct {
	store   *draftstore.Store
	gw      *gateway.Client
	engine  *workflow.Engine
	syncer  *syncer.Syncer
	handler *handler.Handler
}

// NewModule creates the booking module with all dependencies wired. sync may
// be nil when no task queue is configured.
func NewModule(rdb *redis.Client, tokens gateway.TokenSource, bus events.Bus, sync handler.DraftSyncTrigger, cfg ModuleConfig, log *logger.Logger) *Module {
	store := draftstore.New(rdb, log)
	gw := gateway.New(cfg, tokens, log)
	engine := workflow.New(store, gw, bus, cfg, log)

	return &Module{
		store:   store,
		gw:      gw,
		engine:  engine,
		syncer:  syncer.New(store, gw, bus, cfg, log),
		handler: handler.New(engine, gw, sync, log),
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "booking"
}

// Engine returns the workflow engine for external use.
func (m *Module) Engine() *workflow.Engine {
	return m.engine
}

// Store returns the draft store for external use.
func (m *Module) Store() *draftstore.Store {
	return m.store
}

// Syncer returns the draft reconciler for scheduled runs.
func (m *Module) Syncer() *syncer.Syncer {
	return m.syncer
}

// Restore rehydrates the wizard from its persisted snapshot.
func (m *Module) Restore(ctx context.Context) bool {
	return m.engine.Restore(ctx)
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/booking"))
	m.handler.RegisterQuotationRoutes(ctx.Protected.Group("/quotations"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
