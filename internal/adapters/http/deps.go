package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/tourguide/internal/adapters/postgres"
	"github.com/samirrijal/tourguide/internal/adapters/valkey"
	"github.com/samirrijal/tourguide/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
// NATS, DB and Cache are optional; readiness reports them as not configured.
type Dependencies struct {
	TourGuide *usecases.TourGuideService
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache
}
