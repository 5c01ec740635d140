// Package handler implements the HTTP handlers for the farm logbook API.
// All handlers are methods on Server so they share its dependencies. Routes
// are registered on a chi router by Server.Routes.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
	"github.com/pkordes/farm-logbook/backend/internal/service"
)

// Resolver turns a path identifier into one record of kind T.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the store or service layer.
type Resolver[T domain.Entity] interface {
	Resolve(ctx context.Context, identifier string) (service.Resolution[T], error)
}

// Suggester serves typeahead suggestions for a single collection.
// It never fails: store errors degrade to an empty list.
type Suggester interface {
	Search(ctx context.Context, kind domain.Kind, query string) []domain.Suggestion
}

// SearchServicer serves cross-entity search.
type SearchServicer interface {
	Search(ctx context.Context, query, typeFilter, categoryFilter string) (service.SearchResults, error)
}

// HistoryLister loads the maintenance history of resolved equipment.
type HistoryLister interface {
	Detail(ctx context.Context, e domain.Equipment) (domain.EquipmentDetail, error)
}

// Pinger reports whether the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators a Server needs. History, Store and Metrics are
// optional; without History equipment is returned without its maintenance.
type Deps struct {
	Equipment   Resolver[domain.Equipment]
	Buildings   Resolver[domain.Building]
	Locations   Resolver[domain.Location]
	Maintenance Resolver[domain.MaintenanceLog]
	History     HistoryLister
	Suggest     Suggester
	Search      SearchServicer
	Store       Pinger
	Metrics     http.Handler
	Logger      *slog.Logger
}

// Server implements every API endpoint.
type Server struct {
	deps Deps
	log  *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{deps: deps, log: log}
}

// Routes returns a chi router with every endpoint registered.
// Middleware is left to the caller so main.go controls ordering.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Get("/equipment/{identifier}", resolveHandler(s, s.deps.Equipment, s.equipmentDetail))
	r.Get("/buildings/{identifier}", resolveHandler(s, s.deps.Buildings, nil))
	r.Get("/locations/{identifier}", resolveHandler(s, s.deps.Locations, nil))
	r.Get("/maintenance/{identifier}", resolveHandler(s, s.deps.Maintenance, nil))

	r.Get("/suggest", s.GetSuggest)
	r.Get("/search", s.GetSearch)

	if s.deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.deps.Metrics)
	}
	return r
}
