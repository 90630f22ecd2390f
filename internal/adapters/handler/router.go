package handler

import (
	"net/http"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
)

// Authenticator guards a handler behind a role check.
type Authenticator interface {
	RequireRole(roles []domain.Role, next http.HandlerFunc) http.HandlerFunc
}

// Routes groups every handler served by the gateway.
type Routes struct {
	Auth          Authenticator
	Health        *HealthHandler
	Session       *SessionHandler
	Entities      *EntityHandler
	Registrations *RegistrationHandler
	Operations    *OperationsHandler
	Metrics       http.Handler
}

var dashboardRoles = []domain.Role{domain.RoleAdmin, domain.RoleManager}

func NewRouter(rt Routes) *http.ServeMux {
	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("GET /health", rt.Health.Health)
	mux.HandleFunc("GET /health/ready", rt.Health.Ready)
	mux.HandleFunc("GET /health/live", rt.Health.Live)
	if rt.Metrics != nil {
		mux.Handle("GET /metrics", rt.Metrics)
	}

	guard := func(h http.HandlerFunc) http.HandlerFunc {
		return rt.Auth.RequireRole(dashboardRoles, h)
	}

	mux.HandleFunc("GET /session/society", guard(rt.Session.Get))
	mux.HandleFunc("PUT /session/society", guard(rt.Session.Select))
	mux.HandleFunc("DELETE /session/society", guard(rt.Session.Clear))

	mux.HandleFunc("GET /state", guard(rt.Entities.Entities))
	mux.HandleFunc("GET /state/{entity}", guard(rt.Entities.State))

	mux.HandleFunc("GET /api/{entity}", guard(rt.Entities.List))
	mux.HandleFunc("POST /api/{entity}", guard(rt.Entities.Create))
	mux.HandleFunc("GET /api/{entity}/{id}", guard(rt.Entities.Get))
	mux.HandleFunc("PUT /api/{entity}/{id}", guard(rt.Entities.Update))
	mux.HandleFunc("DELETE /api/{entity}/{id}", guard(rt.Entities.Delete))

	mux.HandleFunc("POST /api/registrations", guard(rt.Registrations.Register))
	mux.HandleFunc("PUT /api/registrations/{id}/approve", guard(rt.Registrations.Approve))
	mux.HandleFunc("PUT /api/registrations/{id}/reject", guard(rt.Registrations.Reject))

	mux.HandleFunc("PUT /api/bills/{id}/pay", guard(rt.Operations.PayBill))
	mux.HandleFunc("PUT /api/complaints/{id}/status", guard(rt.Operations.ComplaintStatus))

	return mux
}
