package routes

import (
	"net/http"

	"github.com/zatekoja/facilityreservation/internal/api/handlers"
	"github.com/zatekoja/facilityreservation/internal/api/middleware"
	"github.com/zatekoja/facilityreservation/internal/application/navigation"
	"github.com/zatekoja/facilityreservation/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	authHandler        *handlers.AuthHandler
	userHandler        *handlers.UserHandler
	facilityHandler    *handlers.FacilityHandler
	reservationHandler *handlers.ReservationHandler
	navigationHandler  *handlers.NavigationHandler

	auth    *middleware.Auth
	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	facilityHandler *handlers.FacilityHandler,
	reservationHandler *handlers.ReservationHandler,
	navigationHandler *handlers.NavigationHandler,
	auth *middleware.Auth,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		authHandler:        authHandler,
		userHandler:        userHandler,
		facilityHandler:    facilityHandler,
		reservationHandler: reservationHandler,
		navigationHandler:  navigationHandler,
		auth:               auth,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	session := r.auth.RequireSession
	admin := r.auth.RequireRoles(navigation.AdminRoles...)
	manager := r.auth.RequireRoles(navigation.ManagerRoles...)

	// Identity
	r.mux.HandleFunc("POST /api/auth/register", r.authHandler.Register)
	r.mux.HandleFunc("POST /api/auth/login", r.authHandler.Login)
	r.mux.Handle("POST /api/auth/logout", session(http.HandlerFunc(r.authHandler.Logout)))
	r.mux.Handle("GET /api/auth/me", session(http.HandlerFunc(r.authHandler.Me)))

	// Facilities
	r.mux.HandleFunc("GET /api/facilities", r.facilityHandler.ListFacilities)
	r.mux.HandleFunc("GET /api/facilities/{id}", r.facilityHandler.GetFacility)
	r.mux.HandleFunc("GET /api/facilities/{id}/availability", r.facilityHandler.GetAvailability)

	// Client reservations
	r.mux.Handle("POST /api/reservations", session(http.HandlerFunc(r.reservationHandler.CreateReservation)))
	r.mux.Handle("GET /api/reservations/mine", session(http.HandlerFunc(r.reservationHandler.MyReservations)))
	r.mux.Handle("POST /api/reservations/{id}/cancel", session(http.HandlerFunc(r.reservationHandler.CancelReservation)))

	// Facility manager
	r.mux.Handle("GET /api/manager/facilities", manager(http.HandlerFunc(r.facilityHandler.ManagedFacilities)))
	r.mux.Handle("POST /api/manager/facilities", manager(http.HandlerFunc(r.facilityHandler.AddFacility)))
	r.mux.Handle("POST /api/manager/facilities/{id}/blocked-dates", manager(http.HandlerFunc(r.facilityHandler.BlockDate)))
	r.mux.Handle("DELETE /api/manager/facilities/{id}/blocked-dates/{date}", manager(http.HandlerFunc(r.facilityHandler.UnblockDate)))
	r.mux.Handle("GET /api/manager/reservations", manager(http.HandlerFunc(r.reservationHandler.ManagedReservations)))
	r.mux.Handle("POST /api/manager/reservations/{id}/approve", manager(http.HandlerFunc(r.reservationHandler.ApproveReservation)))
	r.mux.Handle("POST /api/manager/reservations/{id}/deny", manager(http.HandlerFunc(r.reservationHandler.DenyReservation)))

	// Administration
	r.mux.Handle("GET /api/admin/reservations/pending", admin(http.HandlerFunc(r.reservationHandler.PendingReservations)))
	r.mux.Handle("POST /api/admin/reservations/{id}/approve", admin(http.HandlerFunc(r.reservationHandler.ApproveReservation)))
	r.mux.Handle("POST /api/admin/reservations/{id}/deny", admin(http.HandlerFunc(r.reservationHandler.DenyReservation)))
	r.mux.Handle("GET /api/admin/users", admin(http.HandlerFunc(r.userHandler.ListUsers)))
	r.mux.Handle("GET /api/admin/users/pending", admin(http.HandlerFunc(r.userHandler.PendingUsers)))
	r.mux.Handle("POST /api/admin/users/{id}/approve", admin(http.HandlerFunc(r.userHandler.ApproveUser)))
	r.mux.Handle("POST /api/admin/users/{id}/block", admin(http.HandlerFunc(r.userHandler.BlockUser)))

	// Navigation
	r.mux.Handle("GET /api/navigation/resolve", r.auth.OptionalSession(http.HandlerFunc(r.navigationHandler.Resolve)))
	r.mux.HandleFunc("GET /api/navigation/routes", r.navigationHandler.Routes)

	// Apply middleware in reverse order (last middleware wraps first).
	// Logging and observability must wrap the mux directly so they see the
	// matched route pattern.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
