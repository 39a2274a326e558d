package handlers

import (
	"net/http"

	"github.com/zatekoja/facilityreservation/internal/api/middleware"
	"github.com/zatekoja/facilityreservation/internal/application/navigation"
)

// NavigationHandler exposes the page guard to the client application
type NavigationHandler struct{}

// NewNavigationHandler creates a new navigation handler
func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

// Resolve handles GET /api/navigation/resolve?path=
func (h *NavigationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		respondWithError(w, http.StatusBadRequest, "path is required")
		return
	}
	respondOK(w, http.StatusOK, "", navigation.Resolve(path, middleware.UserFromContext(r.Context())))
}

// Routes handles GET /api/navigation/routes
func (h *NavigationHandler) Routes(w http.ResponseWriter, r *http.Request) {
	respondOK(w, http.StatusOK, "", navigation.Routes)
}
